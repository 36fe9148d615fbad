package model

import "time"

// TVSubscription maps a Discord user to a TMDB show they follow.
type TVSubscription struct {
	UserID    string
	TMDBID    int64
	ShowName  string
	CreatedAt time.Time
}

// MovieSubscription maps a Discord user to an upcoming TMDB movie.
type MovieSubscription struct {
	UserID      string
	TMDBID      int64
	Title       string
	ReleaseDate string // YYYY-MM-DD, may be empty when TMDB has no date yet
	Notified    bool
	CreatedAt   time.Time
}

// Episode identifies one aired (or airing) episode of a show.
type Episode struct {
	ShowTMDBID int64
	ShowName   string
	Season     int
	Number     int
	Name       string
	AirDate    string // YYYY-MM-DD
}

// ShowSummary is a TMDB search hit (TV or movie).
type ShowSummary struct {
	TMDBID       int64
	Name         string
	FirstAirDate string
	Overview     string
}

// ShowDetails is the subset of TMDB show details the bot surfaces.
type ShowDetails struct {
	TMDBID      int64
	Name        string
	Overview    string
	Status      string
	NextEpisode *Episode
	LastEpisode *Episode
}
