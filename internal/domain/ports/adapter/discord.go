package adapter

import "context"

// DiscordNotifier is what the background workers need from the bot:
// a way to reach a user (DM) or a channel with plain text.
type DiscordNotifier interface {
	SendDM(ctx context.Context, userID, text string) error
	SendChannel(ctx context.Context, channelID, text string) error
}
