package discord

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitContent_ShortMessagePassesThrough(t *testing.T) {
	chunks := splitContent("hello", 2000)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Fatalf("chunks = %v", chunks)
	}
}

func TestSplitContent_EmptyYieldsNothing(t *testing.T) {
	if chunks := splitContent("   ", 2000); chunks != nil {
		t.Fatalf("chunks = %v, want nil", chunks)
	}
}

func TestSplitContent_RespectsLimit(t *testing.T) {
	text := strings.Repeat("word ", 1000) // ~5000 chars
	chunks := splitContent(text, 2000)
	if len(chunks) < 3 {
		t.Fatalf("chunks = %d, want >= 3", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 2000 {
			t.Fatalf("chunk %d length %d exceeds limit", i, len(c))
		}
		if c == "" {
			t.Fatalf("chunk %d is empty", i)
		}
	}
	if joined := strings.Join(chunks, " "); strings.ReplaceAll(joined, " ", "") != strings.ReplaceAll(text, " ", "") {
		t.Fatal("content lost or reordered during chunking")
	}
}

func TestSplitContent_PrefersNewlineBoundary(t *testing.T) {
	para := strings.Repeat("x", 1500)
	text := para + "\n" + para
	chunks := splitContent(text, 2000)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if chunks[0] != para || chunks[1] != para {
		t.Fatal("split did not happen at the newline boundary")
	}
}

func TestSplitContent_HardCutWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("x", 4100)
	chunks := splitContent(text, 2000)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	for _, c := range chunks {
		if len(c) > 2000 {
			t.Fatalf("chunk exceeds limit: %d", len(c))
		}
	}
}

func TestSplitContent_MultibyteWithinLimitStaysWhole(t *testing.T) {
	// 4500 bytes but only 1500 characters; the limit is characters.
	text := strings.Repeat("你", 1500)
	chunks := splitContent(text, 2000)
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("chunks = %d, want the text untouched", len(chunks))
	}
}

func TestSplitContent_HardCutStaysOnRuneBoundaries(t *testing.T) {
	text := strings.Repeat("你", 2500) // no newline or space to cut at
	chunks := splitContent(text, 2000)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Fatalf("chunk %d is not valid UTF-8", i)
		}
		if n := utf8.RuneCountInString(c); n > 2000 {
			t.Fatalf("chunk %d has %d runes, exceeds limit", i, n)
		}
	}
	if strings.Join(chunks, "") != text {
		t.Fatal("content lost during chunking")
	}
}
