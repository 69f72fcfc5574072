package voice

import (
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	c := NewChunker()

	segments := c.Split("Hello! How are you today? I am doing well.")
	if len(segments) != 3 {
		t.Fatalf("segment count = %d, want 3", len(segments))
	}
	want := []string{"Hello!", "How are you today?", "I am doing well."}
	for i, s := range segments {
		if s.Text != want[i] {
			t.Errorf("segment %d = %q, want %q", i, s.Text, want[i])
		}
		if s.Kind != KindSentence {
			t.Errorf("segment %d kind = %q, want %q", i, s.Kind, KindSentence)
		}
	}

	// Order-preserving: rejoining reconstructs the input.
	var joined []string
	for _, s := range segments {
		joined = append(joined, s.Text)
	}
	if got := strings.Join(joined, " "); got != "Hello! How are you today? I am doing well." {
		t.Errorf("reconstruction = %q", got)
	}
}

func TestSplitMergesTrailingFragment(t *testing.T) {
	c := NewChunker()
	segments := c.Split("Yes. ok then")
	if len(segments) != 1 {
		t.Fatalf("segment count = %d, want 1", len(segments))
	}
	if segments[0].Text != "Yes. ok then" {
		t.Errorf("segment = %q", segments[0].Text)
	}
}

func TestSplitClauses(t *testing.T) {
	c := NewChunker()
	text := "I went to the store to buy some groceries, but they were closed for the holiday, so I drove home again quietly."
	segments := c.Split(text)
	if len(segments) != 2 {
		t.Fatalf("segment count = %d, want 2: %#v", len(segments), segments)
	}
	if segments[0].Kind != KindClause {
		t.Errorf("first kind = %q, want clause", segments[0].Kind)
	}
	if !strings.HasSuffix(segments[0].Text, ",") {
		t.Errorf("first segment should keep its comma: %q", segments[0].Text)
	}
	if segments[1].Kind != KindSentence {
		t.Errorf("second kind = %q, want sentence", segments[1].Kind)
	}

	// The clause split must not lose any words.
	rejoined := strings.Join([]string{segments[0].Text, segments[1].Text}, " ")
	if rejoined != text {
		t.Errorf("reconstruction = %q, want %q", rejoined, text)
	}
}

func TestSplitPacksWords(t *testing.T) {
	c := NewChunker()
	segments := c.Split("one two three four five six seven eight nine ten")
	if len(segments) < 2 {
		t.Fatalf("expected word packing to split, got %#v", segments)
	}
	for i, s := range segments {
		// Packed segments get a pacing comma appended, hence the +1.
		if len(s.Text) > c.PackLen+1 {
			t.Errorf("segment %d overlong (%d): %q", i, len(s.Text), s.Text)
		}
		if i < len(segments)-1 && !strings.HasSuffix(s.Text, ",") {
			t.Errorf("packed segment %d missing pacing comma: %q", i, s.Text)
		}
	}
	if strings.HasSuffix(segments[len(segments)-1].Text, ",") {
		t.Errorf("final segment must not carry a pacing comma")
	}
}

func TestSplitEnforcesHardCap(t *testing.T) {
	c := NewChunker()
	long := strings.Repeat("the quick brown fox jumps over the lazy dog, ", 6)
	text := strings.TrimSuffix(strings.TrimSpace(long), ",") + ". Short tail here."
	segments := c.Split(text)
	if len(segments) < 2 {
		t.Fatalf("expected multiple segments, got %d", len(segments))
	}
	for i, s := range segments {
		if len(s.Text) > c.MaxSegmentLen {
			t.Errorf("segment %d exceeds cap (%d chars): %q", i, len(s.Text), s.Text)
		}
	}
}

func TestSplitEdgeCases(t *testing.T) {
	c := NewChunker()

	if got := c.Split(""); got != nil {
		t.Errorf("empty input should yield nil, got %#v", got)
	}
	if got := c.Split("   "); got != nil {
		t.Errorf("whitespace input should yield nil, got %#v", got)
	}

	// Short text passes through untouched.
	segments := c.Split("Hi there")
	if len(segments) != 1 || segments[0].Text != "Hi there" {
		t.Errorf("short text should be a single segment, got %#v", segments)
	}
	if segments[0].Kind != KindPhrase {
		t.Errorf("unterminated segment kind = %q, want phrase", segments[0].Kind)
	}

	// Runs of terminators stay attached to one segment.
	segments = c.Split("Really?! I had no idea that was true at all.")
	if len(segments) != 2 {
		t.Fatalf("segment count = %d, want 2: %#v", len(segments), segments)
	}
	if segments[0].Text != "Really?!" {
		t.Errorf("first segment = %q, want %q", segments[0].Text, "Really?!")
	}
}
