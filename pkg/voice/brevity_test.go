package voice

import (
	"strings"
	"testing"
)

func TestCompactForSpeech(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		want          string
		wantTruncated bool
	}{
		{
			name:  "short text unchanged",
			input: "Sure, I can help with that.",
			want:  "Sure, I can help with that.",
		},
		{
			name:  "collapses repeated punctuation",
			input: "Wow!!! Really??? Yes...",
			want:  "Wow! Really? Yes.",
		},
		{
			name:  "keeps first three sentences",
			input: "One is here. Two is here. Three is here. Four is dropped. Five is dropped.",
			want:  "One is here. Two is here. Three is here.",
		},
		{
			name:  "appends terminal punctuation",
			input: "this trails off",
			want:  "this trails off.",
		},
		{
			name:  "empty input",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := CompactForSpeech(tt.input)
			if got != tt.want {
				t.Errorf("CompactForSpeech = %q, want %q", got, tt.want)
			}
			if truncated != tt.wantTruncated {
				t.Errorf("truncated = %v, want %v", truncated, tt.wantTruncated)
			}
		})
	}
}

func TestCompactForSpeechTruncatesAtSentenceBoundary(t *testing.T) {
	// Three long sentences; the third pushes past the length cap but a
	// sentence boundary falls inside the truncation window.
	first := strings.Repeat("alpha ", 20) + "ends here."   // ~130 chars
	second := strings.Repeat("bravo ", 20) + "stops here." // ~131 chars
	third := strings.Repeat("charlie ", 25) + "done."      // ~205 chars

	got, truncated := CompactForSpeech(first + " " + second + " " + third)
	if truncated {
		t.Fatalf("expected clean sentence-boundary cut, got hard truncation: %q", got)
	}
	if !strings.HasSuffix(got, "stops here.") {
		t.Errorf("expected cut after second sentence, got %q", got)
	}
	if len(got) > maxSpokenLen {
		t.Errorf("result too long: %d chars", len(got))
	}
}

func TestCompactForSpeechHardTruncation(t *testing.T) {
	// One endless sentence with no boundary in the truncation window.
	input := strings.Repeat("word ", 120) // 600 chars, no terminator
	got, truncated := CompactForSpeech(input)
	if !truncated {
		t.Fatalf("expected hard truncation, got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("hard truncation must end with ellipsis, got %q", got)
	}
	if len(got) > truncateAt+4 {
		t.Errorf("result too long after truncation: %d chars", len(got))
	}
}
