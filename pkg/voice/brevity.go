package voice

import (
	"regexp"
	"strings"
)

// Spoken-delivery bounds. A voice reply that rambles past these is worse
// than a clipped one.
const (
	maxSpokenSentences = 3
	maxSpokenLen       = 400
	truncateAt         = 350
	truncateFloor      = 200
)

var (
	repeatedPeriods   = regexp.MustCompile(`\.{2,}`)
	repeatedBangs     = regexp.MustCompile(`!{2,}`)
	repeatedQuestions = regexp.MustCompile(`\?{2,}`)
)

// CompactForSpeech post-processes generated text for spoken delivery:
// repeated terminal punctuation is collapsed, at most three sentences are
// kept, and the result is bounded by a hard length cap. The returned flag
// reports whether a hard truncation was necessary, as a quality signal.
func CompactForSpeech(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	text = repeatedPeriods.ReplaceAllString(text, ".")
	text = repeatedBangs.ReplaceAllString(text, "!")
	text = repeatedQuestions.ReplaceAllString(text, "?")

	sentences := splitKeepingTerminators(text)
	if len(sentences) > maxSpokenSentences {
		sentences = sentences[:maxSpokenSentences]
	}
	text = strings.Join(sentences, " ")

	truncated := false
	if len(text) > maxSpokenLen {
		if cut := lastSentenceBoundaryBefore(text, truncateAt); cut > truncateFloor {
			text = strings.TrimSpace(text[:cut])
		} else {
			text = strings.TrimSpace(text[:truncateAt]) + "..."
			truncated = true
		}
	}

	if !endsWithTerminator(text) {
		text += "."
	}
	return text, truncated
}

// splitKeepingTerminators splits text into sentences with their original
// terminal punctuation attached.
func splitKeepingTerminators(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if isSentenceTerminator(text[i]) {
			piece := strings.TrimSpace(text[start : i+1])
			if piece != "" {
				out = append(out, piece)
			}
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// lastSentenceBoundaryBefore returns the index just past the last sentence
// terminator occurring before limit, or 0 when there is none.
func lastSentenceBoundaryBefore(text string, limit int) int {
	if limit > len(text) {
		limit = len(text)
	}
	for i := limit - 1; i >= 0; i-- {
		if isSentenceTerminator(text[i]) {
			return i + 1
		}
	}
	return 0
}
