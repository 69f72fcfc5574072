package voice

import (
	"strings"
)

// SegmentKind labels what kind of boundary terminated a segment. It is
// diagnostic only and never affects ordering or synthesis.
type SegmentKind string

const (
	KindSentence SegmentKind = "sentence"
	KindClause   SegmentKind = "clause"
	KindPhrase   SegmentKind = "phrase"
)

// Segment is one speakable chunk of response text.
type Segment struct {
	Text string
	Kind SegmentKind
}

// Chunker splits response text into speakable segments, each bounded in
// length, preferring sentence boundaries, then clause boundaries, then
// word-boundary packing.
type Chunker struct {
	// MaxSegmentLen is the hard cap applied to every segment.
	MaxSegmentLen int
	// MinSentenceLen is the length under which a dangling sentence fragment
	// is merged into its neighbor.
	MinSentenceLen int
	// MinClauseLen is the minimum accumulated length before a clause split
	// is finalized.
	MinClauseLen int
	// PackLen is the target length for greedy word packing.
	PackLen int
}

// NewChunker returns a chunker with the standard pacing bounds.
func NewChunker() *Chunker {
	return &Chunker{
		MaxSegmentLen:  120,
		MinSentenceLen: 20,
		MinClauseLen:   40,
		PackLen:        45,
	}
}

// clauseConjunctions are the words after a comma at which a clause split is
// preferred over a bare comma split.
var clauseConjunctions = []string{
	"and", "but", "or", "however", "therefore",
	"meanwhile", "also", "because", "since", "while", "although",
}

// Split chunks text into ordered speakable segments. Segments concatenated
// in order reconstruct the input (modulo injected pacing commas and
// whitespace normalization).
func (c *Chunker) Split(text string) []Segment {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	parts := c.splitSentences(text)

	if len(parts) <= 1 && len(text) > 100 {
		parts = c.splitClauses(text)
	}

	if len(parts) <= 1 && len(strings.Fields(text)) > 6 {
		parts = c.packWords(text)
	}

	if len(parts) == 0 {
		parts = []string{text}
	}

	// Hard cap regardless of which stage produced the segments.
	var capped []string
	for _, p := range parts {
		capped = append(capped, c.enforceCap(p)...)
	}

	segments := make([]Segment, 0, len(capped))
	for _, p := range capped {
		segments = append(segments, Segment{Text: p, Kind: classify(p)})
	}
	return segments
}

func isSentenceTerminator(r byte) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitSentences splits at sentence terminators, keeping the terminator
// attached. A short fragment with no terminator of its own (an abbreviation
// artifact or trailing remainder) is merged into the neighboring segment
// rather than emitted on its own.
func (c *Chunker) splitSentences(text string) []string {
	var raw []string
	start := 0
	for i := 0; i < len(text); i++ {
		if isSentenceTerminator(text[i]) {
			// Swallow a run of terminators so "?!" stays on one segment.
			end := i + 1
			for end < len(text) && isSentenceTerminator(text[end]) {
				end++
			}
			piece := strings.TrimSpace(text[start:end])
			if piece != "" {
				raw = append(raw, piece)
			}
			start = end
			i = end - 1
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		raw = append(raw, rest)
	}

	// Merge undersized fragments forward into the next segment; a trailing
	// fragment merges backward.
	var out []string
	pending := ""
	for _, piece := range raw {
		if pending != "" {
			piece = pending + " " + piece
			pending = ""
		}
		if len(piece) < c.MinSentenceLen && !endsWithTerminator(piece) {
			pending = piece
			continue
		}
		out = append(out, piece)
	}
	if pending != "" {
		if len(out) > 0 {
			out[len(out)-1] = out[len(out)-1] + " " + pending
		} else {
			out = append(out, pending)
		}
	}
	return out
}

func endsWithTerminator(s string) bool {
	return len(s) > 0 && isSentenceTerminator(s[len(s)-1])
}

// splitClauses splits at commas, preferring commas followed by a
// coordinating or subordinating conjunction, accumulating pieces until each
// finalized segment exceeds MinClauseLen.
func (c *Chunker) splitClauses(text string) []string {
	pieces := splitAtCommas(text, true)
	if len(pieces) <= 1 {
		pieces = splitAtCommas(text, false)
	}
	if len(pieces) <= 1 {
		return pieces
	}

	var out []string
	current := ""
	for _, p := range pieces {
		if current == "" {
			current = p
		} else {
			current = current + " " + p
		}
		if len(current) > c.MinClauseLen {
			out = append(out, current)
			current = ""
		}
	}
	if current != "" {
		if len(out) > 0 {
			out[len(out)-1] = out[len(out)-1] + " " + current
		} else {
			out = append(out, current)
		}
	}
	return out
}

// splitAtCommas cuts after each comma, keeping the comma attached to the
// left piece. When conjunctionsOnly is set, only commas directly followed by
// a clause conjunction are cut points.
func splitAtCommas(text string, conjunctionsOnly bool) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != ',' {
			continue
		}
		if conjunctionsOnly && !followedByConjunction(text[i+1:]) {
			continue
		}
		piece := strings.TrimSpace(text[start : i+1])
		if piece != "" {
			out = append(out, piece)
		}
		start = i + 1
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func followedByConjunction(rest string) bool {
	rest = strings.TrimLeft(rest, " ")
	word := rest
	if idx := strings.IndexAny(rest, " ,.!?"); idx >= 0 {
		word = rest[:idx]
	}
	word = strings.ToLower(word)
	for _, conj := range clauseConjunctions {
		if word == conj {
			return true
		}
	}
	return false
}

// packWords greedily packs words into segments capped at PackLen, appending
// a pacing comma to every packed segment except the final one.
func (c *Chunker) packWords(text string) []string {
	words := strings.Fields(text)
	var out []string
	current := ""
	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if len(candidate) > c.PackLen && current != "" {
			out = append(out, current+",")
			current = w
			continue
		}
		current = candidate
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

// enforceCap splits any over-long segment at comma boundaries, then word
// boundaries, so no emitted segment exceeds MaxSegmentLen.
func (c *Chunker) enforceCap(segment string) []string {
	if len(segment) <= c.MaxSegmentLen {
		return []string{segment}
	}

	var out []string
	for _, piece := range splitAtCommas(segment, false) {
		if len(piece) <= c.MaxSegmentLen {
			out = append(out, piece)
			continue
		}
		out = append(out, c.splitAtWords(piece)...)
	}
	return out
}

func (c *Chunker) splitAtWords(piece string) []string {
	words := strings.Fields(piece)
	var out []string
	current := ""
	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if len(candidate) > c.MaxSegmentLen && current != "" {
			out = append(out, current)
			current = w
			continue
		}
		current = candidate
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

func classify(segment string) SegmentKind {
	if segment == "" {
		return KindPhrase
	}
	switch segment[len(segment)-1] {
	case '.', '!', '?':
		return KindSentence
	case ',', ';', ':':
		return KindClause
	default:
		return KindPhrase
	}
}
