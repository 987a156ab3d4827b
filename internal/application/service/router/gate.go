package router

import "strings"

// defaultKeywords is the cheap first-pass vocabulary for "is this message
// plausibly about a scheduling event". The gate runs before any model
// call so chatter never pays for extraction or classification.
var defaultKeywords = []string{
	"meet", "meeting", "event", "class", "lecture",
	"dinner", "lunch", "tomorrow", "today", "next",
	"at", "pm", "am",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Gate is the local keyword filter.
type Gate struct {
	keywords map[string]bool
}

// NewGate builds a gate; an empty keyword list falls back to the default
// vocabulary.
func NewGate(keywords []string) *Gate {
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	set := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		set[strings.ToLower(kw)] = true
	}
	return &Gate{keywords: set}
}

// IsEventLike reports whether the text contains a scheduling keyword or a
// clock-time token such as "3pm" or "14:30". Matching is per word, not
// substring, so "that's" never trips the "at" keyword.
func (g *Gate) IsEventLike(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
	for _, w := range words {
		if g.keywords[w] || isClockToken(w) {
			return true
		}
	}
	return false
}

// isClockToken recognizes "7pm", "11am" and "14:30" style words.
func isClockToken(w string) bool {
	if rest, ok := strings.CutSuffix(w, "pm"); ok && isDigits(rest) {
		return true
	}
	if rest, ok := strings.CutSuffix(w, "am"); ok && isDigits(rest) {
		return true
	}
	h, m, ok := strings.Cut(w, ":")
	return ok && isDigits(h) && isDigits(m)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ':' stays inside words so "14:30" survives tokenization.
func isWordRune(r rune) bool {
	return r == '\'' || r == ':' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
