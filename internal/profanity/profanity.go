// Package profanity classifies text as profane or clean.
package profanity

import goaway "github.com/TwiN/go-away"

// Detector reports whether a piece of text contains profanity.
type Detector interface {
	IsProfane(text string) bool
}

type goAwayDetector struct {
	inner *goaway.ProfanityDetector
}

// NewDetector returns the default detector backed by go-away's built-in
// dictionary, with leet-speak and special-character sanitization enabled.
func NewDetector() Detector {
	return &goAwayDetector{inner: goaway.NewProfanityDetector()}
}

func (d *goAwayDetector) IsProfane(text string) bool {
	if text == "" {
		return false
	}
	return d.inner.IsProfane(text)
}
