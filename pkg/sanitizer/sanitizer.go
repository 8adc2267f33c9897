package sanitizer

import (
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// SanitizeGroupName trims and collapses whitespace; display casing is kept.
func SanitizeGroupName(input string) string {
	p := Pipeline{
		TrimAndNormalize,
	}
	return p.Apply(input)
}

// SanitizeNotes normalizes whitespace and strips control characters that
// would corrupt log lines or JSON payloads.
func SanitizeNotes(input string) string {
	p := Pipeline{
		stripControlRunes,
		TrimAndNormalize,
	}
	return p.Apply(input)
}

func stripControlRunes(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
