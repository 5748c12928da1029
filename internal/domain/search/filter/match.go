package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchKind is the strictness of a text match, strongest first.
type MatchKind string

// Match kinds.
const (
	Exact        MatchKind = "exact"
	Prefix       MatchKind = "prefix"
	WordBoundary MatchKind = "word_boundary"
	Contains     MatchKind = "contains"
)

// IsValid checks if the kind is one of the supported values.
func (k MatchKind) IsValid() bool {
	return k == Exact || k == Prefix || k == WordBoundary || k == Contains
}

// MatchString reports whether value matches term under kind, ignoring case.
func MatchString(kind MatchKind, value, term string) bool {
	v := strings.ToLower(value)
	t := strings.ToLower(term)
	switch kind {
	case Exact:
		return v == t
	case Prefix:
		return strings.HasPrefix(v, t)
	case WordBoundary:
		return atWordBoundary(v, t)
	case Contains:
		return strings.Contains(v, t)
	}
	return false
}

// atWordBoundary reports whether t occurs in v at the start of v or right
// after a rune that is neither a letter nor a digit.
func atWordBoundary(v, t string) bool {
	if t == "" {
		return true
	}
	from := 0
	for from <= len(v) {
		i := strings.Index(v[from:], t)
		if i < 0 {
			return false
		}
		pos := from + i
		if pos == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(v[:pos])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		_, size := utf8.DecodeRuneInString(v[pos:])
		from = pos + size
	}
	return false
}
