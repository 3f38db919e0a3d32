// Copyright (c) 2026 Pagebound. All rights reserved.

// Package slug generates URL-safe identifiers from arbitrary titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugLength bounds generated slugs so they stay usable in URLs and indexes.
const maxSlugLength = 120

// Make converts a title into a lowercase, ASCII-only, hyphen-separated slug.
//
// Diacritics are stripped via Unicode NFD decomposition, anything that is not
// a letter or digit becomes a hyphen, and runs of hyphens are collapsed.
//
// Example:
//
//	Make("Crime & Punishment")  // "crime-punishment"
//	Make("Les Misérables")      // "les-miserables"
func Make(title string) string {
	// Decompose accented characters and drop the combining marks.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, title)
	if err != nil {
		ascii = title
	}

	var builder strings.Builder
	builder.Grow(len(ascii))

	previousHyphen := false
	for _, r := range strings.ToLower(ascii) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			builder.WriteRune(r)
			previousHyphen = false
		default:
			if !previousHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
				previousHyphen = true
			}
		}
	}

	result := strings.Trim(builder.String(), "-")

	if len(result) > maxSlugLength {
		result = strings.Trim(result[:maxSlugLength], "-")
	}

	return result
}

// IsValid reports whether s is a well-formed slug as produced by [Make].
func IsValid(s string) bool {
	if s == "" || len(s) > maxSlugLength {
		return false
	}

	previousHyphen := true // disallow leading hyphen
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			previousHyphen = false
		case r == '-':
			if previousHyphen {
				return false
			}
			previousHyphen = true
		default:
			return false
		}
	}

	return !previousHyphen // disallow trailing hyphen
}
