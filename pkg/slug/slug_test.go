// Copyright (c) 2026 Pagebound. All rights reserved.

package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "The Great Gatsby", "the-great-gatsby"},
		{"punctuation", "Crime & Punishment", "crime-punishment"},
		{"diacritics", "Les Misérables", "les-miserables"},
		{"numbers kept", "Catch-22", "catch-22"},
		{"leading and trailing junk", "  ...Dune!  ", "dune"},
		{"collapsed separators", "War --- and Peace", "war-and-peace"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.input))
		})
	}
}

func TestMakeTruncation(t *testing.T) {
	long := strings.Repeat("abcde ", 50)
	got := Make(long)

	assert.LessOrEqual(t, len(got), 120)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("the-great-gatsby"))
	assert.True(t, IsValid("catch-22"))

	assert.False(t, IsValid(""))
	assert.False(t, IsValid("-leading"))
	assert.False(t, IsValid("trailing-"))
	assert.False(t, IsValid("double--hyphen"))
	assert.False(t, IsValid("UpperCase"))
	assert.False(t, IsValid("spaced out"))
}

func TestMakeIsValidRoundTrip(t *testing.T) {
	for _, title := range []string{"The Great Gatsby", "Les Misérables", "Catch-22"} {
		assert.True(t, IsValid(Make(title)), "slug of %q should validate", title)
	}
}
