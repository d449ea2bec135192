package album

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	reSpaces     = regexp.MustCompile(` +`)
	reSpacedDash = regexp.MustCompile(`\s+-\s+`)

	lower = cases.Lower(language.Und)
)

// DefaultName derives an album name from an audio filename.
//
//	DefaultName("Track01_Live.mp3")  // "Track 01 Live"
//	DefaultName("My_Song_01.mp3")    // "my Song 01"
//	DefaultName("track-intro.mp3")   // "Track-Intro"
func DefaultName(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return Normalize(stem)
}

// Normalize turns a filename stem into a display name:
//
//  1. underscores become spaces and runs of spaces collapse
//  2. a space is inserted wherever a non-digit is followed by a digit
//  3. " - " separators are made canonical
//  4. each word is re-cased (see normalizeWord)
//
// Normalizing a result again returns it unchanged unless lowercasing
// changed a word's length, as with "İ" which lowers to "i" plus a
// combining dot.
func Normalize(stem string) string {
	name := strings.ReplaceAll(stem, "_", " ")
	name = reSpaces.ReplaceAllString(name, " ")
	name = splitDigits(name)
	name = reSpacedDash.ReplaceAllString(name, " - ")

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = normalizeWord(w)
	}
	return strings.Join(words, " ")
}

// normalizeWord applies the casing rules to one word:
//   - hyphenated: first part capitalized, later parts longer than three
//     characters capitalized, short parts kept as they are
//   - up to three characters, or four with an apostrophe: lowercase
//   - otherwise capitalized
func normalizeWord(w string) string {
	if strings.Contains(w, "-") {
		parts := strings.Split(w, "-")
		parts[0] = capitalize(parts[0])
		for i := 1; i < len(parts); i++ {
			if utf8.RuneCountInString(parts[i]) > 3 {
				parts[i] = capitalize(parts[i])
			}
		}
		return strings.Join(parts, "-")
	}

	n := utf8.RuneCountInString(w)
	if n <= 3 || (n == 4 && strings.Contains(w, "'")) {
		return lower.String(w)
	}
	return capitalize(w)
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 {
		return w
	}
	return string(unicode.ToTitle(r)) + lower.String(w[size:])
}

// splitDigits inserts a space at every position where a non-digit rune is
// directly followed by a digit.
func splitDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	prevDigit := true
	for _, r := range s {
		digit := unicode.IsDigit(r)
		if digit && !prevDigit {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prevDigit = digit
	}
	return b.String()
}

// FallbackName is the coarser name used when a folder yields no albums at
// all: extension stripped, underscores and hyphens turned into spaces and
// every word title-cased.
func FallbackName(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return titleCase(stem)
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "don't" becomes "Don'T".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		letter := unicode.IsLetter(r)
		switch {
		case letter && !prevLetter:
			b.WriteRune(unicode.ToTitle(r))
		case letter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = letter
	}
	return b.String()
}
