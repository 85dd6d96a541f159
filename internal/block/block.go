// Package block splits text into fixed-size symbol groups.
package block

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// Pad is appended to text that does not fill its last group.
const Pad = ' '

// Bigrams splits text into groups of two symbols. Text of odd length gets
// exactly one Pad appended first.
func Bigrams(text string) []string {
	if utf8.RuneCountInString(text)%2 != 0 {
		text += string(Pad)
	}
	return Split(text, 2)
}

// Trigrams splits text into groups of three symbols, appending Pad one at a
// time until the length is a multiple of three.
func Trigrams(text string) []string {
	n := utf8.RuneCountInString(text)
	for n%3 != 0 {
		text += string(Pad)
		n++
	}
	return Split(text, 3)
}

// Split cuts text into groups of size symbols. The symbol count of text must
// be a multiple of size.
func Split(text string, size int) []string {
	if size <= 0 {
		panic("block: size must be positive")
	}

	n := utf8.RuneCountInString(text)
	if n%size != 0 {
		panic("block: text length is not a multiple of the group size")
	}

	groups := make([]string, 0, n/size)
	for len(text) > 0 {
		end := 0
		for range size {
			_, w := utf8.DecodeRuneInString(text[end:])
			end += w
		}
		groups = append(groups, text[:end])
		text = text[end:]
	}
	return groups
}

// All yields the groups with their position. The sequence can be ranged
// over any number of times.
func All(groups []string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, g := range groups {
			if !yield(i, g) {
				return
			}
		}
	}
}

// Join concatenates groups back into text.
func Join(groups []string) string {
	return strings.Join(groups, "")
}
