package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// minContainedLength is the shortest token allowed to match by containment.
// Single letters ("C", "R") would otherwise be related to almost anything.
const minContainedLength = 2

// Fold returns the comparison form of a skill token: trimmed and Unicode case-folded.
func Fold(s string) string {
	// cases.Caser is stateful, so a fresh one is built per call.
	return cases.Fold().String(strings.TrimSpace(s))
}

// EqualFold reports whether two tokens are the same skill ignoring case.
func EqualFold(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	return fa != "" && fa == fb
}

// Related reports whether either folded token contains the other.
func Related(a, b string) bool {
	return relatedFolded(Fold(a), Fold(b))
}

func relatedFolded(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if utf8.RuneCountInString(b) >= minContainedLength && strings.Contains(a, b) {
		return true
	}
	return utf8.RuneCountInString(a) >= minContainedLength && strings.Contains(b, a)
}

// ContainsWord reports whether word occurs in s on letter boundaries, so
// that "java" is found in "java 17" but not in "javascript". Both arguments
// must already be folded.
func ContainsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for offset := 0; offset <= len(s)-len(word); {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if !letterBefore(s, start) && !letterAfter(s, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func letterBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r)
}

func letterAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}
