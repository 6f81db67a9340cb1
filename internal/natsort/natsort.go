// Package natsort orders strings the way a person reads them: embedded
// numbers compare by value and text compares case-insensitively, so
// "img2.png" sorts before "img10.png".
package natsort

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Part is one run of a sort key.
// Keys alternate text, digits, text, ... and always start with a (possibly
// empty) text run, so parts at the same index have the same kind.
type Part struct {
	Text   string // case-folded text, or digits with leading zeros removed
	Digits bool
}

// Key splits s into alternating non-digit and digit runs.
func Key(s string) []Part {
	fold := cases.Fold()
	parts := make([]Part, 0, 4)

	var b strings.Builder
	inDigits := false
	flush := func() {
		run := b.String()
		b.Reset()
		if inDigits {
			trimmed := strings.TrimLeft(run, "0")
			if trimmed == "" {
				trimmed = "0"
			}
			parts = append(parts, Part{Text: trimmed, Digits: true})
			return
		}
		parts = append(parts, Part{Text: fold.String(run)})
	}

	for _, r := range s {
		isDigit := r >= '0' && r <= '9'
		if isDigit != inDigits {
			flush()
			inDigits = isDigit
		}
		b.WriteRune(r)
	}
	flush()

	return parts
}

// Compare returns -1, 0 or +1 comparing a and b in natural order.
// Strings with equal keys ("a01" and "a1", "A" and "a") fall back to byte
// order so the ordering stays total.
func Compare(a, b string) int {
	if c := compareKeys(Key(a), Key(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Less reports whether a sorts before b in natural order.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Strings sorts names in place in natural order.
func Strings(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return Less(names[i], names[j])
	})
}

// Paths sorts file paths in place by the natural order of their base names.
func Paths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return Less(filepath.Base(paths[i]), filepath.Base(paths[j]))
	})
}

func compareKeys(a, b []Part) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := comparePart(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func comparePart(a, b Part) int {
	if a.Digits && b.Digits {
		// Leading zeros are already stripped, so a longer run is a larger
		// number. This never overflows, unlike strconv.Atoi.
		if len(a.Text) != len(b.Text) {
			if len(a.Text) < len(b.Text) {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a.Text, b.Text)
}
