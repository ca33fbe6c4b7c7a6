// Package slug turns titles into URL-safe identifiers and finds a free
// variant of a slug by appending numeric suffixes.
package slug

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used when a title contains nothing that survives normalization.
const Fallback = "item"

// MaxAttempts bounds the suffix probing done by Unique.
const MaxAttempts = 1000

var ErrExhausted = errors.New("slug: no free suffix found")

// ExistsFunc reports whether candidate is already taken by some other record.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Make lowercases s, strips diacritics and collapses every run of characters
// outside [a-z0-9] into a single hyphen.
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r == 'đ':
			r = 'd'
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		default:
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}

	if b.Len() == 0 {
		return Fallback
	}
	return b.String()
}

// Unique returns base if it is free, otherwise the first free base-N for
// N = 1, 2, ... . base is expected to already be normalized by Make.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for i := 1; i <= MaxAttempts; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = WithSuffix(base, i)
	}
	return "", ErrExhausted
}

// WithSuffix appends -n to base.
func WithSuffix(base string, n int) string {
	return base + "-" + strconv.Itoa(n)
}
