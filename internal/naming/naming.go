// Package naming canonicalizes collection names for matching. File names
// and server-side collection titles both pass through Normalize so that
// matching is symmetric regardless of which side a separator or case
// difference came from.
package naming

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	spaceHyphenRun = regexp.MustCompile(`[\s\-]+`)
	spaceRun       = regexp.MustCompile(`\s+`)
	hyphenRun      = regexp.MustCompile(`-+`)
)

// Normalize returns the comparison key for a collection name: NFC
// normalized, lowercased, trimmed, with separator runs collapsed.
//
// When hyphensAsSpaces is true, any mixed run of spaces and hyphens
// collapses to a single space, so "Foo-Bar" and "Foo Bar" compare equal.
// When false, space runs and hyphen runs collapse independently and the
// two separators stay distinct.
func Normalize(name string, hyphensAsSpaces bool) string {
	// File names come from the filesystem and titles from the server;
	// the two can disagree on Unicode composition for the same text.
	n := norm.NFC.String(name)
	n = strings.ToLower(strings.TrimSpace(n))

	if hyphensAsSpaces {
		n = spaceHyphenRun.ReplaceAllString(n, " ")
	} else {
		n = spaceRun.ReplaceAllString(n, " ")
		n = hyphenRun.ReplaceAllString(n, "-")
	}

	// A leading or trailing hyphen run collapses to a separator above;
	// trim again so Normalize is idempotent.
	return strings.TrimSpace(n)
}
