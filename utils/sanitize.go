package utils

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// AnonymousClient names the upload folder of submissions without a usable name.
	AnonymousClient = "anonymous"
	// DefaultUploadBase replaces file names that sanitize to nothing.
	DefaultUploadBase = "upload"
)

// spaceClass is the ECMAScript whitespace set: ASCII \s, \v, Unicode Zs,
// line/paragraph separators and the BOM. RE2's \s alone is ASCII only.
const spaceClass = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	unsafeSegmentChars = regexp.MustCompile(`[^a-z0-9\-_` + spaceClass + `]`)
	// Explicit ranges, not (?i): case folding would admit ſ and the Kelvin sign.
	unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9\-_` + spaceClass + `]`)
	whitespaceRun   = regexp.MustCompile(`[` + spaceClass + `]+`)
)

// SanitizeName turns a client supplied name into a lowercase, hyphen-joined
// single path segment. Empty results fall back to AnonymousClient.
func SanitizeName(raw string) string {
	s := strings.ToLower(raw)
	s = unsafeSegmentChars.ReplaceAllString(s, "")
	s = collapseSpaces(s)
	if s == "" {
		return AnonymousClient
	}
	return s
}

// SanitizeFileBase applies the segment filter to a file base name without
// changing its case. Empty results fall back to DefaultUploadBase.
func SanitizeFileBase(base string) string {
	s := unsafeFileChars.ReplaceAllString(base, "")
	s = collapseSpaces(s)
	if s == "" {
		return DefaultUploadBase
	}
	return s
}

func collapseSpaces(s string) string {
	s = strings.TrimFunc(s, isSpace)
	return whitespaceRun.ReplaceAllString(s, "-")
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
