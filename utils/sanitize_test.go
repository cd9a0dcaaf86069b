package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Jane Doe!":            "jane-doe",
		"  ACME   Corp  Ltd ":  "acme-corp-ltd",
		"../../etc/passwd":     "etcpasswd",
		"o'brien_&_sons":       "obrien__sons",
		"tab\tand\nnewline":    "tab-and-newline",
		"already-clean_name42": "already-clean_name42",
		"Zoë Çelik":            "zo-elik",
		"":                     AnonymousClient,
		"!!!":                  AnonymousClient,
		"   ":                  AnonymousClient,
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeName(in), "input %q", in)
	}
}

func TestSanitizeNameIsSingleSegment(t *testing.T) {
	inputs := []string{`C:\Users\Bob`, "/abs/path", "..", ".hidden", "a/b\\c", "Mixed CASE, with: punctuation; and   spaces"}
	for _, in := range inputs {
		got := SanitizeName(in)
		assert.NotContains(t, got, "/")
		assert.NotContains(t, got, `\`)
		assert.NotContains(t, got, ".")
		assert.NotContains(t, got, " ")
		assert.Equal(t, strings.ToLower(got), got)
	}
}

func TestSanitizeFileBase(t *testing.T) {
	assert.Equal(t, "photo", SanitizeFileBase("photo"))
	assert.Equal(t, "My-Photo", SanitizeFileBase(" My  Photo "), "case is preserved")
	assert.Equal(t, "IMG_00011", SanitizeFileBase("IMG_0001(1)"))
	assert.Equal(t, DefaultUploadBase, SanitizeFileBase("???"))
	assert.Equal(t, DefaultUploadBase, SanitizeFileBase(""))
}

func TestSanitizeNameUnicodeWhitespace(t *testing.T) {
	for _, in := range []string{"Jane\vDoe", "Jane\u00a0Doe", "Jane\u3000Doe", "Jane\u2028Doe", "\ufeffJane \u2003 Doe\u00a0"} {
		assert.Equal(t, "jane-doe", SanitizeName(in), "input %q", in)
	}
}

func TestSanitizeFileBaseUnicodeWhitespace(t *testing.T) {
	assert.Equal(t, "My-Photo", SanitizeFileBase("My\u00a0Photo"))
	assert.Equal(t, "My-Photo", SanitizeFileBase("My\vPhoto"))
}

func TestSanitizeRejectsCaseFoldedLetters(t *testing.T) {
	// U+017F long s and U+212A Kelvin sign fold to s/k but are not ASCII.
	assert.Equal(t, DefaultUploadBase, SanitizeFileBase("\u017f\u212a"))
	assert.Equal(t, "ab", SanitizeFileBase("a\u017fb"))
	assert.Equal(t, "k", SanitizeName("\u212a"), "lowercasing maps the Kelvin sign to ASCII k")
	assert.Equal(t, AnonymousClient, SanitizeName("\u017f"))
}
