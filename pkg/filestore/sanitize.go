package filestore

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SecureFilename reduces a client supplied name to a flat ASCII name that is
// safe to use on any filesystem or object store. Path separators become
// spaces, whitespace runs become "_", anything outside [A-Za-z0-9_.-] is
// dropped and leading/trailing dots and underscores are trimmed. The result
// may be empty.
func SecureFilename(name string) string {
	if folded, _, err := transform.String(stripMarks, name); err == nil {
		name = folded
	}

	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	name = b.String()

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// ValidName reports whether name is already in its secure form. Stores and
// file-serving routes reject anything else.
func ValidName(name string) bool {
	return name != "" && len(name) <= 255 && SecureFilename(name) == name
}
