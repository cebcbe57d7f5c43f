package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
)

const maxEntryTextLength = 200

// EntryCount reports whether a request of n entries is within labels.max-entries.
// A non-positive limit disables the check.
func EntryCount(n int) bool {
	limit := viper.GetInt("labels.max-entries")
	return limit <= 0 || n <= limit
}

// EntryText accepts printable label text: valid UTF-8, no line breaks and at
// most maxEntryTextLength runes.
func EntryText(text string) bool {
	return utf8.ValidString(text) &&
		!strings.ContainsAny(text, "\r\n") &&
		utf8.RuneCountInString(text) <= maxEntryTextLength
}

// EntryImage accepts a relative file reference inside the asset directory.
func EntryImage(ref string) bool {
	if ref == "" {
		return true
	}
	if !utf8.ValidString(ref) || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, `\`) {
		return false
	}
	for _, part := range strings.FieldsFunc(ref, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return false
		}
	}
	return true
}
