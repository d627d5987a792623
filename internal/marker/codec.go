// Package marker hides a localization resource key inside displayed text
// using invisible characters, and recovers it without touching the visible
// part of the string.
//
// A marked string looks like
//
//	⁊⁊⁊ KEY ⁊-⁊⁊ TEXT
//
// where ⁊ stands for U+206A. Zero-width space, non-joiner and joiner runes around
// key characters are padding and ignored when decoding. The older
// ⁊⁊⁊ KEY ⁊ TEXT ⁊⁊ layout is decoded as well.
package marker

import (
	"fmt"
	"strings"
)

const (
	// Delimiter is U+206A NATIONAL DIGIT SHAPES.
	Delimiter = '\u206A'

	zeroWidthSpace     = '\u200B'
	zeroWidthNonJoiner = '\u200C'
	zeroWidthJoiner    = '\u200D'

	// separator ends the key in the producer format.
	separator = "\u206A-\u206A\u206A"
	opener    = "\u206A\u206A\u206A"
	trailer   = "\u206A\u206A"

	detectPrefix = "&#x206A;&#x206A;"
)

// Match is the result of decoding a marked string.
type Match struct {
	Key     string // resource key, never empty, never contains Delimiter
	RawText string // the input as given
	Text    string // visible text with the marker removed
}

// IsPadding reports whether r is decorative invisible padding.
func IsPadding(r rune) bool {
	return r == zeroWidthSpace || r == zeroWidthNonJoiner || r == zeroWidthJoiner
}

// ToXMLHex escapes every rune to its numeric character reference form, for
// example "A" becomes "&#x41;".
func ToXMLHex(s string) string {
	var b strings.Builder
	for _, r := range s {
		fmt.Fprintf(&b, "&#x%X;", r)
	}
	return b.String()
}

// Detect is the cheap prefilter: it reports whether the escaped form of the
// text starts with two encoded delimiters.
func Detect(text string) bool {
	var head []rune
	for _, r := range text {
		head = append(head, r)
		if len(head) == 2 {
			break
		}
	}
	return strings.HasPrefix(ToXMLHex(string(head)), detectPrefix)
}

// ExtractKey finds the first ⁊⁊⁊KEY⁊ run and returns the key. ok is false
// when the text carries no marker; that is an ordinary outcome.
func ExtractKey(text string) (m Match, ok bool) {
	start := strings.Index(text, opener)
	if start < 0 {
		return Match{}, false
	}
	// Longer delimiter runs collapse onto the last three.
	rest := text[start+len(opener):]
	for strings.HasPrefix(rest, string(Delimiter)) {
		rest = rest[len(string(Delimiter)):]
	}
	end := strings.IndexRune(rest, Delimiter)
	if end <= 0 {
		return Match{}, false
	}
	raw := rest[:end]
	key := stripPadding(raw)
	if key == "" {
		// A key made only of invisible runes is a binary-encoded id; keep it.
		key = raw
	}

	visible := rest[end:]
	switch {
	case strings.HasPrefix(visible, separator):
		visible = visible[len(separator):]
	default:
		visible = strings.TrimPrefix(visible, string(Delimiter))
		visible = strings.TrimSuffix(visible, trailer)
	}
	return Match{Key: key, RawText: text, Text: text[:start] + visible}, true
}

// HeaderText renders the key the way downstream tooling expects to find it
// in an artifact header: ⁊⁊⁊KEY⁊-⁊⁊.
func HeaderText(key string) string {
	return opener + key + separator
}

// Encode marks text with key.
func Encode(key, text string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return opener + key + separator + text, nil
}

// EncodePadded marks text with key and wraps every key rune in zero-width
// joiners. Decoding yields the same key as Encode.
func EncodePadded(key, text string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(opener)
	for _, r := range key {
		b.WriteRune(zeroWidthJoiner)
		b.WriteRune(r)
		b.WriteRune(zeroWidthJoiner)
	}
	b.WriteString(separator)
	b.WriteString(text)
	return b.String(), nil
}

// Strip removes the marker and returns the visible text. Unmarked text is
// returned unchanged.
func Strip(text string) string {
	if m, ok := ExtractKey(text); ok {
		return m.Text
	}
	return text
}

func validateKey(key string) error {
	if stripPadding(key) == "" {
		return fmt.Errorf("marker key must contain at least one visible character")
	}
	if strings.ContainsRune(key, Delimiter) {
		return fmt.Errorf("marker key %q contains the U+206A delimiter", key)
	}
	return nil
}

func stripPadding(s string) string {
	return strings.Map(func(r rune) rune {
		if IsPadding(r) {
			return -1
		}
		return r
	}, s)
}
