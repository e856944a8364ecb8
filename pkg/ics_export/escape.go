package ics_export

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	ical "github.com/arran4/golang-ical"
)

var ErrInvalidText = errors.New("text is not valid UTF-8")

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// golang-ical only escapes LF, a bare CR would end up raw in the document.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// EscapeText escapes a TEXT value (RFC 5545 section 3.3.11).
func EscapeText(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", ErrInvalidText
	}
	return textEscaper.Replace(s), nil
}

// fallbackText keeps as much of an unescapable value as possible while making sure
// no raw line break reaches the document.
func fallbackText(s string) string {
	return lineBreaks.Replace(strings.ToValidUTF8(s, "�"))
}

// serializerEscapesText reports whether golang-ical escapes TEXT property values while
// serializing. Values are escaped here only when it does not, so the document never
// carries double escapes.
var serializerEscapesText = sync.OnceValue(func() bool {
	sample := ical.NewCalendar()
	sample.AddEvent("sample").SetProperty(ical.ComponentPropertySummary, ";")
	return strings.Contains(sample.Serialize(ical.WithNewLineWindows), `\;`)
})

// textValue prepares s for SetProperty.
func textValue(s string) (string, error) {
	if serializerEscapesText() {
		if !utf8.ValidString(s) {
			return "", ErrInvalidText
		}
		return newlines.Replace(s), nil
	}
	return EscapeText(s)
}
