// Package dateutil resolves the dates shown on rendered manual pages:
// the free-form date of a .TH line and the date of a PDF footer.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is given without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// Keywords accepted by ResolveDate.
const (
	KeywordAuto = "auto" // today
	KeywordPage = "page" // the .TH date of the page
)

// dateTokens maps format tokens to Go layout fragments, longest first.
var dateTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets names common formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"man":      "MMMM YYYY",
}

// ParseDateFormat converts a format such as "DD/MM/YYYY" into a Go layout.
// Text inside brackets is copied literally: "[Rev.] YYYY".
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		i += writeToken(&b, format[i:])
	}
	return b.String(), nil
}

// writeToken writes the layout of the token at the start of s, or its
// first byte, and returns the number of bytes consumed.
func writeToken(b *strings.Builder, s string) int {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.layout)
			return len(t.token)
		}
	}
	b.WriteByte(s[0])
	return 1
}

// ResolveDate expands a footer date value:
//   - "auto" gives now in DefaultDateFormat;
//   - "auto:FORMAT" or "auto:PRESET" gives now in that format;
//   - "page" gives the normalised page date;
//   - "page:FORMAT" formats the page date when it parses;
//   - anything else is returned unchanged.
func ResolveDate(value, pageDate string, now time.Time) (string, error) {
	keyword, format, hasFormat := strings.Cut(value, ":")
	keyword = strings.ToLower(keyword)
	if keyword != KeywordAuto && keyword != KeywordPage {
		return value, nil
	}

	if !hasFormat {
		format = DefaultDateFormat
	} else if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty after %q", ErrInvalidDateFormat, keyword+":")
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}

	if keyword == KeywordAuto {
		return now.Format(layout), nil
	}
	t, ok := ParsePageDate(pageDate)
	if !ok {
		return strings.TrimSpace(pageDate), nil
	}
	return t.Format(layout), nil
}

// pageDateLayouts are the date spellings found in .TH lines.
var pageDateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"January 2006",
	"Jan 2006",
	"January, 2006",
	"02/01/2006",
}

// ParsePageDate parses the third .TH argument. Many pages carry free text
// such as "version 2.1" there, which does not parse.
func ParsePageDate(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range pageDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizePageDate returns the page date in ISO form when it parses, and
// the trimmed input otherwise.
func NormalizePageDate(s string) string {
	if t, ok := ParsePageDate(s); ok {
		return t.Format("2006-01-02")
	}
	return strings.TrimSpace(s)
}
