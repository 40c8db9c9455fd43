package export

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ContentTypePDF is the media type of exported documents.
const ContentTypePDF = "application/pdf"

const (
	filenamePrefix = "Career_GPS_"
	filenameSuffix = "_Strategy.pdf"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename builds the download name from the role: whitespace runs become
// underscores and anything that is not a letter, digit, '-' or '_' is dropped.
// "Senior Product Manager" gives "Career_GPS_Senior_Product_Manager_Strategy.pdf".
func Filename(role string) string {
	role = whitespaceRun.ReplaceAllString(strings.TrimSpace(role), "_")
	role = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return -1
	}, role)
	role = strings.Trim(role, "_")
	if role == "" {
		return strings.TrimSuffix(filenamePrefix, "_") + filenameSuffix
	}
	return filenamePrefix + role + filenameSuffix
}

// Document is a rendered export ready to be served or written.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// NewDocument wraps PDF bytes rendered for role.
func NewDocument(role string, content []byte) *Document {
	return &Document{
		Filename:    Filename(role),
		ContentType: ContentTypePDF,
		Content:     content,
	}
}

// ContentDisposition is the header value that makes browsers download the document.
// Non-ASCII names get an ASCII filename fallback plus an RFC 6266 filename* parameter.
func (d *Document) ContentDisposition() string {
	fallback := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '_'
		}
		return r
	}, d.Filename)
	if fallback == d.Filename {
		return fmt.Sprintf("attachment; filename=%q", d.Filename)
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fallback, url.PathEscape(d.Filename))
}
