package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	fileExtension = regexp.MustCompile(`\.\w+$`)
	wordBreaks    = regexp.MustCompile(`[-_]+`)
	titleCaser    = cases.Title(language.English)
)

// titleFromURL derives a title from the last path segment, falling back to
// the host when the path is empty.
func titleFromURL(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	title := segments[len(segments)-1]
	title = fileExtension.ReplaceAllString(title, "")
	title = wordBreaks.ReplaceAllString(title, " ")
	return titleCaser.String(title)
}

// titleFromFilename strips the extension and turns separators into spaces.
func titleFromFilename(filename string) string {
	title := fileExtension.ReplaceAllString(filename, "")
	title = wordBreaks.ReplaceAllString(title, " ")
	return titleCaser.String(title)
}
