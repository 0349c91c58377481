package extractor

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

func (e *Extractor) extractFromPDF(data []byte) (text string, title string, err error) {
	// The pdf package panics on some malformed inputs; surface those as
	// extraction errors like any other corrupt document.
	defer func() {
		if r := recover(); r != nil {
			text, title = "", ""
			err = &ExtractionError{Reason: "failed to extract PDF content"}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", "", &ExtractionError{Reason: "failed to extract PDF content", Err: err}
	}

	if info := reader.Trailer().Key("Info"); !info.IsNull() {
		if t := info.Key("Title"); t.Kind() == pdf.String {
			title = strings.TrimSpace(t.RawString())
		}
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, pageText)
	}

	text = normalizeText(strings.Join(pages, "\n\n"))

	if title == "" {
		title = pdfTitleFromText(text)
	}

	return text, title, nil
}

// pdfTitleFromText falls back to the first non-empty extracted line, capped
// at 100 characters.
func pdfTitleFromText(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 100 {
			return truncate(line, 100)
		}
		return line
	}
	return "PDF Document"
}
