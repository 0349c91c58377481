package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// boilerplateSelector matches the elements stripped before text extraction.
const boilerplateSelector = "script, style, nav, footer, header, aside"

// contentSelectors are tried in order; the first present wins.
var contentSelectors = []string{"main", "article", "body"}

func (e *Extractor) extractFromHTML(htmlContent, urlStr string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", "", &ExtractionError{Reason: "failed to parse HTML", Err: err}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = titleFromURL(urlStr)
	}

	doc.Find(boilerplateSelector).Remove()

	var sel *goquery.Selection
	for _, selector := range contentSelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			sel = found.First()
			break
		}
	}
	if sel == nil {
		sel = doc.Selection
	}

	text := normalizeText(selectionText(sel))
	return truncate(text, e.config.MaxURLContent), title, nil
}

// selectionText walks the selection's nodes and joins text nodes with
// newlines, so block boundaries survive as line breaks instead of the text
// running together.
func selectionText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}
