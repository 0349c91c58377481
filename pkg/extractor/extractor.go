// Package extractor normalizes content sources (URLs, raw text, PDF bytes,
// text files) into plain text plus a title.
package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"

	"github.com/studyrag/studyrag/internal/models"
)

// ExtractionError reports a failed fetch, an unsupported content type or a
// decode failure. The cause, when present, is preserved for unwrapping.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }

type ExtractorConfig struct {
	Timeout       time.Duration
	RateLimit     float64 // outbound requests per second
	MaxURLContent int     // cap on text extracted from a fetched URL
	UserAgent     string
}

type Extractor struct {
	config  ExtractorConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewWithConfig(config ExtractorConfig) *Extractor {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}
	if config.MaxURLContent == 0 {
		config.MaxURLContent = 100000
	}
	if config.UserAgent == "" {
		config.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}

	return &Extractor{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

func New() *Extractor {
	return NewWithConfig(ExtractorConfig{})
}

// Extract resolves the source variant and returns normalized text plus a
// derived title. A caller-supplied title on the source is resolved later, by
// the service layer; Extract always reports what it derived itself.
func (e *Extractor) Extract(ctx context.Context, src models.Source) (string, string, error) {
	switch src.Kind {
	case models.SourceURL:
		return e.extractFromURL(ctx, src.URL)
	case models.SourceText:
		return e.extractFromRawText(src.Text)
	case models.SourcePDF:
		return e.extractFromPDF(src.Data)
	case models.SourceTXT:
		return e.extractFromTextFile(src.Data, src.Filename)
	default:
		return "", "", &ExtractionError{Reason: fmt.Sprintf("unsupported source type: %s", src.Kind)}
	}
}

func (e *Extractor) extractFromURL(ctx context.Context, urlStr string) (string, string, error) {
	if !strings.HasPrefix(urlStr, "http://") && !strings.HasPrefix(urlStr, "https://") {
		return "", "", &ExtractionError{Reason: "invalid URL: must start with http:// or https://"}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return "", "", &ExtractionError{Reason: "failed to fetch URL", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", "", &ExtractionError{Reason: "failed to fetch URL", Err: err}
	}
	req.Header.Set("User-Agent", e.config.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", "", &ExtractionError{Reason: "failed to fetch URL", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", "", &ExtractionError{Reason: fmt.Sprintf("failed to fetch URL: received status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", &ExtractionError{Reason: "failed to read response body", Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/pdf"):
		return e.extractFromPDF(body)
	case strings.Contains(contentType, "text/html") || contentType == "":
		return e.extractFromHTML(string(body), urlStr)
	case strings.Contains(contentType, "text/plain"):
		text := truncate(normalizeText(string(body)), e.config.MaxURLContent)
		return text, titleFromURL(urlStr), nil
	default:
		return "", "", &ExtractionError{Reason: fmt.Sprintf("unsupported content type: %s", contentType)}
	}
}

func (e *Extractor) extractFromRawText(raw string) (string, string, error) {
	text := normalizeText(raw)

	title := "Text Document"
	if text != "" {
		firstLine := strings.SplitN(text, "\n", 2)[0]
		title = firstLine
		if len(firstLine) > 50 {
			title = truncate(firstLine, 50) + "..."
		}
	}

	return text, title, nil
}

func (e *Extractor) extractFromTextFile(data []byte, filename string) (string, string, error) {
	// Try encodings in order until one decodes. Mirrors the upload formats
	// seen in practice: UTF-8 first, then the common single-byte fallbacks.
	decoders := []struct {
		name    string
		decoder *encoding.Decoder
	}{
		{"utf-8", nil},
		{"latin-1", charmap.ISO8859_1.NewDecoder()},
		{"cp1252", charmap.Windows1252.NewDecoder()},
	}

	var text string
	decoded := false
	for _, d := range decoders {
		if d.decoder == nil {
			if utf8.Valid(data) {
				text = string(data)
				decoded = true
				break
			}
			continue
		}
		out, err := d.decoder.Bytes(data)
		if err == nil {
			text = string(out)
			decoded = true
			break
		}
	}
	if !decoded {
		return "", "", &ExtractionError{Reason: "could not decode text file with supported encodings"}
	}

	return normalizeText(text), titleFromFilename(filename), nil
}

// normalizeText collapses runs of blank lines and horizontal whitespace and
// drops non-printable characters, keeping newlines and carriage returns.
func normalizeText(text string) string {
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	text = tabRuns.ReplaceAllString(text, " ")
	text = spaceRuns.ReplaceAllString(text, " ")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPrint(r) || r == '\n' || r == '\r' {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

var (
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	spaceRuns      = regexp.MustCompile(` {2,}`)
	tabRuns        = regexp.MustCompile(`\t+`)
)

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
