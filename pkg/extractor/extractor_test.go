package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyrag/studyrag/internal/models"
)

func testExtractor() *Extractor {
	return NewWithConfig(ExtractorConfig{RateLimit: 100})
}

func TestExtractHTMLPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`
			<html>
				<head><title>  Cell Biology Notes  </title></head>
				<body>
					<nav>Site navigation</nav>
					<main>
						<h1>The Cell</h1>
						<p>Mitochondria produce ATP through cellular respiration.</p>
					</main>
					<footer>Copyright notice</footer>
					<script>console.log("ignored")</script>
				</body>
			</html>
		`))
	}))
	defer server.Close()

	src, err := models.NewURLSource(server.URL, "")
	require.NoError(t, err)

	text, title, err := testExtractor().Extract(context.Background(), src)
	require.NoError(t, err)

	// The title tag wins over the URL-derived fallback, trimmed.
	assert.Equal(t, "Cell Biology Notes", title)
	assert.Contains(t, text, "Mitochondria produce ATP")
	assert.NotContains(t, text, "Site navigation")
	assert.NotContains(t, text, "Copyright notice")
	assert.NotContains(t, text, "console.log")
}

func TestExtractHTMLWithoutTitleFallsBackToURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><p>Content without any page title element here.</p></body></html>`))
	}))
	defer server.Close()

	src, err := models.NewURLSource(server.URL+"/study-notes.html", "")
	require.NoError(t, err)

	_, title, err := testExtractor().Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "Study Notes", title)
}

func TestExtractPlainTextURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Plain text body.\n\n\n\n\nWith   extra    whitespace."))
	}))
	defer server.Close()

	src, err := models.NewURLSource(server.URL+"/readme.txt", "")
	require.NoError(t, err)

	text, title, err := testExtractor().Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "Plain text body.\n\nWith extra whitespace.", text)
	assert.Equal(t, "Readme", title)
}

func TestExtractUnsupportedContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	}))
	defer server.Close()

	src, err := models.NewURLSource(server.URL, "")
	require.NoError(t, err)

	_, _, err = testExtractor().Extract(context.Background(), src)
	require.Error(t, err)

	var extractionErr *ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestExtractFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src, err := models.NewURLSource(server.URL, "")
	require.NoError(t, err)

	_, _, err = testExtractor().Extract(context.Background(), src)
	var extractionErr *ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestExtractInvalidURLScheme(t *testing.T) {
	src := models.Source{Kind: models.SourceURL, URL: "ftp://example.com/file"}

	_, _, err := testExtractor().Extract(context.Background(), src)
	var extractionErr *ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestExtractRawText(t *testing.T) {
	src, err := models.NewTextSource("A short first line\nAnd the body of the document follows.", "")
	require.NoError(t, err)

	text, title, err := testExtractor().Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "A short first line", title)
	assert.Contains(t, text, "body of the document")
}

func TestExtractRawTextLongFirstLineTitle(t *testing.T) {
	firstLine := strings.Repeat("word ", 20) // 100 chars

	src, err := models.NewTextSource(firstLine+"\nrest", "")
	require.NoError(t, err)

	_, title, err := testExtractor().Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, title, 53)
	assert.True(t, strings.HasSuffix(title, "..."))
}

func TestExtractRawTextTitleNeverSplitsRune(t *testing.T) {
	// 20 three-byte runes put the 50-byte cap mid-rune.
	firstLine := strings.Repeat("日", 20)

	src, err := models.NewTextSource(firstLine+"\nbody text", "")
	require.NoError(t, err)

	_, title, err := testExtractor().Extract(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(title))
	assert.True(t, strings.HasSuffix(title, "..."))
}

func TestPDFTitleLineCapNeverSplitsRune(t *testing.T) {
	title := pdfTitleFromText(strings.Repeat("日", 40))

	assert.True(t, utf8.ValidString(title))
	assert.LessOrEqual(t, len(title), 100)
}

func TestExtractTextFileUTF8(t *testing.T) {
	src, err := models.NewTXTSource([]byte("Notes about enzymes and their substrates."), "bio_chem-notes.txt", "")
	require.NoError(t, err)

	text, title, err := testExtractor().Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "Notes about enzymes and their substrates.", text)
	assert.Equal(t, "Bio Chem Notes", title)
}

func TestExtractTextFileLatin1(t *testing.T) {
	// 0xE9 is "é" in latin-1 but invalid as a standalone UTF-8 byte.
	data := []byte("caf\xe9 culture")

	src, err := models.NewTXTSource(data, "culture.txt", "")
	require.NoError(t, err)

	text, _, err := testExtractor().Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "café culture", text)
}

func TestExtractPDFGarbage(t *testing.T) {
	src, err := models.NewPDFSource([]byte("this is not a pdf"), "broken.pdf", "")
	require.NoError(t, err)

	_, _, err = testExtractor().Extract(context.Background(), src)
	var extractionErr *ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse newlines", "a\n\n\n\n\nb", "a\n\nb"},
		{"collapse spaces", "a     b", "a b"},
		{"tabs become spaces", "a\t\t\tb", "a b"},
		{"strip non-printable", "a\x00\x08b", "ab"},
		{"trim", "  padded  ", "padded"},
		{"keeps newlines", "line one\nline two", "line one\nline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeText(tt.in))
		})
	}
}

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/intro-to-biology.html", "Intro To Biology"},
		{"https://example.com/docs/cell_structure", "Cell Structure"},
		{"https://example.com/", "example.com"},
		{"https://example.com", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, titleFromURL(tt.url))
		})
	}
}

func TestURLContentCap(t *testing.T) {
	big := strings.Repeat("abcdefghij", 20000) // 200k chars

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(big))
	}))
	defer server.Close()

	e := NewWithConfig(ExtractorConfig{RateLimit: 100, MaxURLContent: 1000})

	src, err := models.NewURLSource(server.URL, "")
	require.NoError(t, err)

	text, _, err := e.Extract(context.Background(), src)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), 1000)
}
