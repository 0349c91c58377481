package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewURLSource(t *testing.T) {
	src, err := NewURLSource("https://example.com/notes", "My Notes")
	require.NoError(t, err)
	assert.Equal(t, SourceURL, src.Kind)
	assert.Equal(t, "https://example.com/notes", src.URL)
	assert.Equal(t, "My Notes", src.Title)

	_, err = NewURLSource("   ", "")
	assert.Error(t, err)
}

func TestNewTextSource(t *testing.T) {
	src, err := NewTextSource("some content", "")
	require.NoError(t, err)
	assert.Equal(t, SourceText, src.Kind)
	assert.Equal(t, "some content", src.Text)

	_, err = NewTextSource("\n\t ", "")
	assert.Error(t, err)
}

func TestNewPDFSource(t *testing.T) {
	src, err := NewPDFSource([]byte("%PDF-1.4"), "paper.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, SourcePDF, src.Kind)
	assert.Equal(t, "paper.pdf", src.Filename)

	_, err = NewPDFSource(nil, "paper.pdf", "")
	assert.Error(t, err)
}

func TestNewTXTSource(t *testing.T) {
	src, err := NewTXTSource([]byte("notes"), "notes.txt", "")
	require.NoError(t, err)
	assert.Equal(t, SourceTXT, src.Kind)
	assert.Equal(t, "notes.txt", src.Filename)

	src, err = NewTXTSource([]byte("notes"), "", "")
	require.NoError(t, err)
	assert.Equal(t, "document.txt", src.Filename, "missing filename gets a default")

	_, err = NewTXTSource(nil, "notes.txt", "")
	assert.Error(t, err)
}
