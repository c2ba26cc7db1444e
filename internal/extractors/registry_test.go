package extractors

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdupe/internal/core/domain"
	"github.com/custodia-labs/docdupe/internal/extractors/ooxml/ooxmltest"
)

// stubExtractor returns fixed text for one type.
type stubExtractor struct {
	docType domain.DocumentType
	text    string
	err     error
	size    int64
}

func (s *stubExtractor) Type() domain.DocumentType { return s.docType }

func (s *stubExtractor) Extract(_ context.Context, _ io.ReaderAt, size int64) (string, error) {
	s.size = size
	return s.text, s.err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.Empty(t, r.SupportedTypes())
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{docType: domain.DocumentTypeSpreadsheet})
	r.Register(&stubExtractor{docType: domain.DocumentTypeText})

	assert.Equal(t, []domain.DocumentType{domain.DocumentTypeText, domain.DocumentTypeSpreadsheet}, r.SupportedTypes())

	_, ok := r.Get(domain.DocumentTypeSlides)
	assert.False(t, ok)
}

func TestRegistry_Register_Replaces(t *testing.T) {
	first := &stubExtractor{docType: domain.DocumentTypeText, text: "first"}
	second := &stubExtractor{docType: domain.DocumentTypeText, text: "second"}
	r := NewRegistry(first, second)

	e, ok := r.Get(domain.DocumentTypeText)
	require.True(t, ok)
	assert.Same(t, second, e)
}

func TestRegistry_Extract(t *testing.T) {
	stub := &stubExtractor{docType: domain.DocumentTypeText, text: "content"}
	r := NewRegistry(stub)
	path := writeFile(t, "a.docx", []byte("12345"))

	text, err := r.Extract(context.Background(), domain.Document{Path: path, Type: domain.DocumentTypeText})
	require.NoError(t, err)
	assert.Equal(t, "content", text)
	assert.Equal(t, int64(5), stub.size)
}

func TestRegistry_Extract_Unsupported(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract(context.Background(), domain.Document{Path: "/x.docx", Type: domain.DocumentTypeText})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_Extract_MissingFile(t *testing.T) {
	r := NewRegistry(&stubExtractor{docType: domain.DocumentTypeText})

	_, err := r.Extract(context.Background(), domain.Document{
		Path: filepath.Join(t.TempDir(), "missing.docx"),
		Type: domain.DocumentTypeText,
	})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegistry_Extract_WrapsFailure(t *testing.T) {
	r := NewRegistry(&stubExtractor{docType: domain.DocumentTypeText, err: domain.ErrInvalidInput})
	path := writeFile(t, "a.docx", []byte("x"))

	_, err := r.Extract(context.Background(), domain.Document{Path: path, Type: domain.DocumentTypeText})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_Extract_ContextPassesThrough(t *testing.T) {
	r := NewRegistry(&stubExtractor{docType: domain.DocumentTypeText, err: context.Canceled})
	path := writeFile(t, "a.docx", []byte("x"))

	_, err := r.Extract(context.Background(), domain.Document{Path: path, Type: domain.DocumentTypeText})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, domain.ErrExtractionFailed))
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, domain.DocumentTypes(), r.SupportedTypes())
}

func TestDefaultRegistry_ExtractsFiles(t *testing.T) {
	r := NewDefaultRegistry()

	docx := ooxmltest.Build(map[string]string{
		"word/document.xml": `<w:document xmlns:w="urn:w"><w:body><w:p><w:r><w:t>hello world</w:t></w:r></w:p></w:body></w:document>`,
	})
	path := writeFile(t, "hello.docx", docx)

	text, err := r.Extract(context.Background(), domain.Document{Path: path, Type: domain.DocumentTypeText})
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestDefaultRegistry_CorruptFile(t *testing.T) {
	r := NewDefaultRegistry()
	path := writeFile(t, "broken.xlsx", []byte("not a zip"))

	_, err := r.Extract(context.Background(), domain.Document{Path: path, Type: domain.DocumentTypeSpreadsheet})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
