package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(body string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	doc, _ := w.Create("word/document.xml")
	doc.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))

	w.Close()
	return buf.Bytes()
}

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func cell(texts ...string) string {
	s := `<w:tc>`
	for _, t := range texts {
		s += para(t)
	}
	return s + `</w:tc>`
}

func extract(t *testing.T, body string) string {
	t.Helper()
	data := createTestDOCX(body)
	text, err := New().Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return text
}

func TestNew(t *testing.T) {
	e := New()
	require.NotNil(t, e)
	assert.Equal(t, domain.DocumentTypeText, e.Type())
}

func TestExtract_Paragraphs(t *testing.T) {
	text := extract(t, para("Hello World")+para("Second paragraph"))
	assert.Equal(t, "Hello World\nSecond paragraph", text)
}

func TestExtract_SkipsBlankParagraphs(t *testing.T) {
	text := extract(t, para("one")+`<w:p/>`+para("   ")+para("two"))
	assert.Equal(t, "one\ntwo", text)
}

func TestExtract_MultipleRuns(t *testing.T) {
	body := `<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve"> </w:t></w:r><w:r><w:t>World</w:t></w:r></w:p>`
	assert.Equal(t, "Hello World", extract(t, body))
}

func TestExtract_RunContent(t *testing.T) {
	body := `<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t>` +
		`<w:br w:type="page"/><w:t>d</w:t><w:cr/><w:t>e</w:t><w:noBreakHyphen/><w:t>f</w:t></w:r></w:p>`
	assert.Equal(t, "a\tb\ncd\ne-f", extract(t, body))
}

func TestExtract_Hyperlinks(t *testing.T) {
	body := `<w:p><w:r><w:t xml:space="preserve">see </w:t></w:r>` +
		`<w:hyperlink><w:r><w:t>docs</w:t></w:r></w:hyperlink></w:p>`
	assert.Equal(t, "see docs", extract(t, body))
}

func TestExtract_TablesAfterParagraphs(t *testing.T) {
	body := `<w:tbl><w:tr>` + cell("A1") + cell("B1") + `</w:tr><w:tr>` + cell("A2") + cell() + `</w:tr></w:tbl>` +
		para("after table")

	assert.Equal(t, "after table\nA1\nB1\nA2\n", extract(t, body))
}

func TestExtract_CellParagraphs(t *testing.T) {
	body := `<w:tbl><w:tr>` + cell("line one", "line two") + `</w:tr></w:tbl>`
	assert.Equal(t, "line one\nline two", extract(t, body))
}

func TestExtract_GridSpan(t *testing.T) {
	body := `<w:tbl><w:tr><w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr>` + para("wide") + `</w:tc>` +
		cell("narrow") + `</w:tr></w:tbl>`
	assert.Equal(t, "wide\nwide\nnarrow", extract(t, body))
}

func TestExtract_VerticalMerge(t *testing.T) {
	body := `<w:tbl>` +
		`<w:tr><w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr>` + para("tall") + `</w:tc>` + cell("x") + `</w:tr>` +
		`<w:tr><w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc>` + cell("y") + `</w:tr>` +
		`</w:tbl>`
	assert.Equal(t, "tall\nx\ntall\ny", extract(t, body))
}

func TestExtract_NestedTablesIgnored(t *testing.T) {
	inner := `<w:tbl><w:tr>` + cell("inner") + `</w:tr></w:tbl>`
	body := `<w:tbl><w:tr><w:tc>` + para("outer") + inner + `</w:tc></w:tr></w:tbl>`
	assert.Equal(t, "outer", extract(t, body))
}

func TestExtract_EmptyBody(t *testing.T) {
	assert.Empty(t, extract(t, ""))
}

func TestExtract_InvalidZip(t *testing.T) {
	data := []byte("not a valid zip file")
	_, err := New().Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_MissingDocumentXML(t *testing.T) {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, _ := w.Create("[Content_Types].xml")
	f.Write([]byte(`<Types/>`))
	w.Close()

	_, err := New().Extract(context.Background(), bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_MalformedXML(t *testing.T) {
	data := createTestDOCX(`<w:p><w:r>`)
	_, err := New().Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
