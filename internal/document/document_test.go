package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	parts := []struct{ name, data string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
			`</Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", p.name, err)
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			t.Fatalf("zip write %s: %v", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// buildPDF writes a minimal PDF with one page per entry; empty entries become pages without text.
func buildPDF(pages []string) []byte {
	var buf bytes.Buffer
	n := len(pages)
	fontObj := 3 + n
	firstContent := fontObj + 1
	total := firstContent + n
	offsets := make([]int, total)

	obj := func(id int, body string) {
		offsets[id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	obj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i := range pages {
		obj(3+i, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontObj, firstContent+i))
	}
	obj(fontObj, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
		obj(firstContent+i, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", total)
	for id := 1; id < total; id++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total, xref)
	return buf.Bytes()
}

func TestFormatFromFilename(t *testing.T) {
	if f, err := FormatFromFilename("report.pdf"); err != nil || f != FormatPDF {
		t.Fatalf("pdf: got %q, %v", f, err)
	}
	if f, err := FormatFromFilename("labs.2024.docx"); err != nil || f != FormatDOCX {
		t.Fatalf("docx: got %q, %v", f, err)
	}

	for _, name := range []string{"notes.txt", "scan.PDF", "report.doc", ""} {
		_, err := FormatFromFilename(name)
		var ue *UnsupportedFormatError
		if !errors.As(err, &ue) {
			t.Fatalf("%q: expected UnsupportedFormatError, got %v", name, err)
		}
	}
}

func TestExtractDOCX_ParagraphsInOrder(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t xml:space="preserve">Blood pressure: </w:t></w:r><w:r><w:t>high</w:t></w:r></w:p>`+
			`<w:p/>`+
			`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>table cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`+
			`<w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t></w:r><w:hyperlink><w:r><w:t xml:space="preserve"> link</w:t></w:r></w:hyperlink></w:p>`+
			`<w:p><w:r><w:t>line one</w:t><w:br/><w:t>line two</w:t></w:r></w:p>`+
			`<w:sectPr/>`)

	text, err := Extract(FormatDOCX, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := "Blood pressure: high\n\nA\tB link\nline one\nline two"
	if text != want {
		t.Fatalf("unexpected text:\n got %q\nwant %q", text, want)
	}
}

func TestExtractDOCX_EmptyBody(t *testing.T) {
	text, err := Extract(FormatDOCX, bytes.NewReader(buildDOCX(t, "")))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestExtractDOCX_NotAZip(t *testing.T) {
	_, err := Extract(FormatDOCX, strings.NewReader("plain text, not a docx"))
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if ee.Format != FormatDOCX || ee.Unwrap() == nil {
		t.Fatalf("unexpected extraction error: %+v", ee)
	}
	if !strings.HasPrefix(ee.Error(), "failed to extract text from DOCX") {
		t.Fatalf("unexpected message %q", ee.Error())
	}
}

func TestExtractDOCX_MissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("other.xml")
	_ = zw.Close()

	_, err := Extract(FormatDOCX, bytes.NewReader(buf.Bytes()))
	if !errors.Is(err, errNoDocumentPart) {
		t.Fatalf("expected errNoDocumentPart, got %v", err)
	}
}

func TestExtractPDF_SkipsPagesWithoutText(t *testing.T) {
	data := buildPDF([]string{"Glucose 180 mg/dL", "", "HbA1c 8.1"})

	text, err := Extract(FormatPDF, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	first := strings.Index(text, "Glucose 180 mg/dL")
	second := strings.Index(text, "HbA1c 8.1")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("expected both pages in order, got %q", text)
	}
}

func TestExtractPDF_KeepsWhitespaceOnlyPages(t *testing.T) {
	data := buildPDF([]string{"Glucose 180", " ", "HbA1c 8.1"})

	text, err := Extract(FormatPDF, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Glucose 180\n \nHbA1c 8.1") {
		t.Fatalf("expected the blank page between the others, got %q", text)
	}
}

func TestExtractPDF_Garbage(t *testing.T) {
	_, err := Extract(FormatPDF, strings.NewReader("%PDF-garbage"))
	var ee *ExtractionError
	if !errors.As(err, &ee) || ee.Format != FormatPDF {
		t.Fatalf("expected PDF ExtractionError, got %v", err)
	}
}
