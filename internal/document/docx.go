package document

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"strings"

	"baliance.com/gooxml/document"
	"baliance.com/gooxml/schema/soo/wml"
)

const mainPart = "word/document.xml"

var (
	errNoDocumentPart = errors.New(mainPart + " not found")
	errNoBody         = errors.New("document body not found")
)

// extractDOCX returns the text of the body's top-level paragraphs, one per line.
// Paragraphs inside tables, headers and text boxes are not included; empty
// paragraphs yield empty lines.
func extractDOCX(ra io.ReaderAt, size int64) (string, error) {
	// document.Read does not report a package without a main part
	if err := requirePart(ra, size, mainPart); err != nil {
		return "", err
	}

	doc, err := document.Read(ra, size)
	if err != nil {
		return "", err
	}
	if doc.TmpPath != "" {
		defer os.RemoveAll(doc.TmpPath)
	}

	body := doc.X().Body
	if body == nil {
		return "", errNoBody
	}

	var paras []string
	for _, block := range body.EG_BlockLevelElts {
		for _, content := range block.EG_ContentBlockContent {
			for _, p := range content.P {
				paras = append(paras, paragraphText(p))
			}
		}
	}
	return strings.Join(paras, "\n"), nil
}

func requirePart(ra io.ReaderAt, size int64, name string) error {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return err
	}
	for _, f := range zr.File {
		if f.Name == name {
			return nil
		}
	}
	return errNoDocumentPart
}

func paragraphText(p *wml.CT_P) string {
	var b strings.Builder
	writePContent(&b, p.EG_PContent)
	return b.String()
}

// writePContent appends the runs of a paragraph, including runs wrapped in hyperlinks.
func writePContent(b *strings.Builder, contents []*wml.EG_PContent) {
	for _, pc := range contents {
		for _, rc := range pc.EG_ContentRunContent {
			if rc.R != nil {
				writeRun(b, rc.R)
			}
		}
		if pc.Hyperlink != nil {
			writePContent(b, pc.Hyperlink.EG_PContent)
		}
	}
}

func writeRun(b *strings.Builder, r *wml.CT_R) {
	for _, ic := range r.EG_RunInnerContent {
		switch {
		case ic.T != nil:
			b.WriteString(ic.T.Content)
		case ic.Tab != nil:
			b.WriteByte('\t')
		case ic.Br != nil, ic.Cr != nil:
			b.WriteByte('\n')
		}
	}
}
