// Package pdftest builds small but structurally valid PDF documents for
// tests, so fixtures never have to live in the repository as binaries.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Page describes one fixture page. A Corrupt page is wired so its content
// stream cannot be read, while the document container stays parseable.
type Page struct {
	Text    string
	Corrupt bool
}

// TextPages builds a document with one well-formed page per string.
func TextPages(texts ...string) []byte {
	pages := make([]Page, 0, len(texts))
	for _, t := range texts {
		pages = append(pages, Page{Text: t})
	}
	return Build(pages...)
}

// Build assembles a PDF 1.4 document with a page tree, one Helvetica font,
// one content stream per page, a document-info dictionary, and a correct
// cross-reference table.
//
// Object layout: 1 catalog, 2 page tree, 3 font, then (page, contents)
// pairs, then the info dictionary.
func Build(pages ...Page) []byte {
	var buf bytes.Buffer
	var offsets []int

	buf.WriteString("%PDF-1.4\n")

	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), len(pages)))
	addObj("3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	for i, page := range pages {
		pageNum := 4 + 2*i
		contentsNum := pageNum + 1
		contentsRef := contentsNum
		if page.Corrupt {
			// Point the page at the catalog: a dictionary, not a
			// stream, which fails page-level text extraction.
			contentsRef = 1
		}
		addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>\nendobj\n",
			pageNum, contentsRef))

		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escapeText(page.Text))
		addObj(fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			contentsNum, len(stream), stream))
	}

	infoNum := 4 + 2*len(pages)
	addObj(fmt.Sprintf("%d 0 obj\n<< /Title (Fixture Document) /Author (pdftest) >>\nendobj\n", infoNum))

	xrefOffset := buf.Len()
	size := len(offsets) + 1
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", size))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		size, infoNum, xrefOffset))

	return buf.Bytes()
}

func escapeText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return r.Replace(s)
}
