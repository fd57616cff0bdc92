package extract

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"booktures/pkg/domain"
)

// Extractor pulls per-page text out of stored PDFs.
//
// Page extraction is sequential and isolated: a single malformed page is
// reported on its own PageResult and never aborts the rest of the document.
// Only container-level failures and the page ceiling fail the whole run.
type Extractor struct {
	maxPages int
}

// New returns an extractor bounded by maxPages per document.
func New(maxPages int) *Extractor {
	return &Extractor{maxPages: maxPages}
}

// Extract returns one PageResult per physical page, numbered 1..N in
// document order with no gaps. It fails with domain.ErrNotFound when path
// does not exist, domain.ErrExtraction when the container cannot be
// opened, and domain.ErrValidation when the page count exceeds the ceiling.
func (e *Extractor) Extract(path string) ([]domain.PageResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: pdf %s", domain.ErrNotFound, path)
	}

	file, reader, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	total := reader.NumPage()
	if total > e.maxPages {
		return nil, fmt.Errorf("%w: pdf exceeds maximum %d pages", domain.ErrValidation, e.maxPages)
	}
	slog.Info("extracting pdf", "path", path, "pages", total)

	results := make([]domain.PageResult, 0, total)
	for i := 1; i <= total; i++ {
		result := extractPage(reader, i)
		if result.Error != "" {
			slog.Warn("page extraction failed", "path", path, "page", i, "err", result.Error)
		}
		results = append(results, result)
	}
	return results, nil
}

// openReader wraps pdf.Open, converting the library's panics on malformed
// containers into errors.
func openReader(path string) (file *os.File, reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			if file != nil {
				file.Close()
				file = nil
			}
			reader = nil
			err = fmt.Errorf("%w: open pdf: %v", domain.ErrExtraction, r)
		}
	}()
	file, reader, err = pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open pdf: %v", domain.ErrExtraction, err)
	}
	return file, reader, nil
}

// extractPage never fails: errors and panics from the library are captured
// on the result with empty text.
func extractPage(reader *pdf.Reader, num int) (result domain.PageResult) {
	result = domain.PageResult{PageNumber: num}
	defer func() {
		if r := recover(); r != nil {
			result = domain.PageResult{
				PageNumber: num,
				Error:      fmt.Sprintf("extract page %d: %v", num, r),
			}
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return result
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		result.Error = fmt.Sprintf("extract page %d: %v", num, err)
		return result
	}
	result.Text = strings.TrimSpace(text)
	result.HasTables = hasTables(page)
	return result
}

// hasTables inspects content-stream geometry for a tabular layout. It is a
// best-effort hint; failures count as no tables.
func hasTables(page pdf.Page) (found bool) {
	defer func() {
		if recover() != nil {
			found = false
		}
	}()
	content := page.Content()
	if len(content.Rect) >= minRuledRects {
		return true
	}
	return hasAlignedColumns(content.Text)
}
