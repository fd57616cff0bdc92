package storage

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"booktures/pkg/domain"
)

var pdfMagic = []byte("%PDF")

// FileStore validates and persists raw PDF uploads under a base directory.
// Stored files are named {uuid}_{original-filename} so concurrent uploads
// of the same file never collide.
type FileStore struct {
	baseDir  string
	maxBytes int64
}

// NewFileStore creates the base directory if missing.
func NewFileStore(baseDir string, maxBytes int64) (*FileStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("storage base dir is required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("storage max bytes must be > 0")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, maxBytes: maxBytes}, nil
}

// Store validates the upload and writes it to disk, returning the stored
// path. Validation failures wrap domain.ErrValidation and leave no file
// behind; write failures wrap domain.ErrStorage. The write goes through a
// temp file and a rename, so readers never observe a partial file.
func (f *FileStore) Store(data []byte, filename string) (string, error) {
	if int64(len(data)) > f.maxBytes {
		return "", fmt.Errorf("%w: file size exceeds %dMB limit", domain.ErrValidation, f.maxBytes/(1024*1024))
	}
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return "", fmt.Errorf("%w: invalid file type, only .pdf allowed", domain.ErrValidation)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", fmt.Errorf("%w: file is not a valid PDF", domain.ErrValidation)
	}

	if err := os.MkdirAll(f.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create storage dir: %v", domain.ErrStorage, err)
	}
	target := filepath.Join(f.baseDir, uuid.NewString()+"_"+safeFilename(filename))

	tmp, err := os.CreateTemp(f.baseDir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %v", domain.ErrStorage, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: write file: %v", domain.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: close file: %v", domain.ErrStorage, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: chmod file: %v", domain.ErrStorage, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: finalize file: %v", domain.ErrStorage, err)
	}
	slog.Info("pdf stored", "path", target, "bytes", len(data))
	return target, nil
}

// Delete removes a stored file. It is idempotent and best-effort: a missing
// path returns false, and unexpected OS errors are logged rather than
// propagated so cleanup can never mask the error that triggered it.
func (f *FileStore) Delete(path string) bool {
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			slog.Error("pdf delete failed", "path", path, "err", err)
		}
		return false
	}
	slog.Info("pdf deleted", "path", path)
	return true
}

// Info reads page count and document-info metadata without mutating state.
// Any read or parse failure yields nil.
func (f *FileStore) Info(path string) (info *domain.FileInfo) {
	defer func() {
		// The pdf library panics on some malformed inputs.
		if r := recover(); r != nil {
			slog.Warn("pdf info failed", "path", path, "err", r)
			info = nil
		}
	}()
	file, reader, err := pdf.Open(path)
	if err != nil {
		slog.Warn("pdf info failed", "path", path, "err", err)
		return nil
	}
	defer file.Close()

	info = &domain.FileInfo{PageCount: reader.NumPage()}
	docInfo := reader.Trailer().Key("Info")
	if docInfo.IsNull() {
		return info
	}
	meta := make(map[string]string)
	for _, key := range []string{"Title", "Author", "Subject", "Creator", "Producer"} {
		if v := docInfo.Key(key); !v.IsNull() {
			if s := strings.TrimSpace(v.Text()); s != "" {
				meta[key] = s
			}
		}
	}
	if len(meta) > 0 {
		info.Metadata = meta
	}
	return info
}

func safeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		if r <= 0x7f {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
				b.WriteRune(r)
				lastUnderscore = false
				continue
			}
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	cleaned := strings.Trim(b.String(), "_")
	if cleaned == "" || cleaned == ".pdf" {
		return "upload.pdf"
	}
	return cleaned
}
