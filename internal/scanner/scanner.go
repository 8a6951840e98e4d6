// Package scanner discovers candidate ebook files and turns their paths
// into seed records carrying the filesystem-derived identity fields.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/shelfmark/shelfmark/internal/book"
)

// Extensions lists the file types the scanner picks up.
var Extensions = []string{"fb2", "epub"}

func supported(ext string) bool {
	for _, e := range Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// ScanFile builds a seed record for a single file. Directory segments
// between root and the file become context for enrichment; the path must
// live under root.
func ScanFile(path, root string) (book.Record, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return book.Record{}, fmt.Errorf("scanner: %w", err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return book.Record{}, fmt.Errorf("scanner: %w", err)
	}
	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return book.Record{}, fmt.Errorf("scanner: %s is outside %s", path, root)
	}

	rec := book.Record{
		Path:             abs,
		OriginalFilename: filepath.Base(abs),
		Extension:        strings.TrimPrefix(filepath.Ext(abs), "."),
		Source:           "file",
	}

	if dir := filepath.Dir(rel); dir != "." {
		for _, seg := range strings.Split(dir, string(filepath.Separator)) {
			if seg != "" && seg != "." {
				rec.Directories = append(rec.Directories, seg)
			}
		}
	}
	return rec, nil
}

// ScanDirectory walks root and returns a seed record for every supported
// file found, in walk order.
func ScanDirectory(root string) ([]book.Record, error) {
	var records []book.Record
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !supported(strings.TrimPrefix(filepath.Ext(path), ".")) {
			return nil
		}
		rec, err := ScanFile(path, root)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanner: %w", err)
	}
	return records, nil
}
