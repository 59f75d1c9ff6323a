package extractor

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/itamaramsalem1/hppdauto-web/internal/model"
)

// Spreadsheet extensions accepted per input family.
const (
	TemplateExt = ".xlsx"
	ReportExt   = ".xls"
)

// hiddenPrefix marks macOS resource-fork companions ("._name"), which look
// like spreadsheets but are not.
const hiddenPrefix = "._"

// ValidFileName reports whether a file name passes the extension gate.
// Hidden-marker files are always rejected regardless of extension.
func ValidFileName(name, ext string) bool {
	if strings.HasPrefix(name, hiddenPrefix) {
		return false
	}
	return strings.HasSuffix(strings.ToLower(name), ext)
}

// CollectFiles walks root recursively and splits its files into candidate
// paths and skip records. Every file lands in exactly one of the two. The
// walk error is fatal; a missing input directory fails the run.
func CollectFiles(root, ext string) ([]string, []model.SkipRecord, error) {
	var files []string
	var skips []model.SkipRecord

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !ValidFileName(name, ext) {
			reason := fmt.Sprintf("Not %s, skipped", ext)
			if strings.HasPrefix(name, hiddenPrefix) {
				reason = "Mac OS hidden file, skipped"
			}
			skips = append(skips, model.SkipRecord{File: name, Reason: reason})
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, skips, nil
}
