// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExistingPDFs returns the PDF files already present in dir. A missing
// directory has none.
func ExistingPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading output directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// PrepareOutputDir creates dir and, when clean is set, removes the PDFs
// left by previous runs. Other files are never touched. It returns the
// number of files removed.
func PrepareOutputDir(dir string, clean bool) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	if !clean {
		return 0, nil
	}

	files, err := ExistingPDFs(dir)
	if err != nil {
		return 0, err
	}
	for i, f := range files {
		if err := os.Remove(f); err != nil {
			return i, fmt.Errorf("removing %s: %w", f, err)
		}
	}
	return len(files), nil
}
