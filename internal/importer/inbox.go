package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo describes a file waiting in the inbox directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns the .csv files directly inside dir, sorted by name.
// A missing directory yields no files.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves fileName from the inbox into the processed directory.
func MarkProcessed(inboxDir, processedDir, fileName string) error {
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	src := filepath.Join(inboxDir, fileName)
	dst := filepath.Join(processedDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// ImportInbox imports every file in inboxDir in name order, each as its own
// batch. Files that did not abort are moved to processedDir.
func (p *Pipeline) ImportInbox(ctx context.Context, inboxDir, processedDir string, opts ImportOptions) ([]Result, error) {
	files, err := Scan(inboxDir)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	for _, f := range files {
		res := p.Import(ctx, f.Path, opts)
		if res.Status != StatusAborted {
			if err := MarkProcessed(inboxDir, processedDir, f.Name); err != nil {
				p.log.Warn("could not move imported file", "file", f.Path, "error", err)
			}
		}
		results = append(results, res)
	}
	return results, nil
}
