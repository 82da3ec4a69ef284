package canonical

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"rats/internal/analysis"
	"rats/internal/fileutil"
)

// Document maps image name -> execution mode -> tolerance record. Entries
// for other images and modes survive a merge untouched.
type Document map[string]map[string]analysis.Tolerance

// LoadDocument reads the tolerance document at path. A missing file yields
// an empty document.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("read tolerance document: %w", err)
	}
	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tolerance document %s: %w", path, err)
	}
	return doc, nil
}

// MergeTolerances read-modify-writes the document at path, replacing only
// the (image, execMode) entries present in updates. The whole document is
// rewritten atomically under a file lock.
func MergeTolerances(path, execMode string, updates map[string]analysis.Tolerance) error {
	if len(updates) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create tolerance document directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock tolerance document: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	doc, err := LoadDocument(path)
	if err != nil {
		return err
	}

	for image, tolerance := range updates {
		modes := doc[image]
		if modes == nil {
			modes = make(map[string]analysis.Tolerance, 1)
			doc[image] = modes
		}
		modes[execMode] = tolerance
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tolerance document: %w", err)
	}
	data = append(data, '\n')

	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write tolerance document: %w", err)
	}
	return nil
}
