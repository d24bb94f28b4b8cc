package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/avetrov/crosswalk/internal/model"
)

// AccreditorError records why one definition file failed to load. Other
// accreditors in the same directory still load.
type AccreditorError struct {
	File       string // Path of the definition file
	Accreditor string // Code if it could be read, otherwise empty
	Err        error
}

func (e *AccreditorError) Error() string {
	if e.Accreditor != "" {
		return fmt.Sprintf("%s (%s): %v", e.File, e.Accreditor, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *AccreditorError) Unwrap() error { return e.Err }

// LoadResult is the outcome of loading a corpus directory
type LoadResult struct {
	Accreditors []model.Accreditor // Successfully loaded, in file-name order
	Errors      []AccreditorError  // One per failed file
}

// Loader reads per-accreditor standards definitions from disk
type Loader struct{}

// NewLoader creates a corpus loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDir loads every definition file (*.yaml, *.yml, *.json) in dir.
// Loading is all-or-nothing per accreditor: a malformed entry rejects that
// file with a descriptive error and the remaining files still load. The
// returned error is non-nil only when the directory itself is unreadable.
func (l *Loader) LoadDir(dir string) (*LoadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	result := &LoadResult{}
	seen := make(map[string]string) // accreditor code -> file that defined it

	for _, file := range files {
		acc, err := l.LoadFile(file)
		if err != nil {
			code := ""
			if acc != nil {
				code = acc.Code
			}
			result.Errors = append(result.Errors, AccreditorError{File: file, Accreditor: code, Err: err})
			continue
		}

		if prev, dup := seen[acc.Code]; dup {
			result.Errors = append(result.Errors, AccreditorError{
				File:       file,
				Accreditor: acc.Code,
				Err:        fmt.Errorf("accreditor %q already defined in %s", acc.Code, prev),
			})
			continue
		}
		seen[acc.Code] = file

		result.Accreditors = append(result.Accreditors, *acc)
	}

	return result, nil
}

// LoadFile loads and normalizes a single accreditor definition. Any invalid
// entry rejects the whole file.
func (l *Loader) LoadFile(path string) (*model.Accreditor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}

	var acc model.Accreditor
	if err := yaml.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	if err := l.normalize(&acc); err != nil {
		// Keep the code so the caller can report which accreditor failed.
		return &acc, err
	}
	return &acc, nil
}

// normalize validates the accreditor header and rewrites every standard into
// canonical form (prefixed ids, inherited version and effective date).
func (l *Loader) normalize(acc *model.Accreditor) error {
	acc.Code = strings.TrimSpace(acc.Code)
	if acc.Code == "" {
		return fmt.Errorf("missing accreditor code")
	}
	if strings.TrimSpace(acc.Name) == "" {
		return fmt.Errorf("accreditor %q missing name", acc.Code)
	}
	if len(acc.Standards) == 0 {
		return fmt.Errorf("accreditor %q has no standards", acc.Code)
	}

	seen := make(map[string]bool, len(acc.Standards))
	for i := range acc.Standards {
		std := &acc.Standards[i]
		if err := normalizeStandard(acc.Code, std, acc.Version, acc.EffectiveDate); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if seen[std.ID] {
			return fmt.Errorf("entry %d: duplicate standard id %q", i, std.ID)
		}
		seen[std.ID] = true
	}
	return nil
}
