package analysis

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// FileScanner enumerates files under a root directory whose names end with
// one of a set of extensions.
type FileScanner struct {
	root       string
	extensions []string
}

// NewFileScanner creates a scanner for folder. extensions is a comma-separated
// list of suffixes such as ".py,.pyi", matched case-insensitively.
// folder must be an existing directory.
func NewFileScanner(folder, extensions string) (*FileScanner, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDirectory, folder, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidDirectory, folder)
	}

	exts := ParseExtensions(extensions)
	if len(exts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoExtensions, extensions)
	}

	return &FileScanner{
		root:       folder,
		extensions: exts,
	}, nil
}

// ParseExtensions splits a comma-separated extension list into lowercase
// suffixes, dropping blank entries.
func ParseExtensions(extensions string) []string {
	var exts []string
	for _, ext := range strings.Split(extensions, ",") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		exts = append(exts, strings.ToLower(ext))
	}
	return exts
}

// Root returns the directory being scanned.
func (s *FileScanner) Root() string {
	return s.root
}

// Extensions returns the configured suffixes, lowercased.
func (s *FileScanner) Extensions() []string {
	out := make([]string, len(s.extensions))
	copy(out, s.extensions)
	return out
}

// Matches reports whether a file name ends with one of the configured extensions.
func (s *FileScanner) Matches(name string) bool {
	return MatchesExtension(name, s.extensions)
}

// MatchesExtension reports whether the base name of path ends with one of exts.
// exts must already be lowercase.
func MatchesExtension(path string, exts []string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Scan walks the tree and returns every matching file path. Paths are joined
// onto the root as given, so they are relative when the root is relative.
func (s *FileScanner) Scan() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			// Unreadable subdirectory: skip it and keep walking
			log.Printf("Warning: error accessing %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if s.Matches(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	return files, nil
}
