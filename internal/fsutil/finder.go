// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with any of the specified extensions. Matching ignores case. The result is
// in lexical walk order.
func FindFilesByExtension(rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}
	lowered := make([]string, len(extensions))
	for i, ext := range extensions {
		if ext == "" {
			panic("extension must not be empty")
		}
		lowered[i] = strings.ToLower(ext)
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		for _, ext := range lowered {
			if strings.HasSuffix(name, ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// FindInTree returns every regular file called name that lives in rootPath
// or any directory below it. Directories are visited in lexical order, so
// shallower and alphabetically earlier matches come first within a level.
// A missing root yields no matches and no error.
func FindInTree(rootPath, name string) ([]string, error) {
	if name == "" {
		return nil, nil
	}
	if _, err := os.Stat(rootPath); os.IsNotExist(err) {
		return nil, nil
	}

	var matches []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if IsRegularFile(filepath.Join(path, name)) {
			matches = append(matches, filepath.Join(path, name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// IsRegularFile reports whether path names an existing regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
