package macro

import (
	"iter"
	"path/filepath"
	"strings"

	"github.com/vk/yxflow/internal/fsutil"
)

// Search locations, as reported in outcomes.
const (
	LocationExact       = "exact"
	LocationDocumentDir = "document-dir"
	LocationMacrosDir   = "macros-dir"
	LocationParentDir   = "parent-dir"
	LocationSearchDir   = "search-dir"
	LocationHandler     = "handler"
)

type candidate struct {
	path     string
	location string
}

// candidates yields the places ref may live, in priority order, relative
// to the directory of the referencing document (docDir, possibly empty)
// and the given search directories. Only existing regular files are
// yielded and each file at most once.
func candidates(ref, docDir string, searchDirs []string) iter.Seq[candidate] {
	return func(yield func(candidate) bool) {
		seen := make(map[string]bool)
		emit := func(path, location string) bool {
			if path == "" || !fsutil.IsRegularFile(path) {
				return true
			}
			key := canonical(path)
			if seen[key] {
				return true
			}
			seen[key] = true
			return yield(candidate{path: path, location: location})
		}

		local := localPath(ref)
		base := baseName(ref)

		if !emit(ref, LocationExact) || !emit(local, LocationExact) {
			return
		}

		if docDir != "" {
			if !filepath.IsAbs(local) && !emit(filepath.Join(docDir, local), LocationDocumentDir) {
				return
			}
			if !emit(filepath.Join(docDir, base), LocationDocumentDir) {
				return
			}
			if !emit(filepath.Join(docDir, "macros", base), LocationMacrosDir) ||
				!emit(filepath.Join(docDir, "Macros", base), LocationMacrosDir) {
				return
			}
			parent := filepath.Dir(docDir)
			if !emit(filepath.Join(parent, base), LocationParentDir) ||
				!emit(filepath.Join(parent, "macros", base), LocationParentDir) {
				return
			}
		}

		for _, dir := range searchDirs {
			if !emit(filepath.Join(dir, base), LocationSearchDir) {
				return
			}
			matches, err := fsutil.FindInTree(dir, base)
			if err != nil {
				continue
			}
			for _, m := range matches {
				if !emit(m, LocationSearchDir) {
					return
				}
			}
		}
	}
}

// localPath rewrites the separators of a reference written on another
// platform.
func localPath(ref string) string {
	return filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
}

// baseName is the file name of a reference, honouring both separators.
func baseName(ref string) string {
	if i := strings.LastIndexAny(ref, `/\`); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// canonical resolves path to an absolute path without symlinks, falling
// back to the cleaned absolute form when the file cannot be inspected.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
