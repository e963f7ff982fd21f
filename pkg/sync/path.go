package sync

import (
	"path/filepath"
	"strings"

	"github.com/sidkik/galaxysync/pkg/errors"
)

// FolderPath is the key of a folder within a library. It always starts with
// a `/`, never ends with one (except for the root), and uses `/` as the
// separator regardless of the local operating system.
// For example, the local directory `/mnt/cohort1/sub/dir` synced from the
// entrypoint `/mnt/cohort1` has the FolderPath `/sub/dir`.
type FolderPath string

// RootFolder is the FolderPath of the library's root folder.
const RootFolder FolderPath = "/"

// NewFolderPath converts a slash-separated path into a FolderPath by adding
// the leading separator if it's missing, and stripping trailing separators.
// It doesn't resolve `.` or `..` elements.
func NewFolderPath(path string) FolderPath {
	path = strings.TrimRight(path, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return FolderPath(path)
}

// IsRoot returns whether the path refers to the library's root folder.
func (p FolderPath) IsRoot() bool {
	return p == RootFolder
}

// Base returns the last element of the path.
func (p FolderPath) Base() string {
	return string(p[strings.LastIndex(string(p), "/")+1:])
}

// Ancestors returns the paths from the top-level child of the root down to
// `p` itself. Folders must be created in this order so that every folder's
// parent exists before it.
func (p FolderPath) Ancestors() (ancestors []FolderPath) {
	if p.IsRoot() {
		return nil
	}

	var prefix string
	for _, part := range strings.Split(strings.TrimPrefix(string(p), "/"), "/") {
		prefix += "/" + part
		ancestors = append(ancestors, FolderPath(prefix))
	}
	return ancestors
}

// SplitRemotePath splits the full path of a file within a library into the
// folder containing it and its name. `ok` is false if the name has no
// discernible parent folder.
func SplitRemotePath(name string) (folder FolderPath, file string, ok bool) {
	idx := strings.LastIndex(name, "/")
	if idx == -1 || idx == len(name)-1 {
		return "", "", false
	}
	return NewFolderPath(name[:idx]), name[idx+1:], true
}

// CanonicalizeRoot strips trailing separators from the entrypoint of a sync.
// Symlinks and relative elements are left as is.
func CanonicalizeRoot(path string) string {
	trimmed := strings.TrimRight(path, string(filepath.Separator))
	if trimmed == "" && path != "" {
		return string(filepath.Separator)
	}
	return trimmed
}

// DirKey returns the FolderPath that mirrors the local directory `dir`.
// `dir` must be `entrypoint` or a path within it.
func DirKey(entrypoint, dir string) (FolderPath, error) {
	rel, err := filepath.Rel(entrypoint, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) ||
		!strings.HasPrefix(dir, entrypoint) {
		return "", errors.PathOutsideEntrypointError{Entrypoint: entrypoint, Path: dir}
	}

	if rel == "." {
		return RootFolder, nil
	}
	return NewFolderPath(filepath.ToSlash(rel)), nil
}

// FolderKey returns the FolderPath of the folder that should contain the
// local file at `fullPath`.
func FolderKey(entrypoint, fullPath string) (FolderPath, error) {
	key, err := DirKey(entrypoint, filepath.Dir(fullPath))
	if err != nil {
		return "", errors.PathOutsideEntrypointError{Entrypoint: entrypoint, Path: fullPath}
	}
	return key, nil
}
