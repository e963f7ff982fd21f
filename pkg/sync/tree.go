package sync

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/galaxysync/pkg/errors"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// Directory is a local directory and the files directly within it.
type Directory struct {
	Path string

	// Files are the absolute paths of the regular files in the directory,
	// in the order they were listed. Symlinks to regular files are included.
	Files []string
}

// CheckTree returns a NotADirectoryError if `root` doesn't exist or isn't a
// directory.
func CheckTree(root string) error {
	fi, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotADirectoryError{Path: root}
		}
		return errors.WithContext(err, "stat")
	}

	if !fi.IsDir() {
		return errors.NotADirectoryError{Path: root}
	}
	return nil
}

// WalkTree calls `fn` for `root` and every directory beneath it. A directory
// is always visited before its subdirectories. Entries within a directory
// are visited in lexical order. Symlinked directories aren't followed, and
// subdirectories that can't be read are skipped.
func WalkTree(root string, fn func(Directory) error) error {
	if err := CheckTree(root); err != nil {
		return err
	}

	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return errors.WithContext(err, "read dir")
	}
	return walkDir(root, entries, fn)
}

func walkDir(dir string, entries []os.FileInfo, fn func(Directory) error) error {
	var subdirs []string
	visit := Directory{Path: dir}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			subdirs = append(subdirs, path)
		case entry.Mode().IsRegular():
			visit.Files = append(visit.Files, path)
		case entry.Mode()&os.ModeSymlink != 0:
			target, err := fs.Stat(path)
			if err != nil {
				log.WithError(err).WithField("path", path).Warn(
					"Failed to resolve symlink. Ignoring it.")
				continue
			}

			if target.Mode().IsRegular() {
				visit.Files = append(visit.Files, path)
			}
		}
	}

	if err := fn(visit); err != nil {
		return err
	}

	for _, subdir := range subdirs {
		entries, err := afero.ReadDir(fs, subdir)
		if err != nil {
			log.WithError(err).WithField("dir", subdir).Warn(
				"Failed to read directory. Skipping it.")
			continue
		}

		if err := walkDir(subdir, entries, fn); err != nil {
			return err
		}
	}
	return nil
}
