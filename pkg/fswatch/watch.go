package fswatch

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/galaxysync/pkg/errors"
)

var fs = afero.NewOsFs()

// Watch watches for changes to the directory tree rooted at `root`. It sends
// an event on the returned channel whenever a file or directory within the
// tree is created, written, renamed or removed. Bursts of changes are
// combined into a single event.
func Watch(root string) (chan struct{}, error) {
	pathsToWatch, err := getPathsToWatch(root)
	if err != nil {
		return nil, errors.WithContext(err, "get paths")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WithContext(err, "create watcher")
	}

	for _, path := range pathsToWatch {
		if err := watcher.Add(path); err != nil {
			// Close the watcher so that we release the file handlers for the
			// previously added paths.
			if err := watcher.Close(); err != nil {
				log.WithError(err).Warn("Failed to close file watcher")
			}

			return nil, errors.WithContext(err, fmt.Sprintf("watch %q", path))
		}
	}

	go func() {
		for err := range watcher.Errors {
			log.WithError(err).Warn("File watcher error")
		}
	}()

	addDir := func(dir string) {
		paths, err := getPathsToWatch(dir)
		if err != nil {
			log.WithError(err).WithField("dir", dir).Debug("Failed to list new directory")
			return
		}

		for _, path := range paths {
			if err := watcher.Add(path); err != nil {
				log.WithError(err).WithField("dir", path).Warn("Failed to watch new directory")
			}
		}
	}
	return combineUpdates(watcher.Events, addDir), nil
}

// combineUpdates coalesces `updates` into a channel that holds at most one
// pending event. Directories that are created are passed to `addDir` since
// fsnotify doesn't watch recursively.
func combineUpdates(updates <-chan fsnotify.Event, addDir func(string)) chan struct{} {
	combined := make(chan struct{}, 1)
	go func() {
		for event := range updates {
			// Permission changes don't affect what gets synced.
			if event.Op == fsnotify.Chmod {
				continue
			}

			if event.Op.Has(fsnotify.Create) {
				if fi, err := fs.Stat(event.Name); err == nil && fi.IsDir() {
					addDir(event.Name)
				}
			}

			select {
			case combined <- struct{}{}:
			default:
			}
		}
	}()
	return combined
}

// getPathsToWatch returns `root` and all the directories within it. Files
// don't need to be watched individually because fsnotify reports changes to
// the files within a watched directory.
func getPathsToWatch(root string) (paths []string, err error) {
	fi, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound{Path: root}
		}
		return nil, errors.WithContext(err, "stat")
	}

	if !fi.IsDir() {
		return nil, errors.NotADirectoryError{Path: root}
	}

	err = afero.Walk(fs, root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return errors.WithContext(err, "walk error")
		}

		if fi.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
