package fswatch

import (
	"sort"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/sidkik/galaxysync/pkg/errors"
)

func TestGetPathsToWatch(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		dirs     []string
		files    []string
		expPaths []string
		expError error
	}{
		{
			name: "Nested directories",
			root: "/mnt/cohort1",
			dirs: []string{"/mnt/cohort1/sub", "/mnt/cohort1/sub/deep", "/mnt/cohort1/empty"},
			files: []string{"/mnt/cohort1/a.txt", "/mnt/cohort1/sub/b.txt",
				"/mnt/cohort1/sub/deep/c.txt", "/mnt/other/d.txt"},
			expPaths: []string{"/mnt/cohort1", "/mnt/cohort1/empty",
				"/mnt/cohort1/sub", "/mnt/cohort1/sub/deep"},
		},
		{
			name:     "Root is a file",
			root:     "/mnt/file",
			files:    []string{"/mnt/file"},
			expError: errors.NotADirectoryError{Path: "/mnt/file"},
		},
		{
			name:     "Root doesn't exist",
			root:     "/mnt/missing",
			expError: errors.FileNotFound{Path: "/mnt/missing"},
		},
	}

	for _, test := range tests {
		fs = afero.NewMemMapFs()
		for _, dir := range test.dirs {
			assert.NoError(t, fs.MkdirAll(dir, 0755))
		}
		for _, file := range test.files {
			assert.NoError(t, afero.WriteFile(fs, file, []byte("testfile"), 0644))
		}

		paths, err := getPathsToWatch(test.root)
		assert.Equal(t, test.expError, err, test.name)

		sort.Strings(test.expPaths)
		sort.Strings(paths)
		assert.Equal(t, test.expPaths, paths, test.name)
	}
}

func TestCombineUpdates(t *testing.T) {
	t.Parallel()

	updates := make(chan fsnotify.Event, 1024)
	addEvents := func(num int) {
		for i := 0; i < num; i++ {
			updates <- fsnotify.Event{Name: "/mnt/cohort1/a.txt", Op: fsnotify.Write}
		}
	}

	// Seed with events.
	numUpdates := 100
	addEvents(numUpdates)
	combined := combineUpdates(updates, func(string) {})

	// Assert that the events are being combined.
	numCombined := countEvents(combined)
	assert.True(t, numCombined < numUpdates,
		"expected less combined events (%d) than %d", numCombined, numUpdates)

	// Add more events.
	addEvents(100)
	<-combined
}

func TestCombineUpdatesNewDirectory(t *testing.T) {
	fs = afero.NewMemMapFs()
	assert.NoError(t, fs.MkdirAll("/mnt/cohort1/new", 0755))
	assert.NoError(t, afero.WriteFile(fs, "/mnt/cohort1/new.txt", []byte("new"), 0644))

	updates := make(chan fsnotify.Event)
	added := make(chan string, 2)
	combined := combineUpdates(updates, func(dir string) { added <- dir })

	updates <- fsnotify.Event{Name: "/mnt/cohort1/a.txt", Op: fsnotify.Chmod}
	updates <- fsnotify.Event{Name: "/mnt/cohort1/new.txt", Op: fsnotify.Create}
	updates <- fsnotify.Event{Name: "/mnt/cohort1/new", Op: fsnotify.Create}
	close(updates)

	assert.Equal(t, "/mnt/cohort1/new", <-added)
	<-combined
	select {
	case dir := <-added:
		t.Errorf("unexpected directory %q", dir)
	default:
	}
}

func countEvents(c chan struct{}) (n int) {
	// Block until the first event.
	<-c
	n++

	// Count the number of events until there hasn't been any new events in 500
	// milliseconds.
	for {
		select {
		case <-c:
			n++
		case <-time.After(500 * time.Millisecond):
			return n
		}
	}
}
