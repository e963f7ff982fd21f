package sync

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/galaxysync/pkg/errors"
	"github.com/sidkik/galaxysync/pkg/galaxy"
)

// DefaultLibraryDescription is the description of libraries created by
// galaxysync when none is given.
const DefaultLibraryDescription = "Library created from specified local mount point"

// Options configures a single sync.
type Options struct {
	// Mountpoint is the local directory to sync.
	Mountpoint string

	// LibraryName defaults to the name of the Mountpoint directory.
	LibraryName string

	LibraryDescription string

	// HistoryName is the prefix of the history to sync into. It defaults
	// to the LibraryName.
	HistoryName string
}

// Result summarizes a completed sync.
type Result struct {
	LibraryID   string
	LibraryName string
	HistoryID   string
	HistoryName string

	// HistoryReused is set if the history existed before the sync.
	HistoryReused bool

	Tree     TreeStats
	Attached int
}

// withDefaults fills in the unset fields of `opts`.
func (opts Options) withDefaults() (Options, error) {
	mountpoint, err := filepath.Abs(opts.Mountpoint)
	if err != nil {
		return Options{}, errors.WithContext(err, "get absolute path")
	}
	opts.Mountpoint = CanonicalizeRoot(mountpoint)

	if opts.LibraryName == "" {
		opts.LibraryName = filepath.Base(opts.Mountpoint)
		if opts.LibraryName == string(filepath.Separator) {
			opts.LibraryName = "root"
		}
	}

	if opts.LibraryDescription == "" {
		opts.LibraryDescription = DefaultLibraryDescription
	}

	if opts.HistoryName == "" {
		opts.HistoryName = opts.LibraryName
	}
	return opts, nil
}

// Run syncs the files in `opts.Mountpoint` into a library, and then into a
// history.
func Run(client galaxy.Client, opts Options) (Result, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return Result{}, err
	}

	logger := log.WithFields(log.Fields{
		"mountpoint": opts.Mountpoint,
		"library":    opts.LibraryName,
	})

	if err := CheckTree(opts.Mountpoint); err != nil {
		return Result{}, err
	}

	lib, err := ResolveLibrary(client, opts.LibraryName, opts.LibraryDescription)
	if err != nil {
		return Result{}, errors.WithContext(err, "resolve library")
	}

	treeStats, err := lib.SyncTree(opts.Mountpoint)
	if err != nil {
		return Result{}, errors.WithContext(err, "sync files to library")
	}
	logger.WithFields(log.Fields{
		"uploaded": treeStats.FilesUploaded,
		"skipped":  treeStats.FilesSkipped,
		"folders":  treeStats.FoldersCreated,
	}).Info("Synced library")

	history, err := ResolveHistory(client, opts.HistoryName)
	if err != nil {
		return Result{}, errors.WithContext(err, "resolve history")
	}

	attached, err := history.Reconcile(lib.Files())
	if err != nil {
		return Result{}, errors.WithContext(err, "sync library to history")
	}
	logger.WithFields(log.Fields{
		"history":  history.Name,
		"imported": attached,
	}).Info("Synced history")

	return Result{
		LibraryID:     lib.ID,
		LibraryName:   lib.Name,
		HistoryID:     history.ID,
		HistoryName:   history.Name,
		HistoryReused: history.Reused(),
		Tree:          treeStats,
		Attached:      attached,
	}, nil
}
