package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/galaxysync/cmd/util"
	"github.com/sidkik/galaxysync/pkg/config"
	"github.com/sidkik/galaxysync/pkg/errors"
	"github.com/sidkik/galaxysync/pkg/fswatch"
	"github.com/sidkik/galaxysync/pkg/galaxy"
	"github.com/sidkik/galaxysync/pkg/sync"
)

// defaultPollInterval is how often the mountpoint is re-synced in watch mode
// even if no file changes were noticed.
const defaultPollInterval = 5 * time.Minute

// Mocked for unit testing.
var (
	runSync    = sync.Run
	watchFiles = fswatch.Watch
)

type options struct {
	config.User
	sync.Options

	watch        bool
	pollInterval time.Duration
}

// New creates a new `sync` command.
func New() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "sync MOUNTPOINT",
		Short: "Sync a directory into a Galaxy data library and history",
		Long: "Link every file under MOUNTPOINT into a Galaxy data library, " +
			"mirroring the directory\nlayout as library folders, and then " +
			"import the library's files into a history.\n\n" +
			"Running the sync again only uploads files that aren't in the " +
			"library yet, and only\nimports files that aren't in the history yet.",
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			opts.Mountpoint = args[0]
			if err := run(opts); err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	cmd.Flags().StringVar(&opts.LibraryName, "library-name", "",
		"The name of the library to sync into. Defaults to the name of MOUNTPOINT.")
	cmd.Flags().StringVar(&opts.Options.LibraryDescription, "library-description", "",
		"The description of the library, if it's created.")
	cmd.Flags().StringVar(&opts.HistoryName, "history-name", "",
		"The prefix of the history to import files into. Defaults to the library name.")
	cmd.Flags().StringVar(&opts.Address, "address", "",
		"The address of the Galaxy server. Overrides the user config.")
	cmd.Flags().StringVar(&opts.APIKey, "api-key", "",
		"The API key of a Galaxy admin. Overrides the user config.")
	cmd.Flags().BoolVar(&opts.watch, "watch", false,
		"Keep running, and sync again whenever files under MOUNTPOINT change.")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", defaultPollInterval,
		"How often to sync in watch mode when no changes are detected.")
	return cmd
}

func run(opts options) error {
	if opts.watch && opts.pollInterval <= 0 {
		return errors.NewFriendlyError("--poll-interval must be positive, got %s.", opts.pollInterval)
	}

	cfg, err := util.GetUserConfig(opts.User)
	if err != nil {
		return err
	}

	client, err := util.GetGalaxyClient(cfg)
	if err != nil {
		return errors.WithContext(err, "connect to Galaxy")
	}

	syncOpts := opts.Options
	if syncOpts.LibraryDescription == "" {
		syncOpts.LibraryDescription = cfg.LibraryDescription
	}

	s := syncer{
		client: client,
		opts:   syncOpts,
		log:    logrus.StandardLogger(),
		clock:  clockwork.NewRealClock(),
	}

	if !opts.watch {
		return s.syncOnce(false)
	}

	s.pollInterval = opts.pollInterval
	if err := s.watch(); err != nil {
		return err
	}
	s.Run(nil)
	return nil
}

type syncer struct {
	client galaxy.Client
	opts   sync.Options

	fileWatcher  chan struct{}
	pollInterval time.Duration

	log   *logrus.Logger
	clock clockwork.Clock
}

// watch starts watching the mountpoint for changes. If there are too many
// directories to watch, the syncer falls back to polling.
func (s *syncer) watch() error {
	fileWatcher, err := watchFiles(s.opts.Mountpoint)
	if err == nil {
		s.fileWatcher = fileWatcher
		return nil
	}

	rootCause := errors.RootCause(err)
	switch {
	case strings.Contains(rootCause.Error(), "too many open files"),
		strings.Contains(rootCause.Error(), "no space left on device"):
		s.log.WithField("mountpoint", s.opts.Mountpoint).Warnf(
			"Too many directories to watch for changes. "+
				"galaxysync will poll for changes every %s instead.", s.pollInterval)
		return nil
	case isFileNotFound(rootCause):
		return errors.NewFriendlyError("Failed to watch files for syncing.\n"+
			"%q doesn't exist.", s.opts.Mountpoint)
	}
	return errors.WithContext(err, "watch files")
}

func isFileNotFound(err error) bool {
	_, ok := err.(errors.FileNotFound)
	return ok
}

// Run syncs once, and then again whenever the file watcher fires or the poll
// interval elapses. Failed syncs are logged and retried on the next trigger.
// It returns when `stop` is closed.
func (s syncer) Run(stop <-chan struct{}) {
	ticker := s.clock.NewTicker(s.pollInterval)
	defer ticker.Stop()

	trigger := make(chan struct{}, 1)
	trigger <- struct{}{}

	hasSyncedOnce := false
	for {
		select {
		case <-trigger:
		case <-s.fileWatcher:
		case <-ticker.Chan():
		case <-stop:
			return
		}

		if err := s.syncOnce(hasSyncedOnce); err != nil {
			s.log.WithError(err).Error("Sync failed")
			continue
		}
		hasSyncedOnce = true
	}
}

// syncOnce syncs the mountpoint into the library and the history, and logs
// what changed.
func (s syncer) syncOnce(hasSyncedOnce bool) error {
	res, err := runSync(s.client, s.opts)
	if err != nil {
		return errors.WithContext(err, fmt.Sprintf("sync %s", s.opts.Mountpoint))
	}

	logger := s.log.WithFields(logrus.Fields{
		"library": res.LibraryName,
		"history": res.HistoryName,
	})
	if res.Tree.FilesUploaded == 0 && res.Attached == 0 {
		// Let the user know that the sync did run, so that they don't think
		// it's stalled.
		if !hasSyncedOnce {
			logger.Info("Already synced. A previous run of `galaxysync sync` " +
				"probably synced the files already.")
		}
		return nil
	}

	logger.Infof("Uploaded %d files and created %d folders. Imported %d files into the history.",
		res.Tree.FilesUploaded, res.Tree.FoldersCreated, res.Attached)
	return nil
}
