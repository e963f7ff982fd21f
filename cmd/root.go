package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	configCmd "github.com/sidkik/galaxysync/cmd/config"
	syncCmd "github.com/sidkik/galaxysync/cmd/sync"
	"github.com/sidkik/galaxysync/cmd/util"
	"github.com/sidkik/galaxysync/cmd/version"
)

const (
	// verboseLogKey is the environment variable used to enable verbose
	// logging. When it's set to `true`, Debug events are logged, rather than
	// just Info and above.
	verboseLogKey = "GALAXYSYNC_LOG_VERBOSE"

	// logFileKey is the environment variable used to write logs to a file
	// rather than stderr. The file is rotated once it gets large.
	logFileKey = "GALAXYSYNC_LOG_FILE"
)

// Execute runs the main CLI process.
func Execute() {
	setupLogging()

	if err := newRootCmd().Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "galaxysync",
		Short:        "Sync local directories into Galaxy data libraries and histories",
		SilenceUsage: true,

		// Errors returned by Execute are printed by util.HandleFatalError,
		// so cobra shouldn't print them as well.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		configCmd.New(),
		syncCmd.New(),
		version.New(),
	)
	return rootCmd
}

func setupLogging() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	if path := os.Getenv(logFileKey); path != "" {
		log.SetFormatter(&log.JSONFormatter{})
		log.SetOutput(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
}
