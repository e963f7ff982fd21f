package version

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/galaxysync/cmd/util"
	"github.com/sidkik/galaxysync/pkg/config"
	"github.com/sidkik/galaxysync/pkg/errors"
	"github.com/sidkik/galaxysync/pkg/galaxy"
	"github.com/sidkik/galaxysync/pkg/version"
)

// Mocked for unit testing.
var (
	stdout        io.Writer = os.Stdout
	getUserConfig           = util.GetUserConfig
	newGalaxy               = galaxy.New
)

// New creates a new `version` command.
func New() *cobra.Command {
	var cliOpts config.User
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the local version of galaxysync and the Galaxy server version.",
		Run: func(_ *cobra.Command, args []string) {
			if err := run(cliOpts); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&cliOpts.Address, "address", "",
		"The address of the Galaxy server. Overrides the user config.")
	cmd.Flags().StringVar(&cliOpts.APIKey, "api-key", "",
		"The Galaxy API key. Overrides the user config.")
	return cmd
}

func run(cliOpts config.User) error {
	fmt.Fprintf(stdout, "local version:  %s\n", version.Version)

	cfg, err := getUserConfig(cliOpts)
	if err != nil {
		log.WithError(err).Debug("Failed to get user config")
		fmt.Fprintln(stdout, "galaxy version: (not configured)")
		return nil
	}

	// The version check is skipped so that the version of unsupported
	// servers can still be printed.
	client, err := newGalaxy(cfg.Address, cfg.APIKey)
	if err != nil {
		return errors.WithContext(err, "create client")
	}

	remoteVersion, err := client.GetVersion()
	if err != nil {
		return errors.WithContext(err, "get remote version")
	}

	fmt.Fprintf(stdout, "galaxy version: %s\n", remoteVersion)
	return nil
}
