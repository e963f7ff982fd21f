package util

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/galaxysync/pkg/config"
	"github.com/sidkik/galaxysync/pkg/errors"
	"github.com/sidkik/galaxysync/pkg/galaxy"
)

// Mocked for unit testing.
var (
	stderr      io.Writer = os.Stderr
	exit                  = os.Exit
	parseUser             = config.ParseUserOrDefault
	newGalaxy             = galaxy.New
	checkGalaxy           = galaxy.CheckVersion
)

// HandleFatalError prints the user-facing message for `err`, and exits.
func HandleFatalError(err error) {
	log.WithError(err).Debug("Fatal error")
	fmt.Fprintln(stderr, errors.GetPrintableMessage(err))
	exit(1)
}

// HandlePanic logs a stack trace and exits if the calling goroutine is
// panicking. It should be deferred at the start of every goroutine.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("stack", string(debug.Stack())).Error("Unexpected panic")
		fmt.Fprintf(stderr, "galaxysync crashed: %v\n", r)
		exit(1)
	}
}

// GetUserConfig returns the user's config, with the fields set in `cliOpts`
// taking precedence.
func GetUserConfig(cliOpts config.User) (config.User, error) {
	cfg, err := parseUser()
	if err != nil {
		return config.User{}, errors.WithContext(err, "parse user config")
	}

	if cliOpts.Address != "" {
		cfg.Address = cliOpts.Address
	}
	if cliOpts.APIKey != "" {
		cfg.APIKey = cliOpts.APIKey
	}
	if cliOpts.LibraryDescription != "" {
		cfg.LibraryDescription = cliOpts.LibraryDescription
	}

	if cfg.Address == "" {
		return config.User{}, errors.NewFriendlyError("The Galaxy address isn't " +
			"configured. Please run `galaxysync config`, or pass --address.")
	}
	if cfg.APIKey == "" {
		return config.User{}, errors.NewFriendlyError("The Galaxy API key isn't " +
			"configured. Please run `galaxysync config`, or pass --api-key.")
	}
	return cfg, nil
}

// GetGalaxyClient connects to the Galaxy server in `cfg`, and checks that
// its version is supported.
func GetGalaxyClient(cfg config.User) (galaxy.Client, error) {
	client, err := newGalaxy(cfg.Address, cfg.APIKey)
	if err != nil {
		return nil, errors.WithContext(err, "create client")
	}

	if err := checkGalaxy(client); err != nil {
		return nil, errors.WithContext(err, "check server version")
	}
	return client, nil
}
