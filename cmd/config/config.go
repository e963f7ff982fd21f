package config

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/galaxysync/cmd/util"
	"github.com/sidkik/galaxysync/pkg/config"
	"github.com/sidkik/galaxysync/pkg/errors"
	"github.com/sidkik/galaxysync/pkg/sync"
)

// defaultAddress is the address of a Galaxy server started locally with
// `run.sh`.
const defaultAddress = "http://localhost:8080"

// Mocked for unit testing.
var (
	stdout          io.Writer = os.Stdout
	stdin           io.Reader = os.Stdin
	guessDefaults             = guessDefaultsImpl
	parseUserConfig           = config.ParseUser
	writeUserConfig           = config.WriteUser
)

// New creates a new `config` command.
func New() *cobra.Command {
	var cliOpts config.User
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Setup the galaxysync user configuration",
		Run: func(_ *cobra.Command, _ []string) {
			if err := SetupConfig(cliOpts); err != nil {
				err = errors.NewFriendlyError("Failed to setup configuration:\n%s", err)
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&cliOpts.Address, "address", "",
		"Set the Galaxy address in the config. "+
			"Optional: If not set, `galaxysync config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.APIKey, "api-key", "",
		"Set the Galaxy API key in the config. "+
			"Optional: If not set, `galaxysync config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.LibraryDescription, "library-description", "",
		"Set the description used for new libraries. "+
			"Optional: If not set, `galaxysync config` will interactively prompt.")

	cmd.AddCommand(&cobra.Command{
		Use:   "get-address",
		Short: "Get the currently configured Galaxy address",
		Run: func(_ *cobra.Command, _ []string) {
			cfg, err := parseUserConfig()
			if err != nil {
				err = errors.WithContext(err, "read config")
				util.HandleFatalError(err)
			}

			fmt.Fprintln(stdout, cfg.Address)
		},
	})

	return cmd
}

// SetupConfig prompts for any settings not in `cliOpts`, and writes the
// result to the user config.
func SetupConfig(cliOpts config.User) error {
	cfg, err := generateConfig(cliOpts)
	if err != nil {
		return errors.WithContext(err, "generate config")
	}

	if err := writeUserConfig(cfg); err != nil {
		return errors.WithContext(err, "write config")
	}

	path, err := config.GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "get user config path")
	}

	fmt.Fprintf(stdout, "Wrote config to %s\n", path)
	return nil
}

func addressValidationFn(address string) (string, bool) {
	parsed, err := url.Parse(address)
	if err != nil || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "The address must be a full URL, such as " +
			"https://usegalaxy.org. Please enter another address.", false
	}
	return "", true
}

func apiKeyValidationFn(key string) (string, bool) {
	if strings.TrimSpace(key) == "" {
		return "The API key can't be empty. It's shown in the Galaxy UI under " +
			"User > Preferences > Manage API Key.", false
	}
	return "", true
}

type prompt struct {
	helpString, prompt, defaultAnswer, currAnswer string
	field                                         *string
	validationFn                                  func(string) (string, bool)
}

// generateConfig interacts with the user to decide what the user's desired
// configuration is. Settings passed as flags aren't prompted for.
func generateConfig(cliOpts config.User) (config.User, error) {
	defaults := guessDefaults()
	currConfig, err := parseUserConfig()
	if err != nil {
		currConfig = config.User{}
		log.WithError(err).Debug("Failed to read current config")
	}

	cfg := cliOpts
	var prompts []prompt
	if cliOpts.Address == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the address of the Galaxy server.\n" +
				"Libraries and histories will be created on this server.",
			prompt:        "Galaxy address",
			defaultAnswer: defaults.Address,
			currAnswer:    currConfig.Address,
			field:         &cfg.Address,
			validationFn:  addressValidationFn,
		})
	}

	if cliOpts.APIKey == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the API key of a Galaxy admin user.\n" +
				"Only admins can create data libraries.",
			prompt:       "Galaxy API key",
			currAnswer:   currConfig.APIKey,
			field:        &cfg.APIKey,
			validationFn: apiKeyValidationFn,
		})
	}

	if cliOpts.LibraryDescription == "" {
		prompts = append(prompts, prompt{
			helpString:    "Enter the description to use when creating libraries.",
			prompt:        "Library description",
			defaultAnswer: defaults.LibraryDescription,
			currAnswer:    currConfig.LibraryDescription,
			field:         &cfg.LibraryDescription,
		})
	}

	for _, prompt := range prompts {
		var resp string
		for {
			resp, err = promptUser(prompt.helpString, prompt.prompt,
				prompt.defaultAnswer, prompt.currAnswer)
			if err != nil {
				return config.User{}, errors.WithContext(err, "read response")
			}

			if prompt.validationFn == nil {
				break
			}

			validationErr, ok := prompt.validationFn(resp)
			if ok {
				break
			}

			fmt.Fprintln(stdout, validationErr)
		}

		*prompt.field = resp
	}

	return cfg, nil
}

func guessDefaultsImpl() config.User {
	return config.User{
		Address:            defaultAddress,
		LibraryDescription: sync.DefaultLibraryDescription,
	}
}

func promptUser(helpString, prompt, defaultAnswer, currAnswer string) (string, error) {
	// Separate the fields with a new line to make them easier to read.
	defer fmt.Fprintln(stdout)

	options := []string{}
	if defaultAnswer != "" {
		options = append(options, defaultAnswer)
	}
	if currAnswer != "" && currAnswer != defaultAnswer {
		options = append(options, currAnswer)
	}
	options = append(options, "(Enter manually)")

	fmt.Fprintln(stdout, helpString+"\n"+prompt+":")

	stdinReader := bufio.NewReader(stdin)

	if nOptions := len(options); nOptions > 1 {
		fmt.Fprintln(stdout)
		for i, option := range options {
			if i == 0 {
				option = fmt.Sprintf("%s (recommended)", option)
			}
			fmt.Fprintf(stdout, "\t%d. %s\n", i+1, option)
		}
		fmt.Fprintln(stdout)

		for {
			fmt.Fprintf(stdout, "Please choose one [1-%d]: ", nOptions)
			choiceStr, err := stdinReader.ReadString('\n')
			if err != nil {
				return "", err
			}

			var choice int
			choiceStr = strings.TrimRight(choiceStr, "\n")

			// Default to the first choice if user doesn't enter anything.
			if choiceStr == "" {
				choice = 1
			} else {
				choice, err = strconv.Atoi(choiceStr)
				if err != nil || choice < 1 || choice > nOptions {
					continue
				}
			}

			if choice == nOptions {
				break
			}

			return options[choice-1], nil
		}
	}

	fmt.Fprint(stdout, "Please enter manually: ")
	resp, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimRight(resp, "\n"), nil
}
