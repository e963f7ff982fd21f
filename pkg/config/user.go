package config

import (
	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/sidkik/galaxysync/pkg/errors"
)

const (
	// UserConfigPath is the default path to the galaxysync user config.
	UserConfigPath = "~/.galaxysync.yaml"

	// InitialUserConfigVersion is the first version of the user config.
	// Config files that don't specify a version default to it.
	InitialUserConfigVersion = "v1alpha1"

	// SupportedUserConfigVersion is the version of the user config
	// understood by this binary.
	SupportedUserConfigVersion = "v1alpha1"
)

// User contains the settings used to connect to Galaxy.
type User struct {
	Version string `json:"version,omitempty"`

	// Address is the base URL of the Galaxy server.
	Address string `json:"address"`

	// APIKey is the key of a Galaxy admin user. Libraries can only be
	// created by admins.
	APIKey string `json:"apiKey"`

	// LibraryDescription is used when creating new libraries.
	LibraryDescription string `json:"libraryDescription,omitempty"`
}

func (u User) getVersion() string {
	return u.Version
}

// homedirExpand is overridden in the tests.
var homedirExpand = homedir.Expand

// ParseUser parses the User stored in the default path.
func ParseUser() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	config := User{Version: InitialUserConfigVersion}
	if err := parseConfig(path, &config, SupportedUserConfigVersion); err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			return User{}, errors.NewFriendlyError("The galaxysync user config "+
				"file doesn't exist at %q. Please run `galaxysync config` to "+
				"create it, or pass --address and --api-key.", path)
		}
		return User{}, errors.WithContext(err, "parse")
	}
	return config, nil
}

// ParseUserOrDefault is like ParseUser, but returns an empty config if the
// config file doesn't exist yet.
func ParseUserOrDefault() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	if _, err := fs.Stat(path); err != nil {
		return User{Version: SupportedUserConfigVersion}, nil
	}
	return ParseUser()
}

// WriteUser writes the given user config to disk.
func WriteUser(cfg User) error {
	cfg.Version = SupportedUserConfigVersion
	path, err := GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	// The config contains the API key, so it shouldn't be readable by
	// other users.
	if err := afero.WriteFile(fs, path, yamlBytes, 0600); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// GetUserConfigPath returns the expanded path to the user's galaxysync
// config, so that it can be passed directly to file operations.
func GetUserConfigPath() (string, error) {
	return homedirExpand(UserConfigPath)
}
