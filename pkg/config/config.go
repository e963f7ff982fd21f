package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"

	"github.com/sidkik/galaxysync/pkg/errors"
)

// parseConfigErrTemplate is shown when the config file can't be parsed. The
// yaml library loses the context of where the error happened, so the
// parser's message is passed on as is.
const parseConfigErrTemplate = "Configuration file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields\n" +
	" - Having extra fields inside the config file\n\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// fs is overridden by afero.NewMemMapFs() in the tests.
var fs = afero.NewOsFs()

type configInterface interface {
	getVersion() string
}

type incompatibleVersionError struct {
	path, exp, actual string
}

func (err incompatibleVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err incompatibleVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The configuration file %q is incompatible "+
		"with this version of galaxysync.\n"+
		"Expected version %q, but got %q.", err.path, err.exp, err.actual)
}

func parseConfig(path string, config configInterface, expVersion string) error {
	configBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.FileNotFound{Path: path}
		}
		return errors.WithContext(err, "read file")
	}

	if err := yaml.Unmarshal(configBytes, config); err != nil {
		return errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}

	if config.getVersion() != expVersion {
		return incompatibleVersionError{path, expVersion, config.getVersion()}
	}

	// Check for extra fields only after the version matches, so that old
	// configs get the version error rather than a confusing field error.
	err = yaml.UnmarshalStrict(configBytes, config, yaml.DisallowUnknownFields)
	if err != nil {
		return errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}
	return nil
}
