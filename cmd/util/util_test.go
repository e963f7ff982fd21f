package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/galaxysync/pkg/config"
	"github.com/sidkik/galaxysync/pkg/errors"
	"github.com/sidkik/galaxysync/pkg/galaxy"
	"github.com/sidkik/galaxysync/pkg/galaxy/mocks"
)

func mockExit(t *testing.T) (*bytes.Buffer, *int) {
	out := bytes.NewBuffer(nil)
	stderr = out

	code := -1
	exit = func(c int) { code = c }
	return out, &code
}

func TestHandleFatalError(t *testing.T) {
	out, code := mockExit(t)
	HandleFatalError(errors.WithContext(errors.NewFriendlyError("Friendly %s", "message"), "context"))
	assert.Equal(t, "Friendly message\n", out.String())
	assert.Equal(t, 1, *code)

	out, code = mockExit(t)
	HandleFatalError(errors.WithContext(errors.New("cause"), "context"))
	assert.Equal(t, "context: cause\n", out.String())
	assert.Equal(t, 1, *code)
}

func TestHandlePanic(t *testing.T) {
	out, code := mockExit(t)
	func() {
		defer HandlePanic()
		panic("oops")
	}()
	assert.Equal(t, "galaxysync crashed: oops\n", out.String())
	assert.Equal(t, 1, *code)

	out, code = mockExit(t)
	func() {
		defer HandlePanic()
	}()
	assert.Empty(t, out.String())
	assert.Equal(t, -1, *code)
}

func TestGetUserConfig(t *testing.T) {
	tests := []struct {
		name      string
		fromFile  config.User
		cliOpts   config.User
		expConfig config.User
		expError  bool
	}{
		{
			name:      "FromFile",
			fromFile:  config.User{Address: "https://file", APIKey: "file-key"},
			expConfig: config.User{Address: "https://file", APIKey: "file-key"},
		},
		{
			name:     "FlagsTakePrecedence",
			fromFile: config.User{Address: "https://file", APIKey: "file-key", LibraryDescription: "file"},
			cliOpts:  config.User{Address: "https://cli", LibraryDescription: "cli"},
			expConfig: config.User{
				Address: "https://cli", APIKey: "file-key", LibraryDescription: "cli"},
		},
		{
			name:      "OnlyFlags",
			cliOpts:   config.User{Address: "https://cli", APIKey: "cli-key"},
			expConfig: config.User{Address: "https://cli", APIKey: "cli-key"},
		},
		{
			name:     "MissingAddress",
			fromFile: config.User{APIKey: "file-key"},
			expError: true,
		},
		{
			name:     "MissingAPIKey",
			cliOpts:  config.User{Address: "https://cli"},
			expError: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			parseUser = func() (config.User, error) {
				return test.fromFile, nil
			}

			cfg, err := GetUserConfig(test.cliOpts)
			if test.expError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expConfig, cfg)
		})
	}
}

func TestGetGalaxyClient(t *testing.T) {
	mockClient := &mocks.Client{}
	newGalaxy = func(address, apiKey string) (galaxy.Client, error) {
		assert.Equal(t, "https://usegalaxy.org", address)
		assert.Equal(t, "key", apiKey)
		return mockClient, nil
	}

	checkGalaxy = func(galaxy.Client) error { return nil }
	client, err := GetGalaxyClient(config.User{Address: "https://usegalaxy.org", APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, mockClient, client)

	checkGalaxy = func(galaxy.Client) error { return assert.AnError }
	_, err = GetGalaxyClient(config.User{Address: "https://usegalaxy.org", APIKey: "key"})
	assert.Equal(t, assert.AnError, errors.RootCause(err))
}
