package cmd

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&log.TextFormatter{})
		log.SetLevel(log.InfoLevel)
	}()

	logPath := filepath.Join(t.TempDir(), "galaxysync.log")
	t.Setenv(verboseLogKey, "true")
	t.Setenv(logFileKey, logPath)

	setupLogging()
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	log.WithField("library", "cohort1").Debug("Debug message")
	contents, err := ioutil.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"msg":"Debug message"`)
	assert.Contains(t, string(contents), `"library":"cohort1"`)
}

func TestRootCmdLeavesErrorsToCaller(t *testing.T) {
	var output bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetOut(&output)
	rootCmd.SetErr(&output)
	rootCmd.SetArgs([]string{"bogus"})

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, `unknown command "bogus"`)
	assert.Empty(t, output.String())
}
