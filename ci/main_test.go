//go:build ci
// +build ci

package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/galaxysync/pkg/galaxy"
	"github.com/sidkik/galaxysync/pkg/sync"
)

// TestGalaxySync syncs a directory into a live Galaxy server. The server must
// allow admins to link files from the filesystem, and CI_MOUNT_ROOT must be
// visible at the same path to both this test and the Galaxy server.
func TestGalaxySync(t *testing.T) {
	address := requireEnv(t, "CI_GALAXY_ADDRESS")
	apiKey := requireEnv(t, "CI_GALAXY_API_KEY")
	mountRoot := requireEnv(t, "CI_MOUNT_ROOT")
	log.SetLevel(log.DebugLevel)

	client, err := galaxy.New(address, apiKey)
	require.NoError(t, err)
	require.NoError(t, galaxy.CheckVersion(client))

	// Use a unique name so that runs don't find each other's libraries.
	name := fmt.Sprintf("galaxysync-ci-%d", time.Now().UnixNano())
	mountpoint := filepath.Join(mountRoot, name)
	writeFiles(t, mountpoint, "a.txt", "sub/b.txt", "sub/deep/c.txt")

	res, err := sync.Run(client, sync.Options{Mountpoint: mountpoint})
	require.NoError(t, err)
	assert.Equal(t, name, res.LibraryName)
	assert.Equal(t, 3, res.Tree.FilesUploaded)
	assert.Equal(t, 2, res.Tree.FoldersCreated)
	assert.Equal(t, 3, res.Attached)
	assert.False(t, res.HistoryReused)

	// Syncing again is a no-op.
	rerun, err := sync.Run(client, sync.Options{Mountpoint: mountpoint})
	require.NoError(t, err)
	assert.Equal(t, res.LibraryID, rerun.LibraryID)
	assert.Equal(t, res.HistoryID, rerun.HistoryID)
	assert.True(t, rerun.HistoryReused)
	assert.Zero(t, rerun.Tree.FilesUploaded)
	assert.Zero(t, rerun.Tree.FoldersCreated)
	assert.Equal(t, 3, rerun.Tree.FilesSkipped)
	assert.Zero(t, rerun.Attached)

	// Only new files are uploaded and imported.
	writeFiles(t, mountpoint, "sub/d.txt")
	incremental, err := sync.Run(client, sync.Options{Mountpoint: mountpoint})
	require.NoError(t, err)
	assert.Equal(t, 1, incremental.Tree.FilesUploaded)
	assert.Equal(t, 1, incremental.Attached)
}

func requireEnv(t *testing.T, key string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		t.Fatalf("missing required environment variable %s", key)
	}
	return val
}

func writeFiles(t *testing.T, root string, paths ...string) {
	for _, path := range paths {
		path = filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, ioutil.WriteFile(path, []byte(path), 0644))
	}
}
