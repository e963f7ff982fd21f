package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/galaxysync/pkg/errors"
)

func TestNewFolderPath(t *testing.T) {
	tests := []struct {
		in  string
		exp FolderPath
	}{
		{"", RootFolder},
		{"/", RootFolder},
		{"/a", "/a"},
		{"a/b", "/a/b"},
		{"/a/b/", "/a/b"},
		{"/a/../b", "/a/../b"},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, NewFolderPath(test.in), test.in)
	}
}

func TestAncestors(t *testing.T) {
	assert.Empty(t, RootFolder.Ancestors())
	assert.Equal(t, []FolderPath{"/a"}, FolderPath("/a").Ancestors())
	assert.Equal(t, []FolderPath{"/a", "/a/b", "/a/b/c"}, FolderPath("/a/b/c").Ancestors())
	assert.Equal(t, "c", FolderPath("/a/b/c").Base())
}

func TestSplitRemotePath(t *testing.T) {
	tests := []struct {
		name      string
		expFolder FolderPath
		expFile   string
		expOK     bool
	}{
		{"/a.txt", RootFolder, "a.txt", true},
		{"/sub/b.txt", "/sub", "b.txt", true},
		{"/sub/dir/c.txt", "/sub/dir", "c.txt", true},
		{"a.txt", "", "", false},
		{"/sub/", "", "", false},
	}

	for _, test := range tests {
		folder, file, ok := SplitRemotePath(test.name)
		assert.Equal(t, test.expFolder, folder, test.name)
		assert.Equal(t, test.expFile, file, test.name)
		assert.Equal(t, test.expOK, ok, test.name)
	}
}

func TestCanonicalizeRoot(t *testing.T) {
	assert.Equal(t, "/mnt/cohort1", CanonicalizeRoot("/mnt/cohort1/"))
	assert.Equal(t, "/mnt/cohort1", CanonicalizeRoot("/mnt/cohort1//"))
	assert.Equal(t, "/mnt/./cohort1", CanonicalizeRoot("/mnt/./cohort1"))
	assert.Equal(t, "/", CanonicalizeRoot("/"))
}

func TestFolderKey(t *testing.T) {
	tests := []struct {
		entrypoint, path string
		exp              FolderPath
		expError         error
	}{
		{
			entrypoint: "/mnt/cohort1",
			path:       "/mnt/cohort1/a.txt",
			exp:        RootFolder,
		},
		{
			entrypoint: "/mnt/cohort1",
			path:       "/mnt/cohort1/sub/dir/b.txt",
			exp:        "/sub/dir",
		},
		{
			entrypoint: "/",
			path:       "/sub/b.txt",
			exp:        "/sub",
		},
		{
			entrypoint: "/mnt/cohort1",
			path:       "/mnt/cohort10/a.txt",
			expError: errors.PathOutsideEntrypointError{
				Entrypoint: "/mnt/cohort1", Path: "/mnt/cohort10/a.txt"},
		},
		{
			entrypoint: "/mnt/cohort1",
			path:       "/etc/passwd",
			expError: errors.PathOutsideEntrypointError{
				Entrypoint: "/mnt/cohort1", Path: "/etc/passwd"},
		},
	}

	for _, test := range tests {
		key, err := FolderKey(test.entrypoint, test.path)
		assert.Equal(t, test.exp, key, test.path)
		assert.Equal(t, test.expError, err, test.path)
	}
}
