package errors

import (
	goErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContext(t *testing.T) {
	assert.NoError(t, WithContext(nil, "ignored"))

	root := New("root")
	err := WithContext(WithContext(root, "inner"), "outer")
	assert.EqualError(t, err, "outer: inner: root")
	assert.Equal(t, root, RootCause(err))
	assert.True(t, goErrors.Is(err, root))
}

func TestRootCauseTypedError(t *testing.T) {
	err := WithContext(FileNotFound{Path: "/mnt"}, "stat")
	assert.Equal(t, FileNotFound{Path: "/mnt"}, RootCause(err))

	var notFound FileNotFound
	assert.True(t, As(err, &notFound))
	assert.Equal(t, "/mnt", notFound.Path)
}

func TestGetPrintableMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		exp  string
	}{
		{
			name: "Plain error",
			err:  WithContext(New("boom"), "sync"),
			exp:  "sync: boom",
		},
		{
			name: "Friendly error",
			err:  WithContext(NewFriendlyError("Please %s.", "retry"), "sync"),
			exp:  "Please retry.",
		},
		{
			name: "Typed friendly error",
			err:  WithContext(AmbiguousLibraryError{Name: "cohort1", Count: 2}, "resolve library"),
			exp: "Found 2 Galaxy libraries named \"cohort1\".\n" +
				"Only one library may have this name. Please rename or delete the " +
				"duplicates in Galaxy, or choose another name with --library-name.",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, GetPrintableMessage(test.err))
		})
	}
}
