package errors

import (
	"fmt"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// NotADirectoryError is returned when a path that must be traversed isn't a
// directory.
type NotADirectoryError struct {
	Path string
}

func (err NotADirectoryError) Error() string {
	return fmt.Sprintf("%q is not a valid path to traverse", err.Path)
}

// FriendlyMessage implements the friendlyError interface.
func (err NotADirectoryError) FriendlyMessage() string {
	return fmt.Sprintf("%q is not a directory.\n"+
		"Please pass the path to the mounted directory that should be synced.", err.Path)
}

// PathOutsideEntrypointError is returned when a path is expected to be
// within the sync entrypoint, but isn't.
type PathOutsideEntrypointError struct {
	Entrypoint, Path string
}

func (err PathOutsideEntrypointError) Error() string {
	return fmt.Sprintf("%q is not within %q", err.Path, err.Entrypoint)
}

// AmbiguousLibraryError is returned when more than one library has the name
// that we're syncing to. There's no safe way to pick one, so the sync must
// abort.
type AmbiguousLibraryError struct {
	Name  string
	Count int
}

func (err AmbiguousLibraryError) Error() string {
	return fmt.Sprintf("found %d libraries named %q", err.Count, err.Name)
}

// FriendlyMessage implements the friendlyError interface.
func (err AmbiguousLibraryError) FriendlyMessage() string {
	return fmt.Sprintf("Found %d Galaxy libraries named %q.\n"+
		"Only one library may have this name. Please rename or delete the "+
		"duplicates in Galaxy, or choose another name with --library-name.",
		err.Count, err.Name)
}
