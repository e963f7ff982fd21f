package galaxy

//go:generate mockery -name Client

// LibraryClient contains the operations on Galaxy data libraries needed to
// mirror a local directory tree.
type LibraryClient interface {
	// GetLibraries returns the non-deleted libraries named exactly `name`.
	GetLibraries(name string) ([]Library, error)
	CreateLibrary(name, description string) (Library, error)

	// ShowLibraryContents lists every folder and file in the library.
	ShowLibraryContents(libraryID string) ([]LibraryItem, error)

	// CreateFolder creates a folder named `name` inside `parentID`. An empty
	// `parentID` refers to the library's root folder.
	CreateFolder(libraryID, name, parentID string) (Folder, error)

	// UploadFromFilesystem imports the newline-delimited server-side `paths`
	// into the folder. An empty `folderID` refers to the library's root
	// folder. If `linkOnly` is set, Galaxy links to the files rather than
	// copying them.
	UploadFromFilesystem(libraryID, paths, folderID string, linkOnly bool) ([]LibraryDataset, error)
}

// HistoryClient contains the operations on Galaxy histories needed to expose
// library files in a history.
type HistoryClient interface {
	// GetHistories returns the non-deleted histories whose name contains
	// `name`.
	GetHistories(name string) ([]History, error)
	CreateHistory(name string) (History, error)
	CreateHistoryTag(historyID, tag string) error

	// ShowHistoryContents lists the non-deleted datasets in the history.
	ShowHistoryContents(historyID string) ([]HistoryDataset, error)

	// UploadDatasetFromLibrary imports a library dataset into the history.
	UploadDatasetFromLibrary(historyID, libraryDatasetID string) (HistoryDataset, error)
}

// Client is used for communicating with a Galaxy server.
type Client interface {
	LibraryClient
	HistoryClient

	// GetVersion returns the major version of the Galaxy server, e.g. `23.1`.
	GetVersion() (string, error)
}
