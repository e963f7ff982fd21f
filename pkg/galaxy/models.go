package galaxy

import (
	"github.com/sidkik/galaxysync/pkg/errors"
)

// The types of items returned when listing the contents of a library.
const (
	ItemTypeFolder = "folder"
	ItemTypeFile   = "file"
)

// Library is a Galaxy data library.
type Library struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Deleted      bool   `json:"deleted"`
	RootFolderID string `json:"root_folder_id,omitempty"`
}

// LibraryItem is a folder or file within a library. Name is the full path of
// the item within the library, e.g. `/sub/b.txt`.
type LibraryItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Folder is a folder that was created within a library.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LibraryDataset is a file that was uploaded into a library. Name is the
// basename of the uploaded file.
type LibraryDataset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// History is a Galaxy history.
type History struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Tags    []string `json:"tags"`
	Deleted bool     `json:"deleted"`
}

// HistoryDataset is a dataset within a history. DatasetID is the ID of the
// library dataset that it was imported from.
type HistoryDataset struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DatasetID string `json:"dataset_id"`
	FileName  string `json:"file_name,omitempty"`
	Deleted   bool   `json:"deleted"`
}

func requireID(id string) error {
	if id == "" {
		return errors.MissingFieldError{Field: "id"}
	}
	return nil
}

func (l Library) validate() error {
	return requireID(l.ID)
}

func (f Folder) validate() error {
	return requireID(f.ID)
}

func (d LibraryDataset) validate() error {
	if err := requireID(d.ID); err != nil {
		return err
	}
	if d.Name == "" {
		return errors.MissingFieldError{Field: "name"}
	}
	return nil
}

func (h History) validate() error {
	return requireID(h.ID)
}

func (d HistoryDataset) validate() error {
	return requireID(d.ID)
}
