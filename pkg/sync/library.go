package sync

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/galaxysync/pkg/errors"
	"github.com/sidkik/galaxysync/pkg/galaxy"
)

// FolderRecord tracks a folder in the library and the files within it.
type FolderRecord struct {
	Path FolderPath

	// ID is the remote ID of the folder. It's empty for the root folder,
	// which is addressed implicitly.
	ID string

	// Files maps the name of each file in the folder to its remote ID.
	Files map[string]string
}

func newFolderRecord(path FolderPath, id string) *FolderRecord {
	return &FolderRecord{Path: path, ID: id, Files: map[string]string{}}
}

// LibraryFile is a file that exists in the library.
type LibraryFile struct {
	Folder FolderPath
	Name   string
	ID     string
}

// TreeStats summarizes the work done by Library.SyncTree.
type TreeStats struct {
	Directories    int
	UploadCalls    int
	FilesUploaded  int
	FilesSkipped   int
	FoldersCreated int
}

// Library mirrors a local directory tree into a Galaxy data library.
// It keeps an in-memory copy of the library's folders and files so that
// files that already exist remotely aren't uploaded again.
type Library struct {
	ID   string
	Name string

	client  galaxy.LibraryClient
	folders map[FolderPath]*FolderRecord

	foldersCreated int
}

// ResolveLibrary finds the library named `name`, or creates it if it doesn't
// exist. The contents of an existing library are enumerated so that they
// aren't uploaded again.
func ResolveLibrary(client galaxy.LibraryClient, name, description string) (*Library, error) {
	libraries, err := client.GetLibraries(name)
	if err != nil {
		return nil, errors.WithContext(err, "get libraries")
	}

	lib := &Library{
		client: client,
		folders: map[FolderPath]*FolderRecord{
			RootFolder: newFolderRecord(RootFolder, ""),
		},
	}

	switch len(libraries) {
	case 0:
		log.WithField("library", name).Debug("No existing library found, creating")
		created, err := client.CreateLibrary(name, description)
		if err != nil {
			return nil, errors.WithContext(err, "create library")
		}
		lib.ID, lib.Name = created.ID, created.Name
		return lib, nil
	case 1:
	default:
		return nil, errors.AmbiguousLibraryError{Name: name, Count: len(libraries)}
	}

	lib.ID, lib.Name = libraries[0].ID, libraries[0].Name
	log.WithFields(log.Fields{
		"library": lib.Name,
		"id":      lib.ID,
	}).Debug("Existing library found, enumerating contents")

	if err := lib.enumerate(); err != nil {
		return nil, errors.WithContext(err, "enumerate library")
	}
	return lib, nil
}

func (lib *Library) enumerate() error {
	items, err := lib.client.ShowLibraryContents(lib.ID)
	if err != nil {
		return errors.WithContext(err, "list contents")
	}

	// Register all the folders before the files so that files listed before
	// their folder are still placed correctly.
	var files []galaxy.LibraryItem
	for _, item := range items {
		switch item.Type {
		case galaxy.ItemTypeFolder:
			path := NewFolderPath(item.Name)
			if path.IsRoot() {
				continue
			}

			if item.ID == "" {
				log.WithField("folder", path).Warn("Library folder has no ID. Ignoring it.")
				continue
			}

			if existing, ok := lib.folders[path]; ok {
				log.WithFields(log.Fields{
					"folder":     path,
					"id":         item.ID,
					"existingID": existing.ID,
				}).Debug("Ignoring duplicate folder in library listing")
				continue
			}
			lib.folders[path] = newFolderRecord(path, item.ID)
		case galaxy.ItemTypeFile:
			files = append(files, item)
		default:
			log.WithFields(log.Fields{
				"name": item.Name,
				"type": item.Type,
			}).Warn("Library item is neither a file nor a folder. Ignoring it.")
		}
	}

	lib.checkFolderParents()

	for _, item := range files {
		folderPath, name, ok := SplitRemotePath(item.Name)
		if !ok {
			log.WithField("name", item.Name).Warn(
				"Library file has no parent folder. Ignoring it.")
			continue
		}

		folder, ok := lib.folders[folderPath]
		if !ok {
			log.WithFields(log.Fields{
				"name":   item.Name,
				"folder": folderPath,
			}).Warn("Library file is in a folder that wasn't listed. Ignoring it.")
			continue
		}

		if existingID, ok := folder.Files[name]; ok {
			log.WithFields(log.Fields{
				"name":       item.Name,
				"id":         item.ID,
				"existingID": existingID,
			}).Debug("Ignoring duplicate file in library listing")
			continue
		}
		folder.Files[name] = item.ID
	}

	log.WithFields(log.Fields{
		"library": lib.Name,
		"folders": len(lib.folders),
		"files":   len(files),
	}).Debug("Enumerated library contents")
	return nil
}

// FilePresent returns whether the local file at `fullPath` already exists in
// the library.
func (lib *Library) FilePresent(entrypoint, fullPath string) (bool, error) {
	key, err := FolderKey(entrypoint, fullPath)
	if err != nil {
		return false, err
	}

	folder, ok := lib.folders[key]
	if !ok {
		return false, nil
	}

	_, ok = folder.Files[filepath.Base(fullPath)]
	return ok, nil
}

// EnsureFolder returns the ID of the folder at `path`, creating it and any
// missing parent folders. The root folder has an empty ID.
func (lib *Library) EnsureFolder(path FolderPath) (string, error) {
	if path.IsRoot() {
		return "", nil
	}

	if folder, ok := lib.folders[path]; ok {
		return folder.ID, nil
	}

	var parentID string
	for _, ancestor := range path.Ancestors() {
		if folder, ok := lib.folders[ancestor]; ok {
			parentID = folder.ID
			continue
		}

		created, err := lib.client.CreateFolder(lib.ID, ancestor.Base(), parentID)
		if err != nil {
			return "", errors.WithContext(err, fmt.Sprintf("create folder %s", ancestor))
		}
		if created.ID == "" {
			return "", errors.WithContext(errors.MissingFieldError{Field: "id"},
				fmt.Sprintf("create folder %s", ancestor))
		}

		log.WithFields(log.Fields{
			"folder": ancestor,
			"id":     created.ID,
		}).Debug("Created folder")
		lib.folders[ancestor] = newFolderRecord(ancestor, created.ID)
		lib.foldersCreated++
		parentID = created.ID
	}
	return parentID, nil
}

// checkFolderParents warns about folders whose parent folder wasn't listed.
// EnsureFolder would create a second copy of the missing parent.
func (lib *Library) checkFolderParents() {
	var paths []FolderPath
	for path := range lib.folders {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	for _, path := range paths {
		ancestors := path.Ancestors()
		if len(ancestors) < 2 {
			continue
		}

		parent := ancestors[len(ancestors)-2]
		if _, ok := lib.folders[parent]; !ok {
			log.WithFields(log.Fields{
				"folder": path,
				"parent": parent,
			}).Warn("Library folder's parent wasn't listed.")
		}
	}
}

// SyncTree uploads the files within `entrypoint` that aren't already in the
// library. Files are uploaded with one request per directory, and
// directories without new files don't cause any requests.
func (lib *Library) SyncTree(entrypoint string) (TreeStats, error) {
	var stats TreeStats
	foldersBefore := lib.foldersCreated

	err := WalkTree(entrypoint, func(dir Directory) error {
		stats.Directories++

		key, err := DirKey(entrypoint, dir.Path)
		if err != nil {
			return err
		}

		var toUpload []string
		for _, path := range dir.Files {
			present, err := lib.FilePresent(entrypoint, path)
			if err != nil {
				return err
			}

			if present {
				log.WithField("path", path).Debug("File already in library")
				stats.FilesSkipped++
				continue
			}
			toUpload = append(toUpload, path)
		}

		if len(toUpload) == 0 {
			return nil
		}

		uploaded, err := lib.uploadBatch(key, toUpload)
		if err != nil {
			return errors.WithContext(err, fmt.Sprintf("upload to %s", key))
		}
		stats.UploadCalls++
		stats.FilesUploaded += uploaded
		return nil
	})
	stats.FoldersCreated = lib.foldersCreated - foldersBefore
	return stats, err
}

func (lib *Library) uploadBatch(key FolderPath, paths []string) (int, error) {
	folderID, err := lib.EnsureFolder(key)
	if err != nil {
		return 0, errors.WithContext(err, "ensure folder")
	}

	log.WithFields(log.Fields{
		"folder": key,
		"count":  len(paths),
	}).Debug("Uploading files")

	datasets, err := lib.client.UploadFromFilesystem(lib.ID, strings.Join(paths, "\n"), folderID, true)
	if err != nil {
		return 0, err
	}

	folder := lib.folders[key]
	for _, dataset := range datasets {
		folder.Files[dataset.Name] = dataset.ID
	}
	return len(datasets), nil
}

// Files returns every file known to be in the library, sorted by folder and
// then by name.
func (lib *Library) Files() []LibraryFile {
	var files []LibraryFile
	for _, folder := range lib.folders {
		for name, id := range folder.Files {
			files = append(files, LibraryFile{Folder: folder.Path, Name: name, ID: id})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Folder != files[j].Folder {
			return files[i].Folder < files[j].Folder
		}
		return files[i].Name < files[j].Name
	})
	return files
}

// Folder returns a copy of the record for the folder at `path`.
func (lib *Library) Folder(path FolderPath) (FolderRecord, bool) {
	folder, ok := lib.folders[path]
	if !ok {
		return FolderRecord{}, false
	}

	files := map[string]string{}
	for name, id := range folder.Files {
		files[name] = id
	}
	return FolderRecord{Path: folder.Path, ID: folder.ID, Files: files}, true
}
