package sync

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/sidkik/galaxysync/pkg/errors"
	"github.com/sidkik/galaxysync/pkg/galaxy"
)

const (
	// MarkerTag is added to every history created by galaxysync so that
	// they can be told apart from histories created by users.
	MarkerTag = "GalaxySynced"

	// TimestampLayout is the format of the timestamp tag, and of the
	// timestamp suffix of generated history names. It's fixed width, so
	// sorting timestamps as strings sorts them by time.
	TimestampLayout = "2006-01-02 15:04:05 UTC"
)

// Mocked out for unit testing.
var clock = clockwork.NewRealClock()

// HistoryState is the stage of resolving which history to sync into.
type HistoryState int

const (
	Unresolved HistoryState = iota
	Resolving
	Reusing
	Creating
	Ready
)

func (s HistoryState) String() string {
	switch s {
	case Unresolved:
		return "Unresolved"
	case Resolving:
		return "Resolving"
	case Reusing:
		return "Reusing"
	case Creating:
		return "Creating"
	case Ready:
		return "Ready"
	}
	return fmt.Sprintf("HistoryState(%d)", int(s))
}

// Attachment is a library file that's been imported into the history.
type Attachment struct {
	// ID is the ID of the dataset within the history.
	ID   string
	Name string
}

// History exposes the files of a Library in a Galaxy history. It tracks the
// library files that have already been imported so that re-running the sync
// doesn't import them twice.
type History struct {
	ID   string
	Name string
	Tags []string

	client galaxy.HistoryClient
	state  HistoryState

	// reused is set if the history existed before this sync.
	reused bool

	// attachments maps the ID of each imported library file to its dataset
	// in the history.
	attachments map[string]Attachment
}

// IsTimestampTag returns whether `tag` is a timestamp in TimestampLayout.
// Timestamps are compared as strings, so they must be fixed width.
func IsTimestampTag(tag string) bool {
	if len(tag) != len(TimestampLayout) {
		return false
	}
	_, err := time.Parse(TimestampLayout, tag)
	return err == nil
}

// FormatTimestamp formats `t` in UTC according to TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

type candidate struct {
	history      galaxy.History
	timestampTag string
}

// ResolveHistory finds the newest history created by galaxysync whose name
// starts with `baseName`. If there isn't one, a new history is created and
// tagged.
func ResolveHistory(client galaxy.HistoryClient, baseName string) (*History, error) {
	h := &History{
		client:      client,
		state:       Unresolved,
		attachments: map[string]Attachment{},
	}

	h.state = Resolving
	found, err := client.GetHistories(baseName)
	if err != nil {
		return nil, errors.WithContext(err, "get histories")
	}

	var candidates []candidate
	for _, history := range found {
		if !strings.HasPrefix(history.Name, baseName) || !hasTag(history.Tags, MarkerTag) {
			continue
		}

		c := candidate{history: history}
		for _, tag := range history.Tags {
			if IsTimestampTag(tag) {
				c.timestampTag = tag
				break
			}
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		h.state = Creating
		if err := h.create(baseName); err != nil {
			return nil, err
		}
		h.state = Ready
		return h, nil
	}

	chosen := candidates[0]
	if len(candidates) > 1 {
		chosen = pickNewest(baseName, candidates)
	}

	h.state = Reusing
	h.ID, h.Name, h.Tags = chosen.history.ID, chosen.history.Name, chosen.history.Tags
	h.reused = true
	if err := h.enumerate(); err != nil {
		return nil, errors.WithContext(err, "enumerate history")
	}
	h.state = Ready
	return h, nil
}

// pickNewest chooses the candidate with the most recent timestamp tag.
// Candidates without a timestamp tag are considered older than all others.
func pickNewest(baseName string, candidates []candidate) candidate {
	sorted := append([]candidate{}, candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].timestampTag > sorted[j].timestampTag
	})

	var ids []string
	for _, c := range sorted {
		ids = append(ids, fmt.Sprintf("%s (%s)", c.history.Name, c.history.ID))
	}

	chosen := sorted[0]
	log.WithFields(log.Fields{
		"prefix":     baseName,
		"candidates": strings.Join(ids, ", "),
		"chosen":     chosen.history.ID,
	}).Warn("Multiple synced histories found. Picking the newest one.")
	return chosen
}

func (h *History) create(baseName string) error {
	timestamp := FormatTimestamp(clock.Now())
	name := fmt.Sprintf("%s @ %s", baseName, timestamp)

	log.WithField("history", name).Debug("Creating history")
	created, err := h.client.CreateHistory(name)
	if err != nil {
		return errors.WithContext(err, "create history")
	}
	h.ID, h.Name = created.ID, created.Name

	for _, tag := range []string{MarkerTag, timestamp} {
		if err := h.client.CreateHistoryTag(h.ID, tag); err != nil {
			return errors.WithContext(err, fmt.Sprintf("tag history with %q", tag))
		}
		h.Tags = append(h.Tags, tag)
	}
	return nil
}

func (h *History) enumerate() error {
	datasets, err := h.client.ShowHistoryContents(h.ID)
	if err != nil {
		return errors.WithContext(err, "list contents")
	}

	for _, dataset := range datasets {
		if dataset.DatasetID == "" {
			log.WithField("name", dataset.Name).Debug(
				"History dataset wasn't imported from a library. Ignoring it.")
			continue
		}
		h.attachments[dataset.DatasetID] = Attachment{ID: dataset.ID, Name: dataset.Name}
	}
	return nil
}

// State returns how far the history has been resolved.
func (h *History) State() HistoryState {
	return h.state
}

// Reused returns whether the history existed before this sync.
func (h *History) Reused() bool {
	return h.reused
}

// Attached returns whether the library file with ID `fileID` has been
// imported into the history.
func (h *History) Attached(fileID string) bool {
	_, ok := h.attachments[fileID]
	return ok
}

// Diff returns the files that haven't been imported into the history yet.
// `files` isn't modified.
func (h *History) Diff(files []LibraryFile) (toAttach []LibraryFile) {
	seen := map[string]struct{}{}
	for _, f := range files {
		if _, ok := seen[f.ID]; ok {
			continue
		}
		seen[f.ID] = struct{}{}

		if !h.Attached(f.ID) {
			toAttach = append(toAttach, f)
		}
	}
	return toAttach
}

// Reconcile imports the library files that aren't in the history yet. It
// returns the number of files that were imported, even if it fails partway.
func (h *History) Reconcile(files []LibraryFile) (int, error) {
	if h.state != Ready {
		return 0, errors.New(fmt.Sprintf("history is %s, not Ready", h.state))
	}

	var attached int
	for _, f := range h.Diff(files) {
		dataset, err := h.client.UploadDatasetFromLibrary(h.ID, f.ID)
		if err != nil {
			return attached, errors.WithContext(err, fmt.Sprintf("import %s", remoteFilePath(f)))
		}

		log.WithFields(log.Fields{
			"file":    remoteFilePath(f),
			"dataset": dataset.ID,
		}).Debug("Imported library file into history")
		h.attachments[f.ID] = Attachment{ID: dataset.ID, Name: dataset.Name}
		attached++
	}
	return attached, nil
}

func remoteFilePath(f LibraryFile) string {
	if f.Folder.IsRoot() {
		return "/" + f.Name
	}
	return string(f.Folder) + "/" + f.Name
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
