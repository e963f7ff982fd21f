package galaxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"

	"github.com/sidkik/galaxysync/pkg/errors"
	"github.com/sidkik/galaxysync/pkg/version"
)

const (
	apiKeyHeader = "x-api-key"

	// DefaultTimeout bounds a single API call. Uploads from the server's
	// filesystem are only linked, but Galaxy still stats every path in the
	// request before responding, so this is generous.
	DefaultTimeout = 5 * time.Minute

	// MinimumVersion is the oldest Galaxy release whose library and history
	// APIs behave the way this client expects.
	MinimumVersion = "19.05"
)

// ErrEmptyAddress is returned when the client is created without a server
// address.
var ErrEmptyAddress = errors.NewFriendlyError("A Galaxy server address is required.\n" +
	"Set it with `galaxysync config --address <url>` or pass --address.")

// APIError is returned when Galaxy responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (err APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("galaxy API error (status %d)", err.StatusCode)
	}
	return fmt.Sprintf("galaxy API error (status %d): %s", err.StatusCode, err.Message)
}

type httpClient struct {
	address string
	apiKey  string
	timeout time.Duration

	httpClient *http.Client

	// rootFolders caches the root folder ID of each library, keyed by
	// library ID. Galaxy requires an explicit parent when creating a folder.
	rootFolders map[string]string
}

// New returns a Client that talks to the Galaxy server at `address` over
// HTTP, authenticating with `apiKey`.
func New(address, apiKey string) (Client, error) {
	if address == "" {
		return nil, ErrEmptyAddress
	}

	if _, err := url.Parse(address); err != nil {
		return nil, errors.WithContext(err, "parse address")
	}

	return &httpClient{
		address:     strings.TrimRight(address, "/"),
		apiKey:      apiKey,
		timeout:     DefaultTimeout,
		httpClient:  &http.Client{},
		rootFolders: map[string]string{},
	}, nil
}

func (c *httpClient) GetLibraries(name string) ([]Library, error) {
	var libraries []Library
	query := url.Values{"deleted": {"false"}}
	if err := c.do(http.MethodGet, "/api/libraries", query, nil, &libraries); err != nil {
		return nil, err
	}

	// Older Galaxy releases ignore the deleted filter, and none of them
	// filter by name, so both are applied here.
	var matches []Library
	for _, library := range libraries {
		if library.Deleted || library.Name != name {
			continue
		}
		if err := library.validate(); err != nil {
			return nil, errors.WithContext(err, "invalid library")
		}
		matches = append(matches, library)
	}
	return matches, nil
}

func (c *httpClient) CreateLibrary(name, description string) (Library, error) {
	req := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}{name, description}

	var library Library
	if err := c.do(http.MethodPost, "/api/libraries", nil, req, &library); err != nil {
		return Library{}, err
	}
	if err := library.validate(); err != nil {
		return Library{}, errors.WithContext(err, "invalid library")
	}
	return library, nil
}

func (c *httpClient) ShowLibraryContents(libraryID string) ([]LibraryItem, error) {
	var items []LibraryItem
	endpoint := fmt.Sprintf("/api/libraries/%s/contents", url.PathEscape(libraryID))
	if err := c.do(http.MethodGet, endpoint, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *httpClient) CreateFolder(libraryID, name, parentID string) (Folder, error) {
	if parentID == "" {
		rootID, err := c.getRootFolder(libraryID)
		if err != nil {
			return Folder{}, errors.WithContext(err, "get root folder")
		}
		parentID = rootID
	}

	req := struct {
		CreateType string `json:"create_type"`
		FolderID   string `json:"folder_id"`
		Name       string `json:"name"`
	}{"folder", parentID, name}

	var folders []Folder
	endpoint := fmt.Sprintf("/api/libraries/%s/contents", url.PathEscape(libraryID))
	if err := c.do(http.MethodPost, endpoint, nil, req, &folders); err != nil {
		return Folder{}, err
	}

	if len(folders) == 0 {
		return Folder{}, errors.WithContext(errors.MissingFieldError{Field: "id"}, "invalid folder")
	}
	if err := folders[0].validate(); err != nil {
		return Folder{}, errors.WithContext(err, "invalid folder")
	}
	return folders[0], nil
}

func (c *httpClient) UploadFromFilesystem(libraryID, paths, folderID string, linkOnly bool) (
	[]LibraryDataset, error) {

	if folderID == "" {
		rootID, err := c.getRootFolder(libraryID)
		if err != nil {
			return nil, errors.WithContext(err, "get root folder")
		}
		folderID = rootID
	}

	req := struct {
		CreateType      string `json:"create_type"`
		UploadOption    string `json:"upload_option"`
		FilesystemPaths string `json:"filesystem_paths"`
		FolderID        string `json:"folder_id"`
		FileType        string `json:"file_type"`
		DBKey           string `json:"dbkey"`
		LinkDataOnly    string `json:"link_data_only,omitempty"`
	}{
		CreateType:      "file",
		UploadOption:    "upload_paths",
		FilesystemPaths: paths,
		FolderID:        folderID,
		FileType:        "auto",
		DBKey:           "?",
	}
	if linkOnly {
		req.LinkDataOnly = "link_to_files"
	}

	var datasets []LibraryDataset
	endpoint := fmt.Sprintf("/api/libraries/%s/contents", url.PathEscape(libraryID))
	if err := c.do(http.MethodPost, endpoint, nil, req, &datasets); err != nil {
		return nil, err
	}

	for _, dataset := range datasets {
		if err := dataset.validate(); err != nil {
			return nil, errors.WithContext(err, "invalid uploaded dataset")
		}
	}
	return datasets, nil
}

func (c *httpClient) getRootFolder(libraryID string) (string, error) {
	if id, ok := c.rootFolders[libraryID]; ok {
		return id, nil
	}

	var library Library
	endpoint := fmt.Sprintf("/api/libraries/%s", url.PathEscape(libraryID))
	if err := c.do(http.MethodGet, endpoint, nil, nil, &library); err != nil {
		return "", err
	}
	if library.RootFolderID == "" {
		return "", errors.MissingFieldError{Field: "root_folder_id"}
	}

	c.rootFolders[libraryID] = library.RootFolderID
	return library.RootFolderID, nil
}

func (c *httpClient) GetHistories(name string) ([]History, error) {
	query := url.Values{
		"deleted": {"false"},
		"q":       {"name-contains"},
		"qv":      {name},
		"keys":    {"id,name,tags,deleted"},
	}

	var histories []History
	if err := c.do(http.MethodGet, "/api/histories", query, nil, &histories); err != nil {
		return nil, err
	}

	var active []History
	for _, history := range histories {
		if history.Deleted {
			continue
		}
		if err := history.validate(); err != nil {
			return nil, errors.WithContext(err, "invalid history")
		}
		active = append(active, history)
	}
	return active, nil
}

func (c *httpClient) CreateHistory(name string) (History, error) {
	req := struct {
		Name string `json:"name"`
	}{name}

	var history History
	if err := c.do(http.MethodPost, "/api/histories", nil, req, &history); err != nil {
		return History{}, err
	}
	if err := history.validate(); err != nil {
		return History{}, errors.WithContext(err, "invalid history")
	}
	return history, nil
}

func (c *httpClient) CreateHistoryTag(historyID, tag string) error {
	req := struct {
		Value string `json:"value"`
	}{tag}

	endpoint := fmt.Sprintf("/api/histories/%s/tags/%s",
		url.PathEscape(historyID), url.PathEscape(tag))
	return c.do(http.MethodPost, endpoint, nil, req, nil)
}

func (c *httpClient) ShowHistoryContents(historyID string) ([]HistoryDataset, error) {
	query := url.Values{
		"deleted": {"false"},
		"v":       {"dev"},
		"keys":    {"id,name,dataset_id,deleted"},
	}

	var datasets []HistoryDataset
	endpoint := fmt.Sprintf("/api/histories/%s/contents", url.PathEscape(historyID))
	if err := c.do(http.MethodGet, endpoint, query, nil, &datasets); err != nil {
		return nil, err
	}

	var active []HistoryDataset
	for _, dataset := range datasets {
		if !dataset.Deleted {
			active = append(active, dataset)
		}
	}
	return active, nil
}

func (c *httpClient) UploadDatasetFromLibrary(historyID, libraryDatasetID string) (HistoryDataset, error) {
	req := struct {
		Type    string `json:"type"`
		Source  string `json:"source"`
		Content string `json:"content"`
	}{"dataset", "library", libraryDatasetID}

	var dataset HistoryDataset
	endpoint := fmt.Sprintf("/api/histories/%s/contents", url.PathEscape(historyID))
	if err := c.do(http.MethodPost, endpoint, nil, req, &dataset); err != nil {
		return HistoryDataset{}, err
	}
	if err := dataset.validate(); err != nil {
		return HistoryDataset{}, errors.WithContext(err, "invalid history dataset")
	}
	return dataset, nil
}

func (c *httpClient) GetVersion() (string, error) {
	var resp struct {
		VersionMajor string `json:"version_major"`
	}
	if err := c.do(http.MethodGet, "/api/version", nil, nil, &resp); err != nil {
		return "", err
	}
	if resp.VersionMajor == "" {
		return "", errors.MissingFieldError{Field: "version_major"}
	}
	return resp.VersionMajor, nil
}

// CheckVersion returns an error if the Galaxy server is older than
// MinimumVersion.
func CheckVersion(c Client) error {
	remote, err := c.GetVersion()
	if err != nil {
		return errors.WithContext(err, "get version")
	}

	remoteVersion, err := goversion.NewVersion(remote)
	if err != nil {
		return errors.WithContext(err, "parse version")
	}

	minVersion := goversion.Must(goversion.NewVersion(MinimumVersion))
	if remoteVersion.LessThan(minVersion) {
		return errors.NewFriendlyError("The Galaxy server is running version %s, "+
			"but galaxysync requires at least version %s.", remote, MinimumVersion)
	}
	return nil
}

func (c *httpClient) do(method, endpoint string, query url.Values, reqBody, respBody interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var body io.Reader
	if reqBody != nil {
		bodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			return errors.WithContext(err, "marshal request")
		}
		body = bytes.NewReader(bodyBytes)
	}

	reqURL := c.address + endpoint
	if len(query) != 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return errors.WithContext(err, "create request")
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.WithFields(log.Fields{
		"method":   method,
		"endpoint": endpoint,
	}).Debug("Galaxy API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithContext(err, fmt.Sprintf("%s %s", method, endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}

	if respBody == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return errors.WithContext(err, "decode response")
	}
	return nil
}

func parseError(resp *http.Response) error {
	apiErr := APIError{StatusCode: resp.StatusCode}

	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var errResp struct {
		ErrMsg  string `json:"err_msg"`
		ErrCode int    `json:"err_code"`
	}
	if err := json.Unmarshal(bodyBytes, &errResp); err != nil {
		apiErr.Message = strings.TrimSpace(string(bodyBytes))
		return apiErr
	}

	apiErr.Message = errResp.ErrMsg
	apiErr.Code = errResp.ErrCode
	return apiErr
}
