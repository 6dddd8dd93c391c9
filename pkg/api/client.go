package api

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/framehubio/framehub/api/types/annotations"
	"github.com/framehubio/framehub/api/types/datasets"
	"github.com/framehubio/framehub/api/types/items"
	"github.com/framehubio/framehub/api/types/projects"
	"github.com/framehubio/framehub/api/types/tags"
	"github.com/framehubio/framehub/api/types/tasks"
	"github.com/framehubio/framehub/api/types/workspaces"
	"github.com/framehubio/framehub/pkg/config/profiles"
)

// header carrying the API token on every request.
const TokenHeader = "x-api-token"

// Client is a connection to the Framehub platform API.
type Client interface {
	// ListWorkspaces lists workspaces the token can see.
	ListWorkspaces(ctx context.Context) ([]workspaces.Summary, error)

	// FindProjects finds projects in a workspace.
	//
	// # Args
	//
	// - context.Context
	//
	// - int: workspace to search in. 0 means all workspaces.
	//
	// - []tags.Tag: tags which projects to be found have. Can be empty.
	//
	// # Returns
	//
	// - []projects.Summary: metadata of found projects
	//
	// - error
	FindProjects(ctx context.Context, workspaceId int, tag []tags.Tag) ([]projects.Summary, error)

	// GetProject gets project detail with given projectId.
	GetProject(ctx context.Context, projectId int) (projects.Detail, error)

	// CreateProject registers a new project.
	//
	// # Args
	//
	// - context.Context
	//
	// - projects.Spec: spec of project to be registered
	//
	// # Returns
	//
	// - projects.Detail: metadata of created project
	//
	// - error
	CreateProject(ctx context.Context, spec projects.Spec) (projects.Detail, error)

	// DeleteProject deletes project with given projectId.
	//
	// Datasets and items in it are deleted together, server side.
	DeleteProject(ctx context.Context, projectId int) error

	// UpdateProjectTags sets/removes tags on a project.
	//
	// # Args
	//
	// - context.Context
	//
	// - int: projectId to be (un)tagged.
	//
	// - tags.Change: adding/removing tags.
	//
	// # Returns
	//
	// - projects.Detail: metadata of updated project
	//
	// - error
	UpdateProjectTags(ctx context.Context, projectId int, change tags.Change) (projects.Detail, error)

	// GetProjectMeta gets the annotation schema of a project.
	GetProjectMeta(ctx context.Context, projectId int) (projects.Meta, error)

	// UpdateProjectMeta replaces the annotation schema of a project.
	//
	// # Returns
	//
	// - projects.Meta: the schema as stored
	//
	// - error
	UpdateProjectMeta(ctx context.Context, projectId int, meta projects.Meta) (projects.Meta, error)

	// ListDatasets lists datasets of a project.
	ListDatasets(ctx context.Context, projectId int) ([]datasets.Summary, error)

	// CreateDataset registers a new dataset.
	CreateDataset(ctx context.Context, spec datasets.Spec) (datasets.Summary, error)

	// DeleteDataset deletes dataset with given datasetId.
	DeleteDataset(ctx context.Context, datasetId int) error

	// FindImages finds images in a dataset, optionally filtered by tags.
	FindImages(ctx context.Context, datasetId int, tag []tags.Tag) ([]items.Image, error)

	// GetImage gets image metadata with given imageId.
	GetImage(ctx context.Context, imageId int) (items.Image, error)

	// CheckImageHashes asks which of the given content hashes the
	// platform already stores.
	//
	// # Args
	//
	// - context.Context
	//
	// - []string: content hashes (base64 of sha256) to be checked.
	//
	// # Returns
	//
	// - []string: the subset of hashes already stored remotely
	//
	// - error
	CheckImageHashes(ctx context.Context, hashes []string) ([]string, error)

	// AddImagesByHash registers images pointing at content already
	// stored remotely, without uploading bytes.
	AddImagesByHash(ctx context.Context, datasetId int, refs []items.HashRef) ([]items.Image, error)

	// AddImagesByLink registers images pointing at remote URLs.
	AddImagesByLink(ctx context.Context, datasetId int, refs []items.LinkRef) ([]items.Image, error)

	// UploadImages registers local files as images of a dataset.
	//
	// Content is deduplicated by hash: bytes stored remotely already
	// (even under another name) are registered without re-upload. See
	// UploadFile and UploadOption.
	//
	// # Returns
	//
	// - []items.Image: metadata of registered images, in input order
	//
	// - error
	UploadImages(ctx context.Context, datasetId int, files []UploadFile, options ...UploadOption) ([]items.Image, error)

	// DownloadImage downloads image content and verifies its checksum.
	//
	// # Args
	//
	// - imageId: identifier of image to be downloaded
	//
	// - handler: function to be called for the raw stream.
	// If handler returns an error, downloading is stopped and the error
	// is returned.
	//
	// # Returns
	//
	// - error: error occurred when downloading, or ErrChecksumUnmatch
	// when the stream does not match the server-sent checksum.
	DownloadImage(ctx context.Context, imageId int, handler func(io.Reader) error) error

	// FindVideos finds videos in a dataset, optionally filtered by tags.
	FindVideos(ctx context.Context, datasetId int, tag []tags.Tag) ([]items.Video, error)

	// GetVideo gets video metadata with given videoId.
	GetVideo(ctx context.Context, videoId int) (items.Video, error)

	// AddVideosByLink registers videos pointing at remote URLs.
	AddVideosByLink(ctx context.Context, datasetId int, refs []items.LinkRef) ([]items.Video, error)

	// UploadVideos registers local files as videos of a dataset,
	// with the same hash-dedup behaviour as UploadImages.
	UploadVideos(ctx context.Context, datasetId int, files []UploadFile, options ...UploadOption) ([]items.Video, error)

	// GetAnnotation gets the annotation of an item.
	GetAnnotation(ctx context.Context, itemId int) (annotations.Annotation, error)

	// PutAnnotation stores the annotation of an item, replacing the
	// previous one.
	PutAnnotation(ctx context.Context, itemId int, ann annotations.Annotation) error

	// BulkGetAnnotations gets annotations of many items at once.
	//
	// Items without annotation are omitted from the result.
	BulkGetAnnotations(ctx context.Context, itemIds []int) ([]annotations.Annotation, error)

	// BulkPutAnnotations stores many annotations, batching requests.
	BulkPutAnnotations(ctx context.Context, anns []annotations.Annotation) error

	// ExportProjectRaw downloads a project export (tar+gzip) and
	// verifies its checksum.
	//
	// # Args
	//
	// - projectId: project to be exported
	//
	// - handler: function to be called for raw stream.
	// If handler returns an error, downloading is stopped and the error
	// is returned.
	ExportProjectRaw(ctx context.Context, projectId int, handler func(io.Reader) error) error

	// ExportProject downloads a project export and extracts it.
	//
	// # Args
	//
	// - projectId: project to be exported
	//
	// - handler: function to be called for each file in the export.
	ExportProject(ctx context.Context, projectId int, handler func(FileEntry) error) error

	// FindTasks finds tasks in a workspace.
	FindTasks(ctx context.Context, workspaceId int, filter tasks.Filter) ([]tasks.Detail, error)

	// GetTask gets task detail with given taskId.
	GetTask(ctx context.Context, taskId int) (tasks.Detail, error)

	// GetTaskStatus gets the current status of a task.
	GetTaskStatus(ctx context.Context, taskId int) (tasks.Status, error)

	// StartTask queues a new task.
	//
	// # Returns
	//
	// - int: id of the queued task
	//
	// - error
	StartTask(ctx context.Context, spec tasks.Spec) (int, error)

	// StopTask asks the platform to stop a task.
	//
	// # Returns
	//
	// - tasks.Status: status just after the request (usually terminating)
	//
	// - error
	StopTask(ctx context.Context, taskId int) (tasks.Status, error)

	// TaskLog opens the log stream of a task.
	//
	// # Args
	//
	// - int: taskId
	//
	// - bool: follow. When true, the stream stays open while the task runs.
	//
	// # Returns
	//
	// - io.ReadCloser: stream of log
	//
	// - error
	TaskLog(ctx context.Context, taskId int, follow bool) (io.ReadCloser, error)

	// WaitTask polls the task status until it reaches target or any
	// terminal status. See WaitOption for tuning.
	//
	// # Returns
	//
	// - tasks.Status: the last observed status
	//
	// - error: ErrTaskFailed when the task ends in error status,
	// ErrWaitTimeout when attempts are exhausted, ctx.Err() on cancel.
	WaitTask(ctx context.Context, taskId int, target tasks.Status, options ...WaitOption) (tasks.Status, error)

	// SetTaskFields patches the field store of a task.
	SetTaskFields(ctx context.Context, taskId int, fields []tasks.Field) error

	// SetTaskField patches a single field. payload is marshalled to JSON.
	SetTaskField(ctx context.Context, taskId int, field string, payload any, appendMode bool, recursive bool) error

	// GetTaskFields reads fields of a task by name.
	//
	// # Returns
	//
	// - map[string]json.RawMessage: payloads keyed by field name.
	// Fields never set are omitted.
	//
	// - error
	GetTaskFields(ctx context.Context, taskId int, fields []string) (map[string]json.RawMessage, error)

	// GetTaskField reads one field and unmarshals it into v.
	GetTaskField(ctx context.Context, taskId int, field string, v any) error

	// SendTaskRequest sends a command to the agent running a task and
	// returns its response payload.
	//
	// This is the request/response channel driving remote agents
	// (deployed models, user applications). See RequestOption.
	//
	// # Returns
	//
	// - json.RawMessage: response payload. nil when SkipResponse is set.
	//
	// - error
	SendTaskRequest(ctx context.Context, taskId int, command string, state any, options ...RequestOption) (json.RawMessage, error)

	// TrainingMetrics fetches metric series a training task reported.
	TrainingMetrics(ctx context.Context, taskId int) (Metrics, error)

	// SetTaskOutput sets the output card of a task (project reference,
	// report, error, ...).
	SetTaskOutput(ctx context.Context, taskId int, output TaskOutput) error

	// UploadTaskFiles stages local files for a task, deduplicating
	// content by hash.
	//
	// # Args
	//
	// - int: taskId the files belong to
	//
	// - []UploadFile: files to be staged. Name is the path the task
	// will see.
	//
	// - func(int): progress callback, called with the number of files
	// settled so far. Can be nil.
	UploadTaskFiles(ctx context.Context, taskId int, files []UploadFile, progress func(settled int)) error

	// PostImportArchive archives a local directory and uploads it as
	// the input of an import task, in background.
	//
	// # Args
	//
	// - context.Context
	//
	// - int: taskId of the import task
	//
	// - string: path to directory to be uploaded
	//
	// - bool: dereference. When true symlinks are followed.
	//
	// # Returns
	//
	// - Progress[*tasks.Detail]: progress of archiving/uploading, and
	// the updated task when done.
	PostImportArchive(ctx context.Context, taskId int, source string, dereference bool) Progress[*tasks.Detail]
}

type client struct {
	httpclient *http.Client
	api        string
	token      string
}

// create new api client for Profile.
//
// # Args
//
// - *profiles.Profile
//
// # Returns
//
// - Client: created client
//
// - error: If given profile is invalid, profiles.ErrProfileInvalid is returned.
func NewClient(prof *profiles.Profile) (Client, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}
	httpclient := new(http.Client)

	if prof.Cert.CA != "" {
		hc, err := trustCa(httpclient, []string{prof.Cert.CA})
		if err != nil {
			return nil, err
		}
		httpclient = hc
	}

	c := &client{
		httpclient: httpclient,
		api:        strings.TrimSuffix(prof.ApiRoot, "/"),
		token:      prof.Token,
	}

	return c, nil
}

// FromEnv creates a client from environment variables, loading `.env`
// files first. See profiles.FromEnv.
func FromEnv() (Client, error) {
	prof, err := profiles.FromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(prof)
}

// build URL with path
func (c *client) apipath(path ...string) string {
	for i, p := range path {
		path[i] = strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	}

	return strings.Join(append([]string{c.api}, path...), "/")
}

// do sends req with the token header set.
func (c *client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}
	return c.httpclient.Do(req)
}

// postJson builds a POST request with a JSON body and sends it.
func (c *client) postJson(ctx context.Context, url string, body any) (*http.Response, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	return c.do(req)
}

// putJson is postJson with PUT.
func (c *client) putJson(ctx context.Context, url string, body any) (*http.Response, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	return c.do(req)
}

func trustCa(hc *http.Client, cacerts []string) (*http.Client, error) {
	if len(cacerts) <= 0 {
		return hc, nil
	}

	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}

	tran, ok := hc.Transport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("failed to add ca cert")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}

	rootcas := tcc.RootCAs
	if rootcas == nil {
		rootcas = x509.NewCertPool()
		tcc.RootCAs = rootcas
	}
	for _, ca := range cacerts {
		bin, err := base64.StdEncoding.DecodeString(ca)
		if err != nil {
			return nil, err
		}

		if !rootcas.AppendCertsFromPEM(bin) {
			return nil, fmt.Errorf("failed to add cert")
		}
	}

	tran.TLSClientConfig = tcc
	hc.Transport = tran
	return hc, nil
}
