package mock

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/framehubio/framehub/api/types/annotations"
	"github.com/framehubio/framehub/api/types/datasets"
	"github.com/framehubio/framehub/api/types/items"
	"github.com/framehubio/framehub/api/types/projects"
	"github.com/framehubio/framehub/api/types/tags"
	"github.com/framehubio/framehub/api/types/tasks"
	"github.com/framehubio/framehub/api/types/workspaces"
	"github.com/framehubio/framehub/pkg/api"
)

type FindProjectsArgs struct {
	WorkspaceId int
	Tags        []tags.Tag
}

type UpdateProjectTagsArgs struct {
	ProjectId int
	Change    tags.Change
}

type FindItemsArgs struct {
	DatasetId int
	Tags      []tags.Tag
}

type UploadArgs struct {
	DatasetId int
	Files     []api.UploadFile
}

type WaitTaskArgs struct {
	TaskId int
	Target tasks.Status
}

type SendTaskRequestArgs struct {
	TaskId  int
	Command string
	State   any
}

type PostImportArchiveArgs struct {
	TaskId int
	Source string
}

func New(t *testing.T) *mockClient {
	return &mockClient{t: t}
}

type MockedProgress[T any] struct {
	EstimatedTotalSize_ int64

	ProgressedSize_ int64

	ProgressingFile_ string

	Error_ error

	Result_ T

	ResultOk_ bool

	Done_ <-chan struct{}

	Sent_ <-chan struct{}
}

func (m *MockedProgress[T]) EstimatedTotalSize() int64 {
	return m.EstimatedTotalSize_
}

func (m *MockedProgress[T]) ProgressedSize() int64 {
	return m.ProgressedSize_
}

func (m *MockedProgress[T]) ProgressingFile() string {
	return m.ProgressingFile_
}

func (m *MockedProgress[T]) Result() (T, bool) {
	return m.Result_, m.ResultOk_
}

func (m *MockedProgress[T]) Error() error {
	return m.Error_
}

func (m *MockedProgress[T]) Done() <-chan struct{} {
	return m.Done_
}

func (m *MockedProgress[T]) Sent() <-chan struct{} {
	return m.Sent_
}

type mockClient struct {
	t    *testing.T
	Impl struct {
		ListWorkspaces     func(ctx context.Context) ([]workspaces.Summary, error)
		FindProjects       func(ctx context.Context, workspaceId int, tag []tags.Tag) ([]projects.Summary, error)
		GetProject         func(ctx context.Context, projectId int) (projects.Detail, error)
		CreateProject      func(ctx context.Context, spec projects.Spec) (projects.Detail, error)
		DeleteProject      func(ctx context.Context, projectId int) error
		UpdateProjectTags  func(ctx context.Context, projectId int, change tags.Change) (projects.Detail, error)
		GetProjectMeta     func(ctx context.Context, projectId int) (projects.Meta, error)
		UpdateProjectMeta  func(ctx context.Context, projectId int, meta projects.Meta) (projects.Meta, error)
		ListDatasets       func(ctx context.Context, projectId int) ([]datasets.Summary, error)
		CreateDataset      func(ctx context.Context, spec datasets.Spec) (datasets.Summary, error)
		DeleteDataset      func(ctx context.Context, datasetId int) error
		FindImages         func(ctx context.Context, datasetId int, tag []tags.Tag) ([]items.Image, error)
		GetImage           func(ctx context.Context, imageId int) (items.Image, error)
		CheckImageHashes   func(ctx context.Context, hashes []string) ([]string, error)
		AddImagesByHash    func(ctx context.Context, datasetId int, refs []items.HashRef) ([]items.Image, error)
		AddImagesByLink    func(ctx context.Context, datasetId int, refs []items.LinkRef) ([]items.Image, error)
		UploadImages       func(ctx context.Context, datasetId int, files []api.UploadFile, options ...api.UploadOption) ([]items.Image, error)
		DownloadImage      func(ctx context.Context, imageId int, handler func(io.Reader) error) error
		FindVideos         func(ctx context.Context, datasetId int, tag []tags.Tag) ([]items.Video, error)
		GetVideo           func(ctx context.Context, videoId int) (items.Video, error)
		AddVideosByLink    func(ctx context.Context, datasetId int, refs []items.LinkRef) ([]items.Video, error)
		UploadVideos       func(ctx context.Context, datasetId int, files []api.UploadFile, options ...api.UploadOption) ([]items.Video, error)
		GetAnnotation      func(ctx context.Context, itemId int) (annotations.Annotation, error)
		PutAnnotation      func(ctx context.Context, itemId int, ann annotations.Annotation) error
		BulkGetAnnotations func(ctx context.Context, itemIds []int) ([]annotations.Annotation, error)
		BulkPutAnnotations func(ctx context.Context, anns []annotations.Annotation) error
		ExportProjectRaw   func(ctx context.Context, projectId int, handler func(io.Reader) error) error
		ExportProject      func(ctx context.Context, projectId int, handler func(api.FileEntry) error) error
		FindTasks          func(ctx context.Context, workspaceId int, filter tasks.Filter) ([]tasks.Detail, error)
		GetTask            func(ctx context.Context, taskId int) (tasks.Detail, error)
		GetTaskStatus      func(ctx context.Context, taskId int) (tasks.Status, error)
		StartTask          func(ctx context.Context, spec tasks.Spec) (int, error)
		StopTask           func(ctx context.Context, taskId int) (tasks.Status, error)
		TaskLog            func(ctx context.Context, taskId int, follow bool) (io.ReadCloser, error)
		WaitTask           func(ctx context.Context, taskId int, target tasks.Status, options ...api.WaitOption) (tasks.Status, error)
		SetTaskFields      func(ctx context.Context, taskId int, fields []tasks.Field) error
		SetTaskField       func(ctx context.Context, taskId int, field string, payload any, appendMode bool, recursive bool) error
		GetTaskFields      func(ctx context.Context, taskId int, fields []string) (map[string]json.RawMessage, error)
		GetTaskField       func(ctx context.Context, taskId int, field string, v any) error
		SendTaskRequest    func(ctx context.Context, taskId int, command string, state any, options ...api.RequestOption) (json.RawMessage, error)
		TrainingMetrics    func(ctx context.Context, taskId int) (api.Metrics, error)
		SetTaskOutput      func(ctx context.Context, taskId int, output api.TaskOutput) error
		UploadTaskFiles    func(ctx context.Context, taskId int, files []api.UploadFile, progress func(settled int)) error
		PostImportArchive  func(ctx context.Context, taskId int, source string, dereference bool) api.Progress[*tasks.Detail]
	}
	Calls struct {
		ListWorkspaces     int
		FindProjects       []FindProjectsArgs
		GetProject         []int
		CreateProject      []projects.Spec
		DeleteProject      []int
		UpdateProjectTags  []UpdateProjectTagsArgs
		GetProjectMeta     []int
		UpdateProjectMeta  []int
		ListDatasets       []int
		CreateDataset      []datasets.Spec
		DeleteDataset      []int
		FindImages         []FindItemsArgs
		GetImage           []int
		CheckImageHashes   [][]string
		AddImagesByHash    []int
		AddImagesByLink    []int
		UploadImages       []UploadArgs
		DownloadImage      []int
		FindVideos         []FindItemsArgs
		GetVideo           []int
		AddVideosByLink    []int
		UploadVideos       []UploadArgs
		GetAnnotation      []int
		PutAnnotation      []int
		BulkGetAnnotations [][]int
		BulkPutAnnotations int
		ExportProjectRaw   []int
		ExportProject      []int
		FindTasks          []int
		GetTask            []int
		GetTaskStatus      []int
		StartTask          []tasks.Spec
		StopTask           []int
		TaskLog            []struct {
			TaskId int
			Follow bool
		}
		WaitTask          []WaitTaskArgs
		SetTaskFields     []int
		SetTaskField      []string
		GetTaskFields     [][]string
		GetTaskField      []string
		SendTaskRequest   []SendTaskRequestArgs
		TrainingMetrics   []int
		SetTaskOutput     []api.TaskOutput
		UploadTaskFiles   []int
		PostImportArchive []PostImportArchiveArgs
	}
}

var _ api.Client = &mockClient{}

func (m *mockClient) ListWorkspaces(ctx context.Context) ([]workspaces.Summary, error) {
	m.t.Helper()

	m.Calls.ListWorkspaces += 1
	if m.Impl.ListWorkspaces == nil {
		m.t.Fatal("ListWorkspaces is not ready to be called")
	}
	return m.Impl.ListWorkspaces(ctx)
}

func (m *mockClient) FindProjects(ctx context.Context, workspaceId int, tag []tags.Tag) ([]projects.Summary, error) {
	m.t.Helper()

	m.Calls.FindProjects = append(m.Calls.FindProjects, FindProjectsArgs{workspaceId, tag})
	if m.Impl.FindProjects == nil {
		m.t.Fatal("FindProjects is not ready to be called")
	}
	return m.Impl.FindProjects(ctx, workspaceId, tag)
}

func (m *mockClient) GetProject(ctx context.Context, projectId int) (projects.Detail, error) {
	m.t.Helper()

	m.Calls.GetProject = append(m.Calls.GetProject, projectId)
	if m.Impl.GetProject == nil {
		m.t.Fatal("GetProject is not ready to be called")
	}
	return m.Impl.GetProject(ctx, projectId)
}

func (m *mockClient) CreateProject(ctx context.Context, spec projects.Spec) (projects.Detail, error) {
	m.t.Helper()

	m.Calls.CreateProject = append(m.Calls.CreateProject, spec)
	if m.Impl.CreateProject == nil {
		m.t.Fatal("CreateProject is not ready to be called")
	}
	return m.Impl.CreateProject(ctx, spec)
}

func (m *mockClient) DeleteProject(ctx context.Context, projectId int) error {
	m.t.Helper()

	m.Calls.DeleteProject = append(m.Calls.DeleteProject, projectId)
	if m.Impl.DeleteProject == nil {
		m.t.Fatal("DeleteProject is not ready to be called")
	}
	return m.Impl.DeleteProject(ctx, projectId)
}

func (m *mockClient) UpdateProjectTags(ctx context.Context, projectId int, change tags.Change) (projects.Detail, error) {
	m.t.Helper()

	m.Calls.UpdateProjectTags = append(m.Calls.UpdateProjectTags, UpdateProjectTagsArgs{projectId, change})
	if m.Impl.UpdateProjectTags == nil {
		m.t.Fatal("UpdateProjectTags is not ready to be called")
	}
	return m.Impl.UpdateProjectTags(ctx, projectId, change)
}

func (m *mockClient) GetProjectMeta(ctx context.Context, projectId int) (projects.Meta, error) {
	m.t.Helper()

	m.Calls.GetProjectMeta = append(m.Calls.GetProjectMeta, projectId)
	if m.Impl.GetProjectMeta == nil {
		m.t.Fatal("GetProjectMeta is not ready to be called")
	}
	return m.Impl.GetProjectMeta(ctx, projectId)
}

func (m *mockClient) UpdateProjectMeta(ctx context.Context, projectId int, meta projects.Meta) (projects.Meta, error) {
	m.t.Helper()

	m.Calls.UpdateProjectMeta = append(m.Calls.UpdateProjectMeta, projectId)
	if m.Impl.UpdateProjectMeta == nil {
		m.t.Fatal("UpdateProjectMeta is not ready to be called")
	}
	return m.Impl.UpdateProjectMeta(ctx, projectId, meta)
}

func (m *mockClient) ListDatasets(ctx context.Context, projectId int) ([]datasets.Summary, error) {
	m.t.Helper()

	m.Calls.ListDatasets = append(m.Calls.ListDatasets, projectId)
	if m.Impl.ListDatasets == nil {
		m.t.Fatal("ListDatasets is not ready to be called")
	}
	return m.Impl.ListDatasets(ctx, projectId)
}

func (m *mockClient) CreateDataset(ctx context.Context, spec datasets.Spec) (datasets.Summary, error) {
	m.t.Helper()

	m.Calls.CreateDataset = append(m.Calls.CreateDataset, spec)
	if m.Impl.CreateDataset == nil {
		m.t.Fatal("CreateDataset is not ready to be called")
	}
	return m.Impl.CreateDataset(ctx, spec)
}

func (m *mockClient) DeleteDataset(ctx context.Context, datasetId int) error {
	m.t.Helper()

	m.Calls.DeleteDataset = append(m.Calls.DeleteDataset, datasetId)
	if m.Impl.DeleteDataset == nil {
		m.t.Fatal("DeleteDataset is not ready to be called")
	}
	return m.Impl.DeleteDataset(ctx, datasetId)
}

func (m *mockClient) FindImages(ctx context.Context, datasetId int, tag []tags.Tag) ([]items.Image, error) {
	m.t.Helper()

	m.Calls.FindImages = append(m.Calls.FindImages, FindItemsArgs{datasetId, tag})
	if m.Impl.FindImages == nil {
		m.t.Fatal("FindImages is not ready to be called")
	}
	return m.Impl.FindImages(ctx, datasetId, tag)
}

func (m *mockClient) GetImage(ctx context.Context, imageId int) (items.Image, error) {
	m.t.Helper()

	m.Calls.GetImage = append(m.Calls.GetImage, imageId)
	if m.Impl.GetImage == nil {
		m.t.Fatal("GetImage is not ready to be called")
	}
	return m.Impl.GetImage(ctx, imageId)
}

func (m *mockClient) CheckImageHashes(ctx context.Context, hashes []string) ([]string, error) {
	m.t.Helper()

	m.Calls.CheckImageHashes = append(m.Calls.CheckImageHashes, hashes)
	if m.Impl.CheckImageHashes == nil {
		m.t.Fatal("CheckImageHashes is not ready to be called")
	}
	return m.Impl.CheckImageHashes(ctx, hashes)
}

func (m *mockClient) AddImagesByHash(ctx context.Context, datasetId int, refs []items.HashRef) ([]items.Image, error) {
	m.t.Helper()

	m.Calls.AddImagesByHash = append(m.Calls.AddImagesByHash, datasetId)
	if m.Impl.AddImagesByHash == nil {
		m.t.Fatal("AddImagesByHash is not ready to be called")
	}
	return m.Impl.AddImagesByHash(ctx, datasetId, refs)
}

func (m *mockClient) AddImagesByLink(ctx context.Context, datasetId int, refs []items.LinkRef) ([]items.Image, error) {
	m.t.Helper()

	m.Calls.AddImagesByLink = append(m.Calls.AddImagesByLink, datasetId)
	if m.Impl.AddImagesByLink == nil {
		m.t.Fatal("AddImagesByLink is not ready to be called")
	}
	return m.Impl.AddImagesByLink(ctx, datasetId, refs)
}

func (m *mockClient) UploadImages(ctx context.Context, datasetId int, files []api.UploadFile, options ...api.UploadOption) ([]items.Image, error) {
	m.t.Helper()

	m.Calls.UploadImages = append(m.Calls.UploadImages, UploadArgs{datasetId, files})
	if m.Impl.UploadImages == nil {
		m.t.Fatal("UploadImages is not ready to be called")
	}
	return m.Impl.UploadImages(ctx, datasetId, files, options...)
}

func (m *mockClient) DownloadImage(ctx context.Context, imageId int, handler func(io.Reader) error) error {
	m.t.Helper()

	m.Calls.DownloadImage = append(m.Calls.DownloadImage, imageId)
	if m.Impl.DownloadImage == nil {
		m.t.Fatal("DownloadImage is not ready to be called")
	}
	return m.Impl.DownloadImage(ctx, imageId, handler)
}

func (m *mockClient) FindVideos(ctx context.Context, datasetId int, tag []tags.Tag) ([]items.Video, error) {
	m.t.Helper()

	m.Calls.FindVideos = append(m.Calls.FindVideos, FindItemsArgs{datasetId, tag})
	if m.Impl.FindVideos == nil {
		m.t.Fatal("FindVideos is not ready to be called")
	}
	return m.Impl.FindVideos(ctx, datasetId, tag)
}

func (m *mockClient) GetVideo(ctx context.Context, videoId int) (items.Video, error) {
	m.t.Helper()

	m.Calls.GetVideo = append(m.Calls.GetVideo, videoId)
	if m.Impl.GetVideo == nil {
		m.t.Fatal("GetVideo is not ready to be called")
	}
	return m.Impl.GetVideo(ctx, videoId)
}

func (m *mockClient) AddVideosByLink(ctx context.Context, datasetId int, refs []items.LinkRef) ([]items.Video, error) {
	m.t.Helper()

	m.Calls.AddVideosByLink = append(m.Calls.AddVideosByLink, datasetId)
	if m.Impl.AddVideosByLink == nil {
		m.t.Fatal("AddVideosByLink is not ready to be called")
	}
	return m.Impl.AddVideosByLink(ctx, datasetId, refs)
}

func (m *mockClient) UploadVideos(ctx context.Context, datasetId int, files []api.UploadFile, options ...api.UploadOption) ([]items.Video, error) {
	m.t.Helper()

	m.Calls.UploadVideos = append(m.Calls.UploadVideos, UploadArgs{datasetId, files})
	if m.Impl.UploadVideos == nil {
		m.t.Fatal("UploadVideos is not ready to be called")
	}
	return m.Impl.UploadVideos(ctx, datasetId, files, options...)
}

func (m *mockClient) GetAnnotation(ctx context.Context, itemId int) (annotations.Annotation, error) {
	m.t.Helper()

	m.Calls.GetAnnotation = append(m.Calls.GetAnnotation, itemId)
	if m.Impl.GetAnnotation == nil {
		m.t.Fatal("GetAnnotation is not ready to be called")
	}
	return m.Impl.GetAnnotation(ctx, itemId)
}

func (m *mockClient) PutAnnotation(ctx context.Context, itemId int, ann annotations.Annotation) error {
	m.t.Helper()

	m.Calls.PutAnnotation = append(m.Calls.PutAnnotation, itemId)
	if m.Impl.PutAnnotation == nil {
		m.t.Fatal("PutAnnotation is not ready to be called")
	}
	return m.Impl.PutAnnotation(ctx, itemId, ann)
}

func (m *mockClient) BulkGetAnnotations(ctx context.Context, itemIds []int) ([]annotations.Annotation, error) {
	m.t.Helper()

	m.Calls.BulkGetAnnotations = append(m.Calls.BulkGetAnnotations, itemIds)
	if m.Impl.BulkGetAnnotations == nil {
		m.t.Fatal("BulkGetAnnotations is not ready to be called")
	}
	return m.Impl.BulkGetAnnotations(ctx, itemIds)
}

func (m *mockClient) BulkPutAnnotations(ctx context.Context, anns []annotations.Annotation) error {
	m.t.Helper()

	m.Calls.BulkPutAnnotations += 1
	if m.Impl.BulkPutAnnotations == nil {
		m.t.Fatal("BulkPutAnnotations is not ready to be called")
	}
	return m.Impl.BulkPutAnnotations(ctx, anns)
}

func (m *mockClient) ExportProjectRaw(ctx context.Context, projectId int, handler func(io.Reader) error) error {
	m.t.Helper()

	m.Calls.ExportProjectRaw = append(m.Calls.ExportProjectRaw, projectId)
	if m.Impl.ExportProjectRaw == nil {
		m.t.Fatal("ExportProjectRaw is not ready to be called")
	}
	return m.Impl.ExportProjectRaw(ctx, projectId, handler)
}

func (m *mockClient) ExportProject(ctx context.Context, projectId int, handler func(api.FileEntry) error) error {
	m.t.Helper()

	m.Calls.ExportProject = append(m.Calls.ExportProject, projectId)
	if m.Impl.ExportProject == nil {
		m.t.Fatal("ExportProject is not ready to be called")
	}
	return m.Impl.ExportProject(ctx, projectId, handler)
}

func (m *mockClient) FindTasks(ctx context.Context, workspaceId int, filter tasks.Filter) ([]tasks.Detail, error) {
	m.t.Helper()

	m.Calls.FindTasks = append(m.Calls.FindTasks, workspaceId)
	if m.Impl.FindTasks == nil {
		m.t.Fatal("FindTasks is not ready to be called")
	}
	return m.Impl.FindTasks(ctx, workspaceId, filter)
}

func (m *mockClient) GetTask(ctx context.Context, taskId int) (tasks.Detail, error) {
	m.t.Helper()

	m.Calls.GetTask = append(m.Calls.GetTask, taskId)
	if m.Impl.GetTask == nil {
		m.t.Fatal("GetTask is not ready to be called")
	}
	return m.Impl.GetTask(ctx, taskId)
}

func (m *mockClient) GetTaskStatus(ctx context.Context, taskId int) (tasks.Status, error) {
	m.t.Helper()

	m.Calls.GetTaskStatus = append(m.Calls.GetTaskStatus, taskId)
	if m.Impl.GetTaskStatus == nil {
		m.t.Fatal("GetTaskStatus is not ready to be called")
	}
	return m.Impl.GetTaskStatus(ctx, taskId)
}

func (m *mockClient) StartTask(ctx context.Context, spec tasks.Spec) (int, error) {
	m.t.Helper()

	m.Calls.StartTask = append(m.Calls.StartTask, spec)
	if m.Impl.StartTask == nil {
		m.t.Fatal("StartTask is not ready to be called")
	}
	return m.Impl.StartTask(ctx, spec)
}

func (m *mockClient) StopTask(ctx context.Context, taskId int) (tasks.Status, error) {
	m.t.Helper()

	m.Calls.StopTask = append(m.Calls.StopTask, taskId)
	if m.Impl.StopTask == nil {
		m.t.Fatal("StopTask is not ready to be called")
	}
	return m.Impl.StopTask(ctx, taskId)
}

func (m *mockClient) TaskLog(ctx context.Context, taskId int, follow bool) (io.ReadCloser, error) {
	m.t.Helper()

	m.Calls.TaskLog = append(m.Calls.TaskLog, struct {
		TaskId int
		Follow bool
	}{
		TaskId: taskId,
		Follow: follow,
	})
	if m.Impl.TaskLog == nil {
		m.t.Fatal("TaskLog is not ready to be called")
	}
	return m.Impl.TaskLog(ctx, taskId, follow)
}

func (m *mockClient) WaitTask(ctx context.Context, taskId int, target tasks.Status, options ...api.WaitOption) (tasks.Status, error) {
	m.t.Helper()

	m.Calls.WaitTask = append(m.Calls.WaitTask, WaitTaskArgs{taskId, target})
	if m.Impl.WaitTask == nil {
		m.t.Fatal("WaitTask is not ready to be called")
	}
	return m.Impl.WaitTask(ctx, taskId, target, options...)
}

func (m *mockClient) SetTaskFields(ctx context.Context, taskId int, fields []tasks.Field) error {
	m.t.Helper()

	m.Calls.SetTaskFields = append(m.Calls.SetTaskFields, taskId)
	if m.Impl.SetTaskFields == nil {
		m.t.Fatal("SetTaskFields is not ready to be called")
	}
	return m.Impl.SetTaskFields(ctx, taskId, fields)
}

func (m *mockClient) SetTaskField(ctx context.Context, taskId int, field string, payload any, appendMode bool, recursive bool) error {
	m.t.Helper()

	m.Calls.SetTaskField = append(m.Calls.SetTaskField, field)
	if m.Impl.SetTaskField == nil {
		m.t.Fatal("SetTaskField is not ready to be called")
	}
	return m.Impl.SetTaskField(ctx, taskId, field, payload, appendMode, recursive)
}

func (m *mockClient) GetTaskFields(ctx context.Context, taskId int, fields []string) (map[string]json.RawMessage, error) {
	m.t.Helper()

	m.Calls.GetTaskFields = append(m.Calls.GetTaskFields, fields)
	if m.Impl.GetTaskFields == nil {
		m.t.Fatal("GetTaskFields is not ready to be called")
	}
	return m.Impl.GetTaskFields(ctx, taskId, fields)
}

func (m *mockClient) GetTaskField(ctx context.Context, taskId int, field string, v any) error {
	m.t.Helper()

	m.Calls.GetTaskField = append(m.Calls.GetTaskField, field)
	if m.Impl.GetTaskField == nil {
		m.t.Fatal("GetTaskField is not ready to be called")
	}
	return m.Impl.GetTaskField(ctx, taskId, field, v)
}

func (m *mockClient) SendTaskRequest(ctx context.Context, taskId int, command string, state any, options ...api.RequestOption) (json.RawMessage, error) {
	m.t.Helper()

	m.Calls.SendTaskRequest = append(m.Calls.SendTaskRequest, SendTaskRequestArgs{taskId, command, state})
	if m.Impl.SendTaskRequest == nil {
		m.t.Fatal("SendTaskRequest is not ready to be called")
	}
	return m.Impl.SendTaskRequest(ctx, taskId, command, state, options...)
}

func (m *mockClient) TrainingMetrics(ctx context.Context, taskId int) (api.Metrics, error) {
	m.t.Helper()

	m.Calls.TrainingMetrics = append(m.Calls.TrainingMetrics, taskId)
	if m.Impl.TrainingMetrics == nil {
		m.t.Fatal("TrainingMetrics is not ready to be called")
	}
	return m.Impl.TrainingMetrics(ctx, taskId)
}

func (m *mockClient) SetTaskOutput(ctx context.Context, taskId int, output api.TaskOutput) error {
	m.t.Helper()

	m.Calls.SetTaskOutput = append(m.Calls.SetTaskOutput, output)
	if m.Impl.SetTaskOutput == nil {
		m.t.Fatal("SetTaskOutput is not ready to be called")
	}
	return m.Impl.SetTaskOutput(ctx, taskId, output)
}

func (m *mockClient) UploadTaskFiles(ctx context.Context, taskId int, files []api.UploadFile, progress func(settled int)) error {
	m.t.Helper()

	m.Calls.UploadTaskFiles = append(m.Calls.UploadTaskFiles, taskId)
	if m.Impl.UploadTaskFiles == nil {
		m.t.Fatal("UploadTaskFiles is not ready to be called")
	}
	return m.Impl.UploadTaskFiles(ctx, taskId, files, progress)
}

func (m *mockClient) PostImportArchive(ctx context.Context, taskId int, source string, dereference bool) api.Progress[*tasks.Detail] {
	m.t.Helper()

	m.Calls.PostImportArchive = append(m.Calls.PostImportArchive, PostImportArchiveArgs{taskId, source})
	if m.Impl.PostImportArchive == nil {
		m.t.Fatal("PostImportArchive is not ready to be called")
	}
	return m.Impl.PostImportArchive(ctx, taskId, source, dereference)
}
