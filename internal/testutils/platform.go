// Package testutils provides an in-memory Framehub platform server for
// tests exercising a real api.Client over HTTP.
package testutils

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/framehubio/framehub/api/types/datasets"
	"github.com/framehubio/framehub/api/types/items"
	"github.com/framehubio/framehub/api/types/projects"
	"github.com/framehubio/framehub/api/types/tags"
	"github.com/framehubio/framehub/api/types/workspaces"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/config/profiles"
)

// Platform is a fake platform holding its whole state in memory.
//
// Zero values are not usable. Create with NewPlatform, seed state via
// the exported maps, then Start an HTTP server over it.
type Platform struct {
	mu sync.Mutex

	// Token, when set, is required in the request token header.
	Token string

	Workspaces []workspaces.Summary
	Projects   map[int]*projects.Detail
	Datasets   map[int]*datasets.Summary
	Images     map[int]*items.Image

	// KnownHashes are content hashes the platform pretends to store.
	KnownHashes map[string]bool

	nextId int
}

func NewPlatform() *Platform {
	return &Platform{
		Projects:    map[int]*projects.Detail{},
		Datasets:    map[int]*datasets.Summary{},
		Images:      map[int]*items.Image{},
		KnownHashes: map[string]bool{},
		nextId:      1000,
	}
}

func (p *Platform) newId() int {
	p.nextId += 1
	return p.nextId
}

// Start spins up an HTTP server over the platform state.
//
// The caller owns the returned server and should Close it.
func (p *Platform) Start() *httptest.Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p.Token != "" && c.Request().Header.Get(api.TokenHeader) != p.Token {
				return echo.NewHTTPError(http.StatusUnauthorized, "bad token")
			}
			return next(c)
		}
	})

	e.GET("/workspaces", p.listWorkspaces)

	e.GET("/projects", p.findProjects)
	e.POST("/projects", p.createProject)
	e.GET("/projects/:projectId", p.getProject)
	e.DELETE("/projects/:projectId", p.deleteProject)

	e.GET("/datasets", p.listDatasets)
	e.POST("/datasets", p.createDataset)
	e.DELETE("/datasets/:datasetId", p.deleteDataset)

	e.GET("/images", p.findImages)
	e.POST("/images/check-hashes", p.checkImageHashes)
	e.POST("/images/bulk/add-by-hash", p.addImagesByHash)
	e.POST("/images/bulk/upload", p.uploadImages)

	return httptest.NewServer(e)
}

// Profile returns a connection profile pointing at server.
func (p *Platform) Profile(server *httptest.Server) *profiles.Profile {
	return &profiles.Profile{
		ApiRoot: server.URL,
		Token:   p.Token,
	}
}

func (p *Platform) listWorkspaces(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return c.JSON(http.StatusOK, p.Workspaces)
}

func (p *Platform) findProjects(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	workspaceId := 0
	if w := c.QueryParam("workspace"); w != "" {
		parsed, err := strconv.Atoi(w)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "workspace is not a number")
		}
		workspaceId = parsed
	}

	filter := []tags.Tag{}
	for _, raw := range c.QueryParams()["tag"] {
		t := tags.Tag{}
		if err := t.Parse(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter = append(filter, t)
	}

	found := []projects.Summary{}
	for _, proj := range p.Projects {
		if workspaceId != 0 && proj.WorkspaceId != workspaceId {
			continue
		}
		if !hasTags(proj.Tags, filter) {
			continue
		}
		found = append(found, proj.Summary)
	}
	return c.JSON(http.StatusOK, found)
}

func hasTags(have []tags.Tag, want []tags.Tag) bool {
	for _, w := range want {
		ok := false
		for _, h := range have {
			if h.Equal(w) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func (p *Platform) createProject(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	spec := projects.Spec{}
	if err := c.Bind(&spec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := spec.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail := &projects.Detail{
		Summary: projects.Summary{
			Id:          p.newId(),
			WorkspaceId: spec.WorkspaceId,
			Name:        spec.Name,
			Type:        spec.Type,
		},
		Description: spec.Description,
		Tags:        userTagsAsTags(spec.Tags),
	}
	p.Projects[detail.Id] = detail
	return c.JSON(http.StatusOK, detail)
}

func userTagsAsTags(uts []tags.UserTag) []tags.Tag {
	ts := make([]tags.Tag, len(uts))
	for i, ut := range uts {
		ts[i] = tags.Tag(ut)
	}
	return ts
}

func (p *Platform) getProject(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	projectId, err := strconv.Atoi(c.Param("projectId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "projectId is not a number")
	}
	proj, ok := p.Projects[projectId]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such project")
	}
	return c.JSON(http.StatusOK, proj)
}

func (p *Platform) deleteProject(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	projectId, err := strconv.Atoi(c.Param("projectId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "projectId is not a number")
	}
	if _, ok := p.Projects[projectId]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such project")
	}
	delete(p.Projects, projectId)
	for dsId, ds := range p.Datasets {
		if ds.ProjectId == projectId {
			delete(p.Datasets, dsId)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (p *Platform) listDatasets(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	projectId, err := strconv.Atoi(c.QueryParam("project"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "project is not a number")
	}

	found := []datasets.Summary{}
	for _, ds := range p.Datasets {
		if ds.ProjectId == projectId {
			found = append(found, *ds)
		}
	}
	return c.JSON(http.StatusOK, found)
}

func (p *Platform) createDataset(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	spec := datasets.Spec{}
	if err := c.Bind(&spec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := spec.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if _, ok := p.Projects[spec.ProjectId]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such project")
	}

	ds := &datasets.Summary{
		Id:        p.newId(),
		ProjectId: spec.ProjectId,
		Name:      spec.Name,
	}
	p.Datasets[ds.Id] = ds
	p.Projects[spec.ProjectId].DatasetCount += 1
	return c.JSON(http.StatusOK, ds)
}

func (p *Platform) deleteDataset(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	datasetId, err := strconv.Atoi(c.Param("datasetId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "datasetId is not a number")
	}
	if _, ok := p.Datasets[datasetId]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such dataset")
	}
	delete(p.Datasets, datasetId)
	return c.NoContent(http.StatusNoContent)
}

func (p *Platform) findImages(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	datasetId := 0
	if d := c.QueryParam("dataset"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "dataset is not a number")
		}
		datasetId = parsed
	}

	found := []items.Image{}
	for _, img := range p.Images {
		if datasetId != 0 && img.DatasetId != datasetId {
			continue
		}
		found = append(found, *img)
	}
	return c.JSON(http.StatusOK, found)
}

func (p *Platform) checkImageHashes(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	req := struct {
		Hashes []string `json:"hashes"`
	}{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	found := []string{}
	for _, h := range req.Hashes {
		if p.KnownHashes[h] {
			found = append(found, h)
		}
	}
	return c.JSON(http.StatusOK, struct {
		Hashes []string `json:"hashes"`
	}{Hashes: found})
}

func (p *Platform) addImagesByHash(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	req := struct {
		DatasetId int             `json:"datasetId"`
		Images    []items.HashRef `json:"images"`
	}{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if _, ok := p.Datasets[req.DatasetId]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such dataset")
	}

	registered := []items.Image{}
	for _, ref := range req.Images {
		if !p.KnownHashes[ref.Hash] {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown hash: "+ref.Hash)
		}
		img := &items.Image{
			Id:        p.newId(),
			DatasetId: req.DatasetId,
			Name:      ref.Name,
			Hash:      ref.Hash,
			Tags:      userTagsAsTags(ref.Tags),
		}
		p.Images[img.Id] = img
		registered = append(registered, *img)
	}
	return c.JSON(http.StatusOK, registered)
}

// uploadImages accepts the bulk multipart upload. Part names are
// content hashes, part filenames are remote item names.
func (p *Platform) uploadImages(c echo.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	datasetId := 0
	if values, ok := form.Value["datasetId"]; ok && 0 < len(values) {
		parsed, err := strconv.Atoi(values[0])
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "datasetId is not a number")
		}
		datasetId = parsed
	}
	if _, ok := p.Datasets[datasetId]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such dataset")
	}

	registered := []items.Image{}
	for hash, parts := range form.File {
		for _, part := range parts {
			name := part.Filename
			ext := ""
			if dot := strings.LastIndex(name, "."); 0 <= dot {
				ext = name[dot:]
			}
			img := &items.Image{
				Id:        p.newId(),
				DatasetId: datasetId,
				Name:      name,
				Hash:      hash,
				Ext:       ext,
				Size:      part.Size,
			}
			p.Images[img.Id] = img
			p.KnownHashes[hash] = true
			registered = append(registered, *img)
		}
	}
	return c.JSON(http.StatusOK, registered)
}
