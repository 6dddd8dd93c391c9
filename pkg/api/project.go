package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/framehubio/framehub/api/types/projects"
	"github.com/framehubio/framehub/api/types/tags"
)

func (c *client) FindProjects(ctx context.Context, workspaceId int, tag []tags.Tag) ([]projects.Summary, error) {
	q := url.Values{}
	if workspaceId != 0 {
		q.Add("workspace", strconv.Itoa(workspaceId))
	}
	for _, t := range tag {
		q.Add("tag", t.String())
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("projects")+"?"+q.Encode(), nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]projects.Summary](
		resp,
		MessageFor{
			Status4xx: "finding projects is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) GetProject(ctx context.Context, projectId int) (projects.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("projects", strconv.Itoa(projectId)), nil,
	)
	if err != nil {
		return projects.Detail{}, err
	}

	resp, err := c.do(req)
	if err != nil {
		return projects.Detail{}, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[projects.Detail](
		resp,
		MessageFor{
			Status4xx: "project is not found",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) CreateProject(ctx context.Context, spec projects.Spec) (projects.Detail, error) {
	if err := spec.Validate(); err != nil {
		return projects.Detail{}, err
	}

	resp, err := c.postJson(ctx, c.apipath("projects"), spec)
	if err != nil {
		return projects.Detail{}, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[projects.Detail](
		resp,
		MessageFor{
			Status4xx: "project is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) DeleteProject(ctx context.Context, projectId int) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodDelete, c.apipath("projects", strconv.Itoa(projectId)), nil,
	)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, MessageFor{
		Status4xx: "deleting project is rejected by server",
		Status5xx: "something wrong in server",
	})
}

func (c *client) UpdateProjectTags(ctx context.Context, projectId int, change tags.Change) (projects.Detail, error) {
	resp, err := c.putJson(ctx, c.apipath("projects", strconv.Itoa(projectId), "tags"), change)
	if err != nil {
		return projects.Detail{}, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[projects.Detail](
		resp,
		MessageFor{
			Status4xx: "tagging project is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) GetProjectMeta(ctx context.Context, projectId int) (projects.Meta, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("projects", strconv.Itoa(projectId), "meta"), nil,
	)
	if err != nil {
		return projects.Meta{}, err
	}

	resp, err := c.do(req)
	if err != nil {
		return projects.Meta{}, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[projects.Meta](
		resp,
		MessageFor{
			Status4xx: "project is not found",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) UpdateProjectMeta(ctx context.Context, projectId int, meta projects.Meta) (projects.Meta, error) {
	resp, err := c.putJson(ctx, c.apipath("projects", strconv.Itoa(projectId), "meta"), meta)
	if err != nil {
		return projects.Meta{}, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[projects.Meta](
		resp,
		MessageFor{
			Status4xx: "schema is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}
