package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/framehubio/framehub/api/types/datasets"
)

func (c *client) ListDatasets(ctx context.Context, projectId int) ([]datasets.Summary, error) {
	q := url.Values{}
	q.Add("project", strconv.Itoa(projectId))

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("datasets")+"?"+q.Encode(), nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]datasets.Summary](
		resp,
		MessageFor{
			Status4xx: "listing datasets is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) CreateDataset(ctx context.Context, spec datasets.Spec) (datasets.Summary, error) {
	if err := spec.Validate(); err != nil {
		return datasets.Summary{}, err
	}

	resp, err := c.postJson(ctx, c.apipath("datasets"), spec)
	if err != nil {
		return datasets.Summary{}, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[datasets.Summary](
		resp,
		MessageFor{
			Status4xx: "dataset is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) DeleteDataset(ctx context.Context, datasetId int) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodDelete, c.apipath("datasets", strconv.Itoa(datasetId)), nil,
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
		Status4xx: "deleting dataset is rejected by server",
		Status5xx: "something wrong in server",
	})
}
