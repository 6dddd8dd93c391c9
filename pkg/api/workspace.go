package api

import (
	"context"
	"net/http"

	"github.com/framehubio/framehub/api/types/workspaces"
)

func (c *client) ListWorkspaces(ctx context.Context) ([]workspaces.Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apipath("workspaces"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]workspaces.Summary](
		resp,
		MessageFor{
			Status4xx: "listing workspaces is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}
