package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/framehubio/framehub/api/types/items"
	"github.com/framehubio/framehub/api/types/tags"
)

func (c *client) FindVideos(ctx context.Context, datasetId int, tag []tags.Tag) ([]items.Video, error) {
	q := url.Values{}
	q.Add("dataset", strconv.Itoa(datasetId))
	for _, t := range tag {
		q.Add("tag", t.String())
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("videos")+"?"+q.Encode(), nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]items.Video](
		resp,
		MessageFor{
			Status4xx: "finding videos is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) GetVideo(ctx context.Context, videoId int) (items.Video, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("videos", strconv.Itoa(videoId)), nil,
	)
	if err != nil {
		return items.Video{}, err
	}

	resp, err := c.do(req)
	if err != nil {
		return items.Video{}, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[items.Video](
		resp,
		MessageFor{
			Status4xx: "video is not found",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) AddVideosByLink(ctx context.Context, datasetId int, refs []items.LinkRef) ([]items.Video, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	resp, err := c.postJson(
		ctx, c.apipath("videos", "bulk", "add-by-link"),
		map[string]any{"datasetId": datasetId, "videos": refs},
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]items.Video](
		resp,
		MessageFor{
			Status4xx: "adding videos is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}
