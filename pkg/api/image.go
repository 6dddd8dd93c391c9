package api

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/framehubio/framehub/api/types/items"
	"github.com/framehubio/framehub/api/types/tags"
	kio "github.com/framehubio/framehub/pkg/utils/io"
)

var (
	ErrChecksumUnmatch = errors.New("checksum unmatch")
)

func (c *client) FindImages(ctx context.Context, datasetId int, tag []tags.Tag) ([]items.Image, error) {
	q := url.Values{}
	q.Add("dataset", strconv.Itoa(datasetId))
	for _, t := range tag {
		q.Add("tag", t.String())
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("images")+"?"+q.Encode(), nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]items.Image](
		resp,
		MessageFor{
			Status4xx: "finding images is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) GetImage(ctx context.Context, imageId int) (items.Image, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("images", strconv.Itoa(imageId)), nil,
	)
	if err != nil {
		return items.Image{}, err
	}

	resp, err := c.do(req)
	if err != nil {
		return items.Image{}, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[items.Image](
		resp,
		MessageFor{
			Status4xx: "image is not found",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) AddImagesByHash(ctx context.Context, datasetId int, refs []items.HashRef) ([]items.Image, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	resp, err := c.postJson(
		ctx, c.apipath("images", "bulk", "add-by-hash"),
		map[string]any{"datasetId": datasetId, "images": refs},
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]items.Image](
		resp,
		MessageFor{
			Status4xx: "adding images is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) AddImagesByLink(ctx context.Context, datasetId int, refs []items.LinkRef) ([]items.Image, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	resp, err := c.postJson(
		ctx, c.apipath("images", "bulk", "add-by-link"),
		map[string]any{"datasetId": datasetId, "images": refs},
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]items.Image](
		resp,
		MessageFor{
			Status4xx: "adding images is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) DownloadImage(ctx context.Context, imageId int, handler func(io.Reader) error) error {
	return c.getVerifiedStream(
		ctx, c.apipath("images", strconv.Itoa(imageId), "content"), handler,
	)
}

// getVerifiedStream streams a GET response through handler, then checks
// the stream against the x-checksum-md5 trailer the server sent.
func (c *client) getVerifiedStream(ctx context.Context, url string, handler func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	r, err := unmarshalStreamResponse(
		resp,
		MessageFor{
			Status4xx: fmt.Sprintf("downloading is rejected by server (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
	if err != nil {
		return err
	}

	chr := kio.NewMD5Reader(r)
	tr := kio.NewTriggerReader(chr)
	var hasherr error
	tr.OnEnd(func() {
		serverChecksum := resp.Trailer.Get("x-checksum-md5")
		if serverChecksum == "" {
			hasherr = fmt.Errorf("%w: server response is incompleted", ErrChecksumUnmatch)
			return
		}

		actualChecksum := hex.EncodeToString(chr.Sum())
		if serverChecksum == actualChecksum {
			return
		}
		hasherr = fmt.Errorf(
			"%w: server sent: %s, calcurated: %s",
			ErrChecksumUnmatch, serverChecksum, actualChecksum,
		)
	})

	if err := handler(tr); err != nil {
		return err
	}
	if _, err := io.Copy(io.Discard, tr); err != nil {
		// drain rest of the entry.
		return err
	}

	return hasherr
}
