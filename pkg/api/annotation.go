package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/framehubio/framehub/api/types/annotations"
	"github.com/framehubio/framehub/pkg/utils/slices"
)

// how many annotations go into one bulk request.
const annotationBatchSize = 50

func (c *client) GetAnnotation(ctx context.Context, itemId int) (annotations.Annotation, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("annotations", strconv.Itoa(itemId)), nil,
	)
	if err != nil {
		return annotations.Annotation{}, err
	}

	resp, err := c.do(req)
	if err != nil {
		return annotations.Annotation{}, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[annotations.Annotation](
		resp,
		MessageFor{
			Status4xx: "annotation is not found",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) PutAnnotation(ctx context.Context, itemId int, ann annotations.Annotation) error {
	resp, err := c.putJson(ctx, c.apipath("annotations", strconv.Itoa(itemId)), ann)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, MessageFor{
		Status4xx: "annotation is rejected by server",
		Status5xx: "something wrong in server",
	})
}

func (c *client) BulkGetAnnotations(ctx context.Context, itemIds []int) ([]annotations.Annotation, error) {
	found := []annotations.Annotation{}
	for _, batch := range slices.Batch(itemIds, annotationBatchSize) {
		resp, err := c.postJson(
			ctx, c.apipath("annotations", "bulk", "get"),
			map[string][]int{"itemIds": batch},
		)
		if err != nil {
			return nil, err
		}

		anns, err := unmarshalJsonResponse[[]annotations.Annotation](
			resp,
			MessageFor{
				Status4xx: "getting annotations is rejected by server",
				Status5xx: "something wrong in server",
			},
		)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		found = append(found, anns...)
	}
	return found, nil
}

func (c *client) BulkPutAnnotations(ctx context.Context, anns []annotations.Annotation) error {
	for _, batch := range slices.Batch(anns, annotationBatchSize) {
		resp, err := c.postJson(
			ctx, c.apipath("annotations", "bulk"),
			map[string][]annotations.Annotation{"annotations": batch},
		)
		if err != nil {
			return err
		}

		err = expectStatus(resp, MessageFor{
			Status4xx: "annotations are rejected by server",
			Status5xx: "something wrong in server",
		})
		resp.Body.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
