package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apierr "github.com/framehubio/framehub/api/types/errors"
	kerr "github.com/framehubio/framehub/pkg/errors"
)

// MessageFor are messages for non-2xx statuses, keyed by StatusCodeRange.
//
// When a range has no message, a generic one is used.
type MessageFor struct {
	Status4xx string
	Status5xx string
}

func (m MessageFor) messageFor(r StatusCodeRange) string {
	switch r {
	case Status4xx:
		if m.Status4xx != "" {
			return m.Status4xx
		}
		return "something wrong in request"
	case Status5xx:
		if m.Status5xx != "" {
			return m.Status5xx
		}
		return "something wrong in server"
	default:
		return "unexpected response"
	}
}

// unmarshalJsonResponse parses resp as JSON into T when 2xx, or builds a
// rich error from the platform's error message payload otherwise.
func unmarshalJsonResponse[T any](resp *http.Response, errorMessage MessageFor) (T, error) {
	var dest T
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dest, err
	}

	scr := asStatusCodeRange(resp.StatusCode)
	if scr == Status2xx {
		if err := json.Unmarshal(body, &dest); err != nil {
			return dest, kerr.New(
				"response is unexpected format",
				kerr.WithCause(err),
				kerr.WithDetail(func(summary string) (string, error) {
					return summary + "\n" + string(body), nil
				}),
			)
		}
		return dest, nil
	}

	return dest, errorFromResponse(resp.StatusCode, body, errorMessage.messageFor(scr))
}

// unmarshalStreamResponse passes the body through when 2xx, or builds a
// rich error otherwise. Caller owns closing the returned stream.
func unmarshalStreamResponse(resp *http.Response, errorMessage MessageFor) (io.ReadCloser, error) {
	scr := asStatusCodeRange(resp.StatusCode)
	if scr == Status2xx {
		return resp.Body, nil
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return nil, errorFromResponse(resp.StatusCode, body, errorMessage.messageFor(scr))
}

// expectStatus drains resp and errors unless it is 2xx.
func expectStatus(resp *http.Response, errorMessage MessageFor) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	scr := asStatusCodeRange(resp.StatusCode)
	if scr == Status2xx {
		return nil
	}
	return errorFromResponse(resp.StatusCode, body, errorMessage.messageFor(scr))
}

func errorFromResponse(statusCode int, body []byte, summary string) error {
	if msg, err := parseErrorMessage(body); err == nil {
		return kerr.New(
			fmt.Sprintf("%s: %s", summary, msg.Reason),
			kerr.WithCause(msg),
			kerr.WithDetail(func(summary string) (string, error) {
				return summary + "\n" + msg.String(), nil
			}),
		)
	}
	return kerr.New(
		fmt.Sprintf("%s (status code = %d)", summary, statusCode),
		kerr.WithDetail(func(summary string) (string, error) {
			return summary + "\n" + string(body), nil
		}),
	)
}

func parseErrorMessage(body []byte) (apierr.ErrorMessage, error) {
	res := apierr.ErrorResponse{}
	if err := json.Unmarshal(body, &res); err != nil {
		return apierr.ErrorMessage{}, err
	}
	return res.Message, nil
}
