package api_test

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/framehubio/framehub/api/types/tags"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/cmp"
	"github.com/framehubio/framehub/pkg/utils/try"
)

func TestFindImages(t *testing.T) {
	t.Run("it queries by dataset and tags", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/images" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("dataset") != "77" {
				t.Errorf("unexpected dataset: %s", q.Get("dataset"))
			}
			if !cmp.SliceContentEq(q["tag"], []string{"split:train", "fh#id:42"}) {
				t.Errorf("unexpected tags: %v", q["tag"])
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`[
				{"id": 1, "datasetId": 77, "name": "a.png", "updatedAt": "2024-10-30T12:34:56+00:00", "tags": ["split:train"]},
				{"id": 2, "datasetId": 77, "name": "b.png", "updatedAt": "2024-10-30T12:34:56+00:00", "tags": []}
			]`))
		})
		ts := httptest.NewServer(h)
		defer ts.Close()

		testee := newTestClient(t, ts.URL)
		found := try.To(testee.FindImages(
			context.Background(), 77,
			[]tags.Tag{
				{Key: "split", Value: "train"},
				{Key: "fh#id", Value: "42"},
			},
		)).OrFatal(t)

		if len(found) != 2 || found[0].Name != "a.png" || found[1].Name != "b.png" {
			t.Errorf("unexpected images: %+v", found)
		}
	})

	t.Run("a platform error message is surfaced", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": {"reason": "no such dataset", "advice": "check the dataset id"}}`))
		})
		ts := httptest.NewServer(h)
		defer ts.Close()

		testee := newTestClient(t, ts.URL)
		_, err := testee.FindImages(context.Background(), 77, nil)
		if err == nil {
			t.Fatal("unexpected result. an error should be occured.")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	content := make([]byte, 1024)
	rand.Read(content)

	serve := func(checksum string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/images/12/content" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			w.Header().Set("Trailer", "x-checksum-md5")
			w.WriteHeader(http.StatusOK)
			w.Write(content)
			w.Header().Set("x-checksum-md5", checksum)
		}))
	}

	t.Run("it streams the content when the checksum matches", func(t *testing.T) {
		sum := md5.Sum(content)
		ts := serve(hex.EncodeToString(sum[:]))
		defer ts.Close()

		testee := newTestClient(t, ts.URL)
		got := bytes.NewBuffer(nil)
		err := testee.DownloadImage(context.Background(), 12, func(r io.Reader) error {
			_, err := io.Copy(got, r)
			return err
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(got.Bytes(), content) {
			t.Error("downloaded content unmatch")
		}
	})

	t.Run("a corrupted stream is reported as checksum unmatch", func(t *testing.T) {
		ts := serve("0123456789abcdef0123456789abcdef")
		defer ts.Close()

		testee := newTestClient(t, ts.URL)
		err := testee.DownloadImage(context.Background(), 12, func(r io.Reader) error {
			_, err := io.Copy(io.Discard, r)
			return err
		})
		if !errors.Is(err, api.ErrChecksumUnmatch) {
			t.Errorf("expected ErrChecksumUnmatch, got %v", err)
		}
	})

	t.Run("a missing trailer is reported as checksum unmatch", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write(content)
		}))
		defer ts.Close()

		testee := newTestClient(t, ts.URL)
		err := testee.DownloadImage(context.Background(), 12, func(r io.Reader) error {
			_, err := io.Copy(io.Discard, r)
			return err
		})
		if !errors.Is(err, api.ErrChecksumUnmatch) {
			t.Errorf("expected ErrChecksumUnmatch, got %v", err)
		}
	})
}
