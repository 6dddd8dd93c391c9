package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/framehubio/framehub/api/types/items"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/cmp"
	kio "github.com/framehubio/framehub/pkg/utils/io"
	"github.com/framehubio/framehub/pkg/utils/try"
)

func TestUploadImages(t *testing.T) {
	t.Run("content stored remotely is registered by hash, the rest is uploaded", func(t *testing.T) {
		temp := t.TempDir()
		writeFile := func(name string, content []byte) string {
			path := filepath.Join(temp, name)
			if err := os.WriteFile(path, content, 0644); err != nil {
				t.Fatal(err)
			}
			return path
		}

		knownContent := []byte("already stored remotely")
		knownHash := try.To(kio.FileContentHash(writeFile("known.png", knownContent))).OrFatal(t)

		files := []api.UploadFile{
			{Name: "a.png", Path: writeFile("a.png", []byte("content of a"))},
			{Name: "b.png", Path: writeFile("b.png", knownContent)},
			{Name: "c.png", Path: writeFile("c.png", []byte("content of c"))},
		}

		mu := sync.Mutex{}
		checkedHashes := []string{}
		addedByHash := []items.HashRef{}
		uploaded := map[string][]byte{}

		mux := http.NewServeMux()
		mux.HandleFunc("/images/check-hashes", func(w http.ResponseWriter, r *http.Request) {
			var got struct {
				Hashes []string `json:"hashes"`
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			mu.Lock()
			checkedHashes = got.Hashes
			mu.Unlock()

			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `{"hashes": [%q]}`, knownHash)
		})
		mux.HandleFunc("/images/bulk/add-by-hash", func(w http.ResponseWriter, r *http.Request) {
			var got struct {
				DatasetId int             `json:"datasetId"`
				Images    []items.HashRef `json:"images"`
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.DatasetId != 77 {
				t.Errorf("unexpected dataset id: %d", got.DatasetId)
			}
			mu.Lock()
			addedByHash = append(addedByHash, got.Images...)
			mu.Unlock()

			registered := make([]items.Image, len(got.Images))
			for i, ref := range got.Images {
				registered[i] = items.Image{Id: 200 + i, Name: ref.Name, Hash: ref.Hash}
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(registered)
		})
		mux.HandleFunc("/images/bulk/upload", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatal(err)
			}
			if r.FormValue("datasetId") != "77" {
				t.Errorf("unexpected dataset id: %s", r.FormValue("datasetId"))
			}

			registered := []items.Image{}
			id := 300
			for hash, headers := range r.MultipartForm.File {
				for _, fh := range headers {
					f := try.To(fh.Open()).OrFatal(t)
					content := try.To(io.ReadAll(f)).OrFatal(t)
					f.Close()

					mu.Lock()
					uploaded[fh.Filename] = content
					mu.Unlock()
					registered = append(registered, items.Image{Id: id, Name: fh.Filename, Hash: hash})
					id += 1
				}
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(registered)
		})

		ts := httptest.NewServer(mux)
		defer ts.Close()

		progressed := []int{}
		testee := newTestClient(t, ts.URL)
		registered := try.To(testee.UploadImages(
			context.Background(), 77, files,
			api.WithUploadProgress(func(settled int) {
				progressed = append(progressed, settled)
			}),
		)).OrFatal(t)

		if len(registered) != 3 {
			t.Fatalf("unexpected result: %+v", registered)
		}
		for i, f := range files {
			if registered[i].Name != f.Name {
				t.Errorf("result #%d: unexpected name: %s", i, registered[i].Name)
			}
		}

		if len(checkedHashes) != 3 {
			t.Errorf("unexpected checked hashes: %v", checkedHashes)
		}

		if len(addedByHash) != 1 || addedByHash[0].Name != "b.png" || addedByHash[0].Hash != knownHash {
			t.Errorf("unexpected add-by-hash: %+v", addedByHash)
		}

		wantUploaded := map[string][]byte{
			"a.png": []byte("content of a"),
			"c.png": []byte("content of c"),
		}
		if !cmp.MapEqWith(uploaded, wantUploaded, func(a, b []byte) bool { return string(a) == string(b) }) {
			t.Errorf("unexpected uploaded content: %v", uploaded)
		}

		// 1 file settled by hash, then 2 by upload.
		if !cmp.SliceEq(progressed, []int{1, 3}) {
			t.Errorf("unexpected progress: %v", progressed)
		}
	})

	t.Run("nothing is uploaded when every hash is known", func(t *testing.T) {
		temp := t.TempDir()
		path := filepath.Join(temp, "x.png")
		if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
			t.Fatal(err)
		}
		hash := try.To(kio.FileContentHash(path)).OrFatal(t)

		mux := http.NewServeMux()
		mux.HandleFunc("/images/check-hashes", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `{"hashes": [%q]}`, hash)
		})
		mux.HandleFunc("/images/bulk/add-by-hash", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `[{"id": 1, "name": "x.png", "hash": %q}]`, hash)
		})
		mux.HandleFunc("/images/bulk/upload", func(w http.ResponseWriter, r *http.Request) {
			t.Error("upload should not be called")
		})
		ts := httptest.NewServer(mux)
		defer ts.Close()

		testee := newTestClient(t, ts.URL)
		registered := try.To(testee.UploadImages(
			context.Background(), 77,
			[]api.UploadFile{{Name: "x.png", Path: path}},
		)).OrFatal(t)

		if len(registered) != 1 || registered[0].Id != 1 {
			t.Errorf("unexpected result: %+v", registered)
		}
	})

	t.Run("the same content in one call is uploaded only once", func(t *testing.T) {
		temp := t.TempDir()
		writeFile := func(name string, content []byte) string {
			path := filepath.Join(temp, name)
			if err := os.WriteFile(path, content, 0644); err != nil {
				t.Fatal(err)
			}
			return path
		}

		content := []byte("shared content")
		files := []api.UploadFile{
			{Name: "a.png", Path: writeFile("a.png", content)},
			{Name: "copy-of-a.png", Path: writeFile("copy-of-a.png", content)},
		}

		mu := sync.Mutex{}
		uploadsPerHash := map[string]int{}
		addedByHash := []items.HashRef{}

		mux := http.NewServeMux()
		mux.HandleFunc("/images/check-hashes", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"hashes": []}`))
		})
		mux.HandleFunc("/images/bulk/add-by-hash", func(w http.ResponseWriter, r *http.Request) {
			var got struct {
				Images []items.HashRef `json:"images"`
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			mu.Lock()
			addedByHash = append(addedByHash, got.Images...)
			mu.Unlock()

			registered := make([]items.Image, len(got.Images))
			for i, ref := range got.Images {
				registered[i] = items.Image{Id: 400 + i, Name: ref.Name, Hash: ref.Hash}
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(registered)
		})
		mux.HandleFunc("/images/bulk/upload", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatal(err)
			}
			registered := []items.Image{}
			for hash, headers := range r.MultipartForm.File {
				for _, fh := range headers {
					mu.Lock()
					uploadsPerHash[hash] += 1
					mu.Unlock()
					registered = append(registered, items.Image{Id: 500, Name: fh.Filename, Hash: hash})
				}
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(registered)
		})
		ts := httptest.NewServer(mux)
		defer ts.Close()

		progressed := []int{}
		testee := newTestClient(t, ts.URL)
		registered := try.To(testee.UploadImages(
			context.Background(), 77, files,
			api.WithUploadProgress(func(settled int) {
				progressed = append(progressed, settled)
			}),
		)).OrFatal(t)

		if len(registered) != 2 {
			t.Fatalf("unexpected result: %+v", registered)
		}
		if registered[0].Name != "a.png" || registered[1].Name != "copy-of-a.png" {
			t.Errorf("unexpected result: %+v", registered)
		}

		for hash, n := range uploadsPerHash {
			if n != 1 {
				t.Errorf("content %s uploaded %d times", hash, n)
			}
		}
		if len(uploadsPerHash) != 1 {
			t.Errorf("unexpected uploads: %v", uploadsPerHash)
		}
		if len(addedByHash) != 1 || addedByHash[0].Name != "copy-of-a.png" {
			t.Errorf("unexpected add-by-hash: %+v", addedByHash)
		}

		// 1 file settled by upload, then its duplicate by hash.
		if !cmp.SliceEq(progressed, []int{1, 2}) {
			t.Errorf("unexpected progress: %v", progressed)
		}
	})
}

func TestUploadTaskFiles(t *testing.T) {
	t.Run("files are staged by hash or by upload", func(t *testing.T) {
		temp := t.TempDir()
		writeFile := func(name string, content []byte) string {
			path := filepath.Join(temp, name)
			if err := os.WriteFile(path, content, 0644); err != nil {
				t.Fatal(err)
			}
			return path
		}

		knownContent := []byte("known content")
		knownHash := try.To(kio.FileContentHash(writeFile("known", knownContent))).OrFatal(t)

		files := []api.UploadFile{
			{Name: "config/app.yaml", Path: writeFile("app.yaml", []byte("key: value"))},
			{Name: "weights/model.pt", Path: writeFile("model.pt", knownContent)},
		}

		mu := sync.Mutex{}
		addedByHash := []string{}
		uploaded := []string{}

		mux := http.NewServeMux()
		mux.HandleFunc("/tasks/11/files/check-hashes", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `{"hashes": [%q]}`, knownHash)
		})
		mux.HandleFunc("/tasks/11/files/add-by-hash", func(w http.ResponseWriter, r *http.Request) {
			var got struct {
				Files []struct {
					Name string `json:"name"`
					Hash string `json:"hash"`
				} `json:"files"`
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			mu.Lock()
			for _, f := range got.Files {
				addedByHash = append(addedByHash, f.Name)
			}
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		})
		mux.HandleFunc("/tasks/11/files/upload", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatal(err)
			}
			mu.Lock()
			for idx := range r.MultipartForm.File {
				var descriptor struct {
					Fullpath string `json:"fullpath"`
					Hash     string `json:"hash"`
				}
				key := strings.TrimSuffix(idx, "-file")
				if err := json.Unmarshal([]byte(r.FormValue(key)), &descriptor); err != nil {
					t.Errorf("file part %s has no descriptor: %s", idx, err)
					continue
				}
				uploaded = append(uploaded, descriptor.Fullpath)
			}
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`[]`))
		})
		ts := httptest.NewServer(mux)
		defer ts.Close()

		progressed := []int{}
		testee := newTestClient(t, ts.URL)
		if err := testee.UploadTaskFiles(
			context.Background(), 11, files,
			func(settled int) { progressed = append(progressed, settled) },
		); err != nil {
			t.Fatal(err)
		}

		if !cmp.SliceContentEq(addedByHash, []string{"weights/model.pt"}) {
			t.Errorf("unexpected add-by-hash: %v", addedByHash)
		}
		if !cmp.SliceContentEq(uploaded, []string{"config/app.yaml"}) {
			t.Errorf("unexpected uploads: %v", uploaded)
		}
		if !cmp.SliceEq(progressed, []int{1, 2}) {
			t.Errorf("unexpected progress: %v", progressed)
		}
	})

	t.Run("the same content is staged once, the duplicate goes by hash", func(t *testing.T) {
		temp := t.TempDir()
		writeFile := func(name string, content []byte) string {
			path := filepath.Join(temp, name)
			if err := os.WriteFile(path, content, 0644); err != nil {
				t.Fatal(err)
			}
			return path
		}

		content := []byte("same weights")
		hash := try.To(kio.FileContentHash(writeFile("model-a.pt", content))).OrFatal(t)
		files := []api.UploadFile{
			{Name: "runs/1/model.pt", Path: filepath.Join(temp, "model-a.pt")},
			{Name: "runs/2/model.pt", Path: writeFile("model-b.pt", content)},
		}

		mu := sync.Mutex{}
		addedByHash := []string{}
		uploaded := []string{}

		mux := http.NewServeMux()
		mux.HandleFunc("/tasks/11/files/check-hashes", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"hashes": []}`))
		})
		mux.HandleFunc("/tasks/11/files/add-by-hash", func(w http.ResponseWriter, r *http.Request) {
			var got struct {
				Files []struct {
					Name string `json:"name"`
					Hash string `json:"hash"`
				} `json:"files"`
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			mu.Lock()
			for _, f := range got.Files {
				if f.Hash != hash {
					t.Errorf("unexpected hash for %s: %s", f.Name, f.Hash)
				}
				addedByHash = append(addedByHash, f.Name)
			}
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		})
		mux.HandleFunc("/tasks/11/files/upload", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatal(err)
			}
			mu.Lock()
			for idx := range r.MultipartForm.File {
				var descriptor struct {
					Fullpath string `json:"fullpath"`
					Hash     string `json:"hash"`
				}
				key := strings.TrimSuffix(idx, "-file")
				if err := json.Unmarshal([]byte(r.FormValue(key)), &descriptor); err != nil {
					t.Errorf("file part %s has no descriptor: %s", idx, err)
					continue
				}
				if descriptor.Hash != hash {
					t.Errorf("unexpected hash for %s: %s", descriptor.Fullpath, descriptor.Hash)
				}
				uploaded = append(uploaded, descriptor.Fullpath)
			}
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`[]`))
		})
		ts := httptest.NewServer(mux)
		defer ts.Close()

		progressed := []int{}
		testee := newTestClient(t, ts.URL)
		if err := testee.UploadTaskFiles(
			context.Background(), 11, files,
			func(settled int) { progressed = append(progressed, settled) },
		); err != nil {
			t.Fatal(err)
		}

		if !cmp.SliceEq(uploaded, []string{"runs/1/model.pt"}) {
			t.Errorf("unexpected uploads: %v", uploaded)
		}
		if !cmp.SliceEq(addedByHash, []string{"runs/2/model.pt"}) {
			t.Errorf("unexpected add-by-hash: %v", addedByHash)
		}
		if !cmp.SliceEq(progressed, []int{1, 2}) {
			t.Errorf("unexpected progress: %v", progressed)
		}
	})
}
