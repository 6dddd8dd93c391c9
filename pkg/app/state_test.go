package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/framehubio/framehub/api/types/tasks"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/app"
	"github.com/framehubio/framehub/pkg/config/profiles"
	"github.com/framehubio/framehub/pkg/utils/try"
)

func newSession(t *testing.T, h http.Handler, taskId int) (*app.Session, func()) {
	t.Helper()
	ts := httptest.NewServer(h)
	prof := profiles.Profile{ApiRoot: ts.URL, Token: "TEST_TOKEN"}
	client := try.To(api.NewClient(&prof)).OrFatal(t)
	return app.New(client, taskId), ts.Close
}

func TestPatch(t *testing.T) {
	t.Run("it pushes every patch in one request", func(t *testing.T) {
		var got struct {
			Fields []tasks.Field `json:"fields"`
		}
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/tasks/8/fields/set" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		})
		session, teardown := newSession(t, h, 8)
		defer teardown()

		err := session.Patch(
			context.Background(),
			app.Patch{Field: app.DataKey("table.rows"), Value: []int{1, 2, 3}, Append: true},
			app.Patch{Field: app.StateKey("selected"), Value: 2},
		)
		if err != nil {
			t.Fatal(err)
		}

		if len(got.Fields) != 2 {
			t.Fatalf("unexpected fields: %+v", got.Fields)
		}
		if got.Fields[0].Field != "data.table.rows" || !got.Fields[0].Append {
			t.Errorf("unexpected field: %+v", got.Fields[0])
		}
		if got.Fields[1].Field != "state.selected" || string(got.Fields[1].Payload) != "2" {
			t.Errorf("unexpected field: %+v", got.Fields[1])
		}
	})

	t.Run("an empty patch set does not reach the server", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("server should not be called")
		})
		session, teardown := newSession(t, h, 8)
		defer teardown()

		if err := session.Patch(context.Background()); err != nil {
			t.Fatal(err)
		}
	})
}

func TestPull(t *testing.T) {
	t.Run("it materializes typed values from the snapshot", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/tasks/8/fields/get" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"fields": {
				"state.selected": 2,
				"data.title": "review queue"
			}}`))
		})
		session, teardown := newSession(t, h, 8)
		defer teardown()

		state := try.To(session.Pull(
			context.Background(),
			app.StateKey("selected"), app.DataKey("title"), app.DataKey("missing"),
		)).OrFatal(t)

		var selected int
		if err := state.Get("state.selected", &selected); err != nil {
			t.Fatal(err)
		}
		if selected != 2 {
			t.Errorf("unexpected value: %d", selected)
		}

		var title string
		if err := state.Get("data.title", &title); err != nil {
			t.Fatal(err)
		}
		if title != "review queue" {
			t.Errorf("unexpected value: %s", title)
		}

		var missing any
		if err := state.Get("data.missing", &missing); !errors.Is(err, api.ErrFieldNotFound) {
			t.Errorf("expected ErrFieldNotFound, got %v", err)
		}
	})
}

func TestExec(t *testing.T) {
	t.Run("it round-trips a command through the task request channel", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/tasks/8/request" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			var got struct {
				Command string          `json:"command"`
				State   json.RawMessage `json:"state"`
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Command != "refresh" {
				t.Errorf("unexpected command: %s", got.Command)
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"response": {"rows": 10}}`))
		})
		session, teardown := newSession(t, h, 8)
		defer teardown()

		response := try.To(session.Exec(
			context.Background(), "refresh", map[string]int{"page": 1},
		)).OrFatal(t)

		var parsed struct {
			Rows int `json:"rows"`
		}
		if err := json.Unmarshal(response, &parsed); err != nil {
			t.Fatal(err)
		}
		if parsed.Rows != 10 {
			t.Errorf("unexpected response: %s", response)
		}
	})
}
