package viewer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vanshika/lottrace/internal/render"
)

type recordingTarget struct {
	views []render.View
	err   error
}

func (r *recordingTarget) Show(view render.View) error {
	r.views = append(r.views, view)
	return r.err
}

func newTraceServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMount_RendersOrderedPath(t *testing.T) {
	srv := newTraceServer(t, http.StatusOK, `{
		"lot_id": "LOT-2024-0001",
		"nodes": [
			{"id": 1, "name": "Warehouse", "type": "loc"},
			{"id": 2, "name": "Truck", "type": "vehicle"},
			{"id": 3, "name": "Store", "type": "loc"}
		],
		"links": [
			{"source": 1, "target": 2, "timestamp": "2024-01-02"},
			{"source": 2, "target": 3, "timestamp": "2024-01-01"}
		]
	}`)

	var states []render.State
	v := New(nil, NewFetcher(srv.Client())).WithObserver(func(s render.State) { states = append(states, s) })
	target := &recordingTarget{}

	if err := v.Mount(context.Background(), target, srv.URL); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if len(target.views) != 1 {
		t.Fatalf("expected exactly one render, got %d", len(target.views))
	}
	view := target.views[0]
	if view.State != render.StateReady {
		t.Fatalf("expected ready view, got %s", view.State)
	}
	var got []string
	for _, b := range view.Row.Boxes {
		got = append(got, b.Name)
	}
	want := []string{"Truck", "Store", "Truck"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if len(states) != 1 || states[0] != render.StateReady {
		t.Fatalf("unexpected observed states: %v", states)
	}
}

func TestMount_EmptyNodes(t *testing.T) {
	srv := newTraceServer(t, http.StatusOK, `{"links": [{"source": "a", "target": "b", "timestamp": "2024-01-01"}]}`)
	target := &recordingTarget{}

	if err := New(nil, NewFetcher(srv.Client())).Mount(context.Background(), target, srv.URL); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if len(target.views) != 1 || target.views[0].State != render.StateEmpty {
		t.Fatalf("expected empty view, got %+v", target.views)
	}
}

func TestMount_FailuresCollapseToOneState(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http error status", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "not json", status: http.StatusOK, body: `<html>login</html>`},
		{name: "not found", status: http.StatusNotFound, body: `{"nodes":[{"id":"1"}]}`},
		{name: "null document", status: http.StatusOK, body: `null`},
		{name: "array document", status: http.StatusOK, body: `[{"nodes":[]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTraceServer(t, tt.status, tt.body)
			target := &recordingTarget{}
			if err := New(nil, NewFetcher(srv.Client())).Mount(context.Background(), target, srv.URL); err != nil {
				t.Fatalf("mount: %v", err)
			}
			if len(target.views) != 1 {
				t.Fatalf("expected one render, got %d", len(target.views))
			}
			if v := target.views[0]; v.State != render.StateFailed || v.Message != render.MessageFailed || len(v.Row.Boxes) != 0 {
				t.Fatalf("expected failed view, got %+v", v)
			}
		})
	}
}

func TestMount_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	target := &recordingTarget{}
	if err := New(nil, NewFetcher(nil)).Mount(context.Background(), target, url); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if len(target.views) != 1 || target.views[0].State != render.StateFailed {
		t.Fatalf("expected failed view, got %+v", target.views)
	}
}

func TestMount_EmptyURLDoesNothing(t *testing.T) {
	target := &recordingTarget{}
	if err := New(nil, NewFetcher(nil)).Mount(context.Background(), target, ""); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if len(target.views) != 0 {
		t.Fatalf("expected no render, got %d", len(target.views))
	}
}

func TestMount_ReturnsTargetError(t *testing.T) {
	srv := newTraceServer(t, http.StatusOK, `{"nodes":[{"id":"1","name":"Farm","type":"FARM"}]}`)
	boom := errors.New("display closed")
	target := &recordingTarget{err: boom}

	err := New(nil, NewFetcher(srv.Client())).Mount(context.Background(), target, srv.URL)
	if !errors.Is(err, boom) {
		t.Fatalf("expected target error, got %v", err)
	}
}

func TestFetch_StatusError(t *testing.T) {
	srv := newTraceServer(t, http.StatusBadGateway, ``)
	_, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := newTraceServer(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFetcher(srv.Client()).Fetch(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetch_RejectsNonObject(t *testing.T) {
	for _, body := range []string{`null`, ` "trace" `, `42`} {
		srv := newTraceServer(t, http.StatusOK, body)
		if _, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL); !errors.Is(err, ErrNotObject) {
			t.Errorf("body %q: expected ErrNotObject, got %v", body, err)
		}
	}
}

func TestMount_TargetFunc(t *testing.T) {
	srv := newTraceServer(t, http.StatusOK, `null`)

	var states []render.State
	target := TargetFunc(func(view render.View) error {
		states = append(states, view.State)
		return nil
	})
	if err := New(nil, NewFetcher(srv.Client())).Mount(context.Background(), target, srv.URL); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if len(states) != 1 || states[0] != render.StateFailed {
		t.Fatalf("expected one failed view, got %v", states)
	}
}
