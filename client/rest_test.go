package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/apikit/envelope"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestGetDecodesEnvelopeData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"w1","name":"widget"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	result, err := Get[widget](context.Background(), c, "/widgets/w1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", result.StatusCode)
	}
	if result.Data.ID != "w1" || result.Data.Name != "widget" {
		t.Errorf("unexpected data: %+v", result.Data)
	}
}

func TestGetEmptyBodyYieldsNullContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	result, err := Get[widget](context.Background(), c, "/widgets/w1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	first := result.Envelope.Envelope.FirstError()
	if first == nil || first.Code != envelope.CodeNullContent {
		t.Errorf("expected NullContent entry, got %+v", first)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("status must survive an empty body, got %d", result.StatusCode)
	}
}

func TestGetNonJSONBodyYieldsJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	result, err := Get[widget](context.Background(), c, "/widgets/w1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	first := result.Envelope.Envelope.FirstError()
	if first == nil || first.Code != envelope.CodeJSONError {
		t.Errorf("expected JsonError entry, got %+v", first)
	}
}

func TestGetMismatchedDataShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":["not","an","object"]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	result, err := Get[widget](context.Background(), c, "/widgets/w1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	first := result.Envelope.Envelope.FirstError()
	if first == nil || first.Code != envelope.CodeDeserialization {
		t.Errorf("expected DeserializationError entry, got %+v", first)
	}
	if result.Data.ID != "" {
		t.Errorf("expected zero data, got %+v", result.Data)
	}
}

func TestPostRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"w2","name":"gadget"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	result, err := Post[widget](context.Background(), c, "/widgets", widget{Name: "gadget"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if result.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", result.StatusCode)
	}
	if result.Data.ID != "w2" {
		t.Errorf("unexpected data: %+v", result.Data)
	}
}

func TestDeleteNotFoundIsAnOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"code":"NotFound","message":"no such widget"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	result, err := Delete[widget](context.Background(), c, "/widgets/w9")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if result.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", result.StatusCode)
	}
	first := result.Envelope.Envelope.FirstError()
	if first == nil || first.Code != "NotFound" {
		t.Errorf("expected server error entry, got %+v", first)
	}
}

func TestEnvelopePagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"w1","name":"widget"}],"pagination":{"totalCount":42,"skip":0,"top":1,"hasMore":true}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	result, err := Get[[]widget](context.Background(), c, "/widgets")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	p := result.Envelope.Envelope.Pagination
	if p == nil || p.TotalCount != 42 || !p.HasMore {
		t.Errorf("unexpected pagination: %+v", p)
	}
	if len(result.Data) != 1 {
		t.Errorf("expected one item, got %d", len(result.Data))
	}
}
