package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lironregev/studio-leads/pkg/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		Endpoint: srv.URL,
		APIToken: "test-token",
		BoardID:  "18397900958",
	}, logging.Default())
	return client, srv
}

func TestCreateItemSuccess(t *testing.T) {
	var gotReq graphQLRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "test-token" {
			t.Errorf("missing authorization header")
		}
		if r.Header.Get("API-Version") != "2024-01" {
			t.Errorf("missing API-Version header, got %q", r.Header.Get("API-Version"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"data":{"create_item":{"id":"987654"}}}`))
	})

	id, err := client.CreateItem(context.Background(), "Dana", map[string]interface{}{
		"phone_col": "0521112222",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if id != "987654" {
		t.Errorf("expected item id 987654, got %s", id)
	}

	if !strings.Contains(gotReq.Query, "create_item") {
		t.Errorf("mutation document missing create_item: %s", gotReq.Query)
	}
	vars, ok := gotReq.Variables.(map[string]interface{})
	if !ok {
		t.Fatalf("variables not a map: %T", gotReq.Variables)
	}
	if vars["boardId"] != "18397900958" {
		t.Errorf("unexpected boardId %v", vars["boardId"])
	}
	// columnValues must be a JSON-encoded string, not a nested object.
	encoded, ok := vars["columnValues"].(string)
	if !ok {
		t.Fatalf("columnValues not a string: %T", vars["columnValues"])
	}
	var cols map[string]interface{}
	if err := json.Unmarshal([]byte(encoded), &cols); err != nil {
		t.Fatalf("columnValues not valid JSON: %v", err)
	}
	if cols["phone_col"] != "0521112222" {
		t.Errorf("unexpected column values %v", cols)
	}
}

func TestCreateItemAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"ColumnValueException"},{"message":"second"}]}`))
	})

	_, err := client.CreateItem(context.Background(), "Dana", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Message != "ColumnValueException" {
		t.Errorf("expected first error message, got %q", apiErr.Message)
	}
}

func TestCreateItemMissingCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(Config{Endpoint: srv.URL, BoardID: "1"}, logging.Default())
	if _, err := client.CreateItem(context.Background(), "x", nil); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}

	client = NewClient(Config{Endpoint: srv.URL, APIToken: "t"}, logging.Default())
	if _, err := client.CreateItem(context.Background(), "x", nil); !errors.Is(err, ErrMissingBoardID) {
		t.Errorf("expected ErrMissingBoardID, got %v", err)
	}

	if called {
		t.Error("missing credentials must fail before any network call")
	}
}

func TestCreateItemNonSuccessStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`upstream exploded`))
	})

	if _, err := client.CreateItem(context.Background(), "Dana", nil); err == nil {
		t.Fatal("expected error on 500 status")
	}
}

func TestCreateItemEmptyID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"create_item":{"id":""}}}`))
	})

	if _, err := client.CreateItem(context.Background(), "Dana", nil); err == nil {
		t.Fatal("expected error on empty item id")
	}
}
