package gitstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{
		Token:             "test-token",
		Repo:              "family/dishes",
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Options{Repo: "family/dishes"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient(Options{Token: "t"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient(Options{Token: "t", Repo: "no-slash"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestListDocuments(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/family/dishes/issues", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		gotQuery = map[string]string{
			"state":     r.URL.Query().Get("state"),
			"labels":    r.URL.Query().Get("labels"),
			"per_page":  r.URL.Query().Get("per_page"),
			"sort":      r.URL.Query().Get("sort"),
			"direction": r.URL.Query().Get("direction"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"number": 12, "title": "麻婆豆腐", "body": "b", "state": "open",
			 "labels": [{"name": "dish"}, {"name": "category:小炒素菜"}],
			 "created_at": "2026-08-01T10:00:00Z", "updated_at": "2026-08-02T10:00:00Z",
			 "comments": 3}
		]`))
	}))

	docs, err := c.ListDocuments(context.Background(), "dish")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 12, docs[0].ID)
	assert.Equal(t, "麻婆豆腐", docs[0].Title)
	assert.Equal(t, []string{"dish", "category:小炒素菜"}, docs[0].Labels)
	assert.Equal(t, 3, docs[0].CommentCount)

	assert.Equal(t, map[string]string{
		"state":     "open",
		"labels":    "dish",
		"per_page":  "100",
		"sort":      "created",
		"direction": "desc",
	}, gotQuery)
}

func TestGetDocumentNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := c.GetDocument(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoteErrorPreservesStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "rate limit exceeded"}`))
	}))

	_, err := c.ListDocuments(context.Background(), "dish")
	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusForbidden, remoteErr.Status)
}

func TestCreateDocument(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/family/dishes/issues", r.URL.Path)

		var req struct {
			Title  string   `json:"title"`
			Body   string   `json:"body"`
			Labels []string `json:"labels"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "清蒸鲈鱼", req.Title)
		assert.Equal(t, []string{"dish", "category:清蒸类"}, req.Labels)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"number": 7, "title": "清蒸鲈鱼", "body": "", "state": "open",
			"labels": [{"name": "dish"}, {"name": "category:清蒸类"}],
			"created_at": "2026-08-30T08:00:00Z", "updated_at": "2026-08-30T08:00:00Z"}`))
	}))

	doc, err := c.CreateDocument(context.Background(), "清蒸鲈鱼", "", []string{"dish", "category:清蒸类"})
	require.NoError(t, err)
	assert.Equal(t, 7, doc.ID)
}

func TestUpdateDocumentSendsOnlyProvidedFields(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "body")
		assert.NotContains(t, req, "title")
		assert.NotContains(t, req, "labels")
		w.Write([]byte(`{"number": 7, "state": "open"}`))
	}))

	body := "new body"
	_, err := c.UpdateDocument(context.Background(), 7, DocumentUpdate{Body: &body})
	require.NoError(t, err)
}

func TestAddComment(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/family/dishes/issues/7/comments", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 555, "body": "x", "user": {"login": "dad"}, "created_at": "2026-08-30T09:00:00Z"}`))
	}))

	comment, err := c.AddComment(context.Background(), 7, "x")
	require.NoError(t, err)
	assert.Equal(t, int64(555), comment.ID)
	assert.Equal(t, "dad", comment.Author)
}

func TestCloseDocument(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "closed", req["state"])
		w.Write([]byte(`{"number": 7, "state": "closed"}`))
	}))

	require.NoError(t, c.CloseDocument(context.Background(), 7))
}

func TestUploadFile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/family/dishes/contents/images/cover.jpg", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "aGVsbG8=", req["content"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"content": {"path": "images/cover.jpg"}}`))
	}))

	require.NoError(t, c.UploadFile(context.Background(), "images/cover.jpg", "aGVsbG8=", "Upload image"))
}

func TestTransportFailureIsRemoteError(t *testing.T) {
	c, err := NewClient(Options{
		Token:             "t",
		Repo:              "family/dishes",
		BaseURL:           "http://127.0.0.1:1", // nothing listens here
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)

	_, err = c.ListDocuments(context.Background(), "dish")
	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, 0, remoteErr.Status)
}
