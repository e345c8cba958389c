package gitstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Options configures the tracker client.
type Options struct {
	// Token is the bearer credential. Required.
	Token string
	// Repo is the two-part repository identifier, "owner/name". Required.
	Repo string
	// BaseURL overrides the tracker API root. Default:
	// https://api.github.com. Tests point this at a local server.
	BaseURL string
	// Timeout bounds every remote call. Default: 15s.
	Timeout time.Duration
	// RequestsPerSecond throttles outgoing calls to stay inside the
	// tracker's rate-limit budget. Default: 5.
	RequestsPerSecond float64
}

// Client talks to a GitHub-style issue tracker over its REST API.
type Client struct {
	baseURL string
	owner   string
	repo    string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

var _ Store = (*Client)(nil)

// NewClient builds a tracker client, failing fast with ErrNotConfigured
// before any network call when credentials are missing or the repository
// identifier is not of the form "owner/name".
func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("missing token: %w", ErrNotConfigured)
	}
	owner, repo, ok := strings.Cut(opts.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("repository %q is not owner/name: %w", opts.Repo, ErrNotConfigured)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		owner:   owner,
		repo:    repo,
		token:   opts.Token,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		timeout: timeout,
	}, nil
}

// issueJSON is the tracker's wire shape for a document.
type issueJSON struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	State     string `json:"state"`
	Labels    []struct {
		Name string `json:"name"`
	} `json:"labels"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Comments  int       `json:"comments"`
}

func (j issueJSON) document() Document {
	labels := make([]string, 0, len(j.Labels))
	for _, l := range j.Labels {
		labels = append(labels, l.Name)
	}
	return Document{
		ID:           j.Number,
		Title:        j.Title,
		Body:         j.Body,
		State:        j.State,
		Labels:       labels,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		CommentCount: j.Comments,
	}
}

// commentJSON is the tracker's wire shape for a comment.
type commentJSON struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func (j commentJSON) comment() Comment {
	return Comment{ID: j.ID, Body: j.Body, Author: j.User.Login, CreatedAt: j.CreatedAt}
}

// ListDocuments lists open documents with the label, newest-created first.
func (c *Client) ListDocuments(ctx context.Context, label string) ([]Document, error) {
	q := url.Values{}
	q.Set("state", "open")
	q.Set("labels", label)
	q.Set("per_page", fmt.Sprint(PageSize))
	q.Set("sort", "created")
	q.Set("direction", "desc")

	var issues []issueJSON
	if err := c.do(ctx, "list documents", http.MethodGet, c.issuesPath("")+"?"+q.Encode(), nil, &issues); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(issues))
	for _, j := range issues {
		docs = append(docs, j.document())
	}
	return docs, nil
}

// GetDocument fetches a single document by id.
func (c *Client) GetDocument(ctx context.Context, id int) (*Document, error) {
	var j issueJSON
	if err := c.do(ctx, "get document", http.MethodGet, c.issuesPath(fmt.Sprintf("/%d", id)), nil, &j); err != nil {
		return nil, err
	}
	doc := j.document()
	return &doc, nil
}

// ListComments fetches the document's comments in insertion order.
func (c *Client) ListComments(ctx context.Context, id int) ([]Comment, error) {
	var raw []commentJSON
	path := c.issuesPath(fmt.Sprintf("/%d/comments?per_page=%d", id, PageSize))
	if err := c.do(ctx, "list comments", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	comments := make([]Comment, 0, len(raw))
	for _, j := range raw {
		comments = append(comments, j.comment())
	}
	return comments, nil
}

// CreateDocument creates a document; the store assigns the id.
func (c *Client) CreateDocument(ctx context.Context, title, body string, labels []string) (*Document, error) {
	req := map[string]any{"title": title, "body": body, "labels": labels}
	var j issueJSON
	if err := c.do(ctx, "create document", http.MethodPost, c.issuesPath(""), req, &j); err != nil {
		return nil, err
	}
	doc := j.document()
	return &doc, nil
}

// UpdateDocument overwrites the supplied fields wholesale.
func (c *Client) UpdateDocument(ctx context.Context, id int, upd DocumentUpdate) (*Document, error) {
	req := map[string]any{}
	if upd.Title != nil {
		req["title"] = *upd.Title
	}
	if upd.Body != nil {
		req["body"] = *upd.Body
	}
	if upd.Labels != nil {
		req["labels"] = *upd.Labels
	}

	var j issueJSON
	if err := c.do(ctx, "update document", http.MethodPatch, c.issuesPath(fmt.Sprintf("/%d", id)), req, &j); err != nil {
		return nil, err
	}
	doc := j.document()
	return &doc, nil
}

// AddComment appends a comment to the document.
func (c *Client) AddComment(ctx context.Context, id int, body string) (*Comment, error) {
	req := map[string]any{"body": body}
	var j commentJSON
	if err := c.do(ctx, "add comment", http.MethodPost, c.issuesPath(fmt.Sprintf("/%d/comments", id)), req, &j); err != nil {
		return nil, err
	}
	comment := j.comment()
	return &comment, nil
}

// CloseDocument transitions the document to the closed state. The content
// is retained; this is the soft delete.
func (c *Client) CloseDocument(ctx context.Context, id int) error {
	req := map[string]any{"state": "closed"}
	return c.do(ctx, "close document", http.MethodPatch, c.issuesPath(fmt.Sprintf("/%d", id)), req, nil)
}

// UploadFile writes a base64-encoded file into the backing repository via
// the contents endpoint.
func (c *Client) UploadFile(ctx context.Context, path, contentBase64, message string) error {
	req := map[string]any{"message": message, "content": contentBase64}
	reqPath := fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, c.repo, path)
	return c.do(ctx, "upload file", http.MethodPut, reqPath, req, nil)
}

// Owner returns the repository owner.
func (c *Client) Owner() string { return c.owner }

// Repo returns the repository name.
func (c *Client) Repo() string { return c.repo }

func (c *Client) issuesPath(suffix string) string {
	return fmt.Sprintf("/repos/%s/%s/issues%s", c.owner, c.repo, suffix)
}

// do performs one tracker call: rate-limited, bounded by the client timeout,
// bearer-authenticated, and JSON on both sides. Non-success statuses map to
// ErrNotFound (404) or *RemoteError; transport failures become a
// *RemoteError with Status 0.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &RemoteError{Op: op, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little of the body for diagnostics; the status is what
		// callers dispatch on.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(snippet)))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
