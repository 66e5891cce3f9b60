package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-custom-links/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/go-custom-links/pkg/config"
	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
)

const testEmail = "test@example.com"

type widgetClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
	token  string
}

func newWidgetClient(t *testing.T, store *memory.Store) *widgetClient {
	t.Helper()
	cfg := &config.Config{JWTSecret: "testservlet"}
	server := httptest.NewServer(NewRouter(cfg, store, store, nil))
	t.Cleanup(server.Close)

	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &widgetClient{
		t:      t,
		server: server,
		client: client,
		token:  generateTestToken(t, cfg.JWTSecret, testEmail, 5*time.Minute),
	}
}

func (c *widgetClient) do(method, path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.server.URL+path, body)
	require.NoError(c.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: authCookie, Value: c.token})

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(data)
}

func (c *widgetClient) post(path string, form url.Values) {
	c.t.Helper()
	resp, body := c.do(http.MethodPost, path, form)
	require.Equal(c.t, http.StatusSeeOther, resp.StatusCode, body)
}

func (c *widgetClient) links() []domain.LinkRecord {
	c.t.Helper()
	resp, body := c.do(http.MethodGet, "/api/v1/links", nil)
	require.Equal(c.t, http.StatusOK, resp.StatusCode, body)

	var out struct {
		Data  []domain.LinkRecord `json:"data"`
		Total int                 `json:"total"`
	}
	require.NoError(c.t, json.Unmarshal([]byte(body), &out))
	assert.Equal(c.t, len(out.Data), out.Total)
	return out.Data
}

func storedFor(t *testing.T, store *memory.Store, email string) []domain.LinkRecord {
	t.Helper()
	ctx := context.Background()
	u, err := store.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	rows, err := store.Query(ctx, domain.LinkFilter{UserID: u.ID})
	require.NoError(t, err)
	out := []domain.LinkRecord{}
	for _, r := range rows {
		out = append(out, r.Record())
	}
	return out
}

func newSeededStore(t *testing.T, records ...domain.LinkRecord) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	u, err := store.EnsureUser(ctx, testEmail)
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, store.Insert(ctx, &domain.StoredLink{Title: r.Title, URL: r.URL, UserID: u.ID}))
	}
	return store
}

func TestWidgetAddEditDeleteFlow(t *testing.T) {
	docs := domain.LinkRecord{Title: "Docs", URL: "http://a"}
	wiki := domain.LinkRecord{Title: "Wiki", URL: "http://b"}
	docs2 := domain.LinkRecord{Title: "Docs2", URL: "http://a2"}

	store := newSeededStore(t, docs)
	c := newWidgetClient(t, store)

	assert.Equal(t, []domain.LinkRecord{docs}, c.links())

	// add
	c.post("/widget/intent", url.Values{"intent": {"add"}})
	c.post("/widget/pane", url.Values{"action": {domain.ActionAddLink}, "linkTitle": {"Wiki"}, "linkUrl": {"http://b"}})
	assert.Equal(t, []domain.LinkRecord{docs, wiki}, c.links())
	assert.Equal(t, []domain.LinkRecord{docs, wiki}, storedFor(t, store, testEmail))

	// edit row 0
	c.post("/widget/intent", url.Values{"edit": {"0"}})
	resp, body := c.do(http.MethodGet, "/api/v1/form", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var form struct {
		PaneOpen bool                  `json:"pane_open"`
		Editing  *int                  `json:"editing"`
		Form     domain.FormDescriptor `json:"form"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &form))
	assert.True(t, form.PaneOpen)
	require.NotNil(t, form.Editing)
	assert.Equal(t, 0, *form.Editing)
	btn, ok := form.Form.Button(domain.ActionAddLink)
	require.True(t, ok)
	assert.Equal(t, "Update", btn.Text)
	_, ok = form.Form.Button(domain.ActionDeleteLink)
	assert.True(t, ok)

	c.post("/widget/pane", url.Values{"action": {domain.ActionAddLink}, "linkTitle": {"Docs2"}, "linkUrl": {"http://a2"}})
	assert.Equal(t, []domain.LinkRecord{docs2, wiki}, c.links())

	// delete row 1
	c.post("/widget/intent", url.Values{"edit": {"1"}})
	c.post("/widget/pane", url.Values{"action": {domain.ActionDeleteLink}})
	assert.Equal(t, []domain.LinkRecord{docs2}, c.links())
	assert.Equal(t, []domain.LinkRecord{docs2}, storedFor(t, store, testEmail))

	// empty submission changes nothing
	c.post("/widget/intent", url.Values{"intent": {"add"}})
	c.post("/widget/pane", url.Values{"action": {domain.ActionAddLink}, "linkTitle": {""}, "linkUrl": {"http://c"}})
	assert.Equal(t, []domain.LinkRecord{docs2}, c.links())
}

func TestWidgetPage(t *testing.T) {
	store := newSeededStore(t)
	c := newWidgetClient(t, store)

	resp, body := c.do(http.MethodGet, "/widget", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No links added yet")
	assert.NotContains(t, body, "propertyPane")
	assert.NotContains(t, body, "customLinks teams")

	c.post("/widget/intent", url.Values{"intent": {"add"}, "host": {"teams"}})

	resp, body = c.do(http.MethodGet, "/widget?host=teams", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "customLinks teams")
	assert.Contains(t, body, "propertyPane")
	assert.Contains(t, body, `value="addLink"`)
	assert.NotContains(t, body, `value="deleteLink"`)

	c.post("/widget/pane", url.Values{"action": {domain.ActionClose}})
	_, body = c.do(http.MethodGet, "/widget", nil)
	assert.NotContains(t, body, "propertyPane")
}

func TestWidgetRedirectKeepsEmbedding(t *testing.T) {
	c := newWidgetClient(t, newSeededStore(t))

	resp, _ := c.do(http.MethodPost, "/widget/intent", url.Values{"intent": {"add"}, "host": {"teams"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/widget?host=teams", resp.Header.Get("Location"))
}

func TestWidgetUnknownUser(t *testing.T) {
	c := newWidgetClient(t, memory.NewStore())

	resp, _ := c.do(http.MethodGet, "/widget", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWidgetBadRequests(t *testing.T) {
	c := newWidgetClient(t, newSeededStore(t, domain.LinkRecord{Title: "Docs", URL: "http://a"}))

	tests := []struct {
		name string
		path string
		form url.Values
	}{
		{name: "edit out of range", path: "/widget/intent", form: url.Values{"edit": {"5"}}},
		{name: "edit not a number", path: "/widget/intent", form: url.Values{"edit": {"x"}}},
		{name: "no intent", path: "/widget/intent", form: url.Values{}},
		{name: "unknown action", path: "/widget/pane", form: url.Values{"action": {"publish"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := c.do(http.MethodPost, tt.path, tt.form)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHealthz(t *testing.T) {
	c := newWidgetClient(t, memory.NewStore())
	resp, body := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"ok"}`, body)
}
