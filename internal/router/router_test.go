package router

// router_test.go
// End-to-end flows through the full middleware chain against a fake inventory
// API served by httptest. No containers required.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"stockportal/internal/config"
	"stockportal/internal/infra"
	"stockportal/internal/notify"
	"stockportal/internal/repository"
	"stockportal/internal/service"
	"stockportal/internal/store"
	"stockportal/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Fake inventory API ───────────────────────────────────────────────────────

type fakeUpstream struct {
	mu        sync.Mutex
	nextID    int64
	items     map[int64]map[string]any
	suppliers map[int64]map[string]any
	// rejectAuth makes every call answer 401.
	rejectAuth bool
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{nextID: 1, items: map[int64]map[string]any{}, suppliers: map[int64]map[string]any{}}
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, pass, ok := r.BasicAuth()
	if f.rejectAuth || !ok || user != "api" || pass != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	var coll map[int64]map[string]any
	switch parts[0] {
	case "transactions":
		coll = f.items
	case "suppliers":
		coll = f.suppliers
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			out := make([]map[string]any, 0, len(coll))
			for _, rec := range coll {
				out = append(out, rec)
			}
			writeJSON(w, http.StatusOK, out)
		case http.MethodPost:
			var rec map[string]any
			_ = json.NewDecoder(r.Body).Decode(&rec)
			rec["id"] = f.nextID
			coll[f.nextID] = rec
			f.nextID++
			writeJSON(w, http.StatusOK, rec)
		}
		return
	}

	id, _ := strconv.ParseInt(parts[1], 10, 64)
	if _, exists := coll[id]; !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
		return
	}
	switch r.Method {
	case http.MethodPut:
		var rec map[string]any
		_ = json.NewDecoder(r.Body).Decode(&rec)
		rec["id"] = id
		coll[id] = rec
		writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		delete(coll, id)
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	}
}

func (f *fakeUpstream) setRejectAuth(v bool) {
	f.mu.Lock()
	f.rejectAuth = v
	f.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	server   *httptest.Server
	upstream *fakeUpstream
	cache    *store.Collections
	feed     *notify.Feed
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	up := newFakeUpstream()
	upSrv := httptest.NewServer(up)
	t.Cleanup(upSrv.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte("portal-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		CORSOrigin:         "*",
		LoginAttempts:      100,
		ItemsPageSize:      10,
		SuppliersPageSize:  5,
		MetricsEnabled:     true,
		PortalUsername:     "admin",
		PortalPasswordHash: string(hash),
	}

	reg := prometheus.NewRegistry()
	metrics := infra.NewMetrics(reg)
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	client := infra.NewInventoryAPIClient(infra.InventoryAPIConfig{
		BaseURL:  upSrv.URL,
		Username: "api",
		Password: "secret",
	}, cb, metrics)

	items := repository.NewItemRepository(client)
	suppliers := repository.NewSupplierRepository(client)
	cache := store.New(items, suppliers, metrics)
	feed := notify.NewFeed(notify.DefaultFeedSize)
	t.Cleanup(worker.TrackCacheMetrics(cache, metrics))

	sessions := service.NewSessionService(
		service.NewStaticAuthenticator(cfg.PortalUsername, cfg.PortalPasswordHash),
		repository.NewMemorySessionRepository(),
		"test-secret",
		0,
	)

	engine := New(cfg, Deps{
		Catalog:   service.NewCatalogService(cache, feed),
		Inventory: service.NewInventoryService(items, suppliers, cache, feed, metrics),
		Sessions:  sessions,
		Feed:      feed,
		Breaker:   cb,
		Gatherer:  reg,
	})
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, upstream: up, cache: cache, feed: feed}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func login(t *testing.T, env *testEnv) string {
	t.Helper()
	resp := do(t, env.server, http.MethodPost, "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "portal-pass"}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &out)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func itemPayload(name string, qty int) map[string]any {
	return map[string]any{
		"product_name": name,
		"category":     "Healing Items",
		"quantity":     qty,
		"price":        19.99,
		"description":  "",
		"date":         "2024-03-01",
		"vat":          true,
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestHealth_Public(t *testing.T) {
	env := setupTestEnv(t)
	resp := do(t, env.server, http.MethodGet, "/health", nil, "")
	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "closed", body["upstream"])
	assert.Equal(t, "connected", body["session_store"])
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	env := setupTestEnv(t)
	for _, path := range []string{"/v1/items", "/v1/suppliers", "/v1/summary", "/v1/notifications"} {
		resp := do(t, env.server, http.MethodGet, path, nil, "")
		var body map[string]string
		decodeJSON(t, resp, &body)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, "/login", body["redirect"], path)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	resp := do(t, env.server, http.MethodPost, "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "nope"}), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestItemLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	token := login(t, env)

	// Empty collection after the first refresh.
	resp := do(t, env.server, http.MethodPost, "/v1/refresh", nil, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, env.server, http.MethodGet, "/v1/items", nil, token)
	var list struct {
		Rows  []map[string]any `json:"rows"`
		State string           `json:"state"`
	}
	decodeJSON(t, resp, &list)
	assert.Equal(t, "empty", list.State)

	// Create
	resp = do(t, env.server, http.MethodPost, "/v1/items", jsonBody(t, itemPayload("Potion", 5)), token)
	var created struct {
		Notification notify.Notification `json:"notification"`
		Redirect     string              `json:"redirect"`
	}
	decodeJSON(t, resp, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, service.MsgItemAdded, created.Notification.Message)
	assert.Equal(t, "/", created.Redirect)

	// The table reflects the refreshed collection.
	resp = do(t, env.server, http.MethodGet, "/v1/items?status=low_stock", nil, token)
	decodeJSON(t, resp, &list)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, "Potion", list.Rows[0]["product_name"])
	assert.Equal(t, "Low Stock", list.Rows[0]["stock_status"])
	id := int64(list.Rows[0]["id"].(float64))

	// Detail
	resp = do(t, env.server, http.MethodGet, fmt.Sprintf("/v1/items/%d", id), nil, token)
	var detail map[string]any
	decodeJSON(t, resp, &detail)
	assert.Equal(t, "No supplier assigned", detail["supplier_label"])
	assert.Equal(t, "No description provided", detail["description_label"])

	// Update
	resp = do(t, env.server, http.MethodPut, fmt.Sprintf("/v1/items/%d", id), jsonBody(t, itemPayload("Super Potion", 40)), token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, env.server, http.MethodGet, "/v1/summary", nil, token)
	var sum map[string]int
	decodeJSON(t, resp, &sum)
	assert.Equal(t, 1, sum["available"])
	assert.Equal(t, 0, sum["low_stock"])

	// Delete
	resp = do(t, env.server, http.MethodDelete, fmt.Sprintf("/v1/items/%d", id), nil, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, env.cache.Items())

	// Deleting again reports the upstream 404 and an error notification.
	resp = do(t, env.server, http.MethodDelete, fmt.Sprintf("/v1/items/%d", id), nil, token)
	var failed map[string]any
	decodeJSON(t, resp, &failed)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, service.MsgItemDeleteFailed, failed["detail"])

	resp = do(t, env.server, http.MethodGet, "/v1/notifications?limit=1", nil, token)
	var recent []notify.Notification
	decodeJSON(t, resp, &recent)
	require.Len(t, recent, 1)
	assert.Equal(t, notify.Error, recent[0].Severity)
}

func TestCreateItem_ValidationFailure(t *testing.T) {
	env := setupTestEnv(t)
	token := login(t, env)

	bad := itemPayload("P", -1)
	bad["category"] = "Snacks"
	resp := do(t, env.server, http.MethodPost, "/v1/items", jsonBody(t, bad), token)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body.Fields, "product_name")
	assert.Contains(t, body.Fields, "quantity")
	assert.Contains(t, body.Fields, "category")
}

func TestSuppliers_ItemCountAndDanglingReference(t *testing.T) {
	env := setupTestEnv(t)
	token := login(t, env)

	resp := do(t, env.server, http.MethodPost, "/v1/suppliers", jsonBody(t, map[string]string{
		"supplier_name":           "Silph Co.",
		"supplier_contact_person": "Mr. Fuji",
		"supplier_contact_number": "+81-555-0100",
	}), token)
	var out struct {
		Supplier struct {
			ID int64 `json:"id"`
		} `json:"supplier"`
	}
	decodeJSON(t, resp, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sid := out.Supplier.ID
	require.NotZero(t, sid)

	payload := itemPayload("Ultra Ball", 12)
	payload["supplier_id"] = sid
	resp = do(t, env.server, http.MethodPost, "/v1/items", jsonBody(t, payload), token)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, env.server, http.MethodGet, "/v1/suppliers", nil, token)
	var list struct {
		Rows []map[string]any `json:"rows"`
	}
	decodeJSON(t, resp, &list)
	require.Len(t, list.Rows, 1)
	assert.EqualValues(t, 1, list.Rows[0]["item_count"])

	resp = do(t, env.server, http.MethodDelete, fmt.Sprintf("/v1/suppliers/%d", sid), nil, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items := env.cache.Items()
	require.Len(t, items, 1)
	resp = do(t, env.server, http.MethodGet, fmt.Sprintf("/v1/items/%d", items[0].ID), nil, token)
	var detail map[string]any
	decodeJSON(t, resp, &detail)
	assert.Equal(t, "No supplier assigned", detail["supplier_label"])
}

func TestUpstreamUnauthorized_InvalidatesSession(t *testing.T) {
	env := setupTestEnv(t)
	token := login(t, env)

	env.upstream.setRejectAuth(true)
	resp := do(t, env.server, http.MethodPost, "/v1/items", jsonBody(t, itemPayload("Potion", 5)), token)
	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/login", body["redirect"])

	// The session is gone even though upstream recovers.
	env.upstream.setRejectAuth(false)
	resp = do(t, env.server, http.MethodGet, "/v1/items", nil, token)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	env := setupTestEnv(t)
	token := login(t, env)

	resp := do(t, env.server, http.MethodPost, "/v1/auth/logout", nil, token)
	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", body["redirect"])

	resp = do(t, env.server, http.MethodGet, "/v1/summary", nil, token)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExports(t *testing.T) {
	env := setupTestEnv(t)
	token := login(t, env)
	require.NoError(t, env.cache.RefreshAll(context.Background()))

	resp := do(t, env.server, http.MethodGet, "/v1/items/export.xlsx", nil, token)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	resp = do(t, env.server, http.MethodGet, "/v1/items/report.pdf?sort=asc", nil, token)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestMetricsAndOpenAPI(t *testing.T) {
	env := setupTestEnv(t)
	token := login(t, env)
	resp := do(t, env.server, http.MethodPost, "/v1/refresh", nil, token)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/metrics", nil, "")
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), "stockportal_upstream_requests_total")
	assert.Contains(t, buf.String(), `stockportal_cache_records{collection="items"} 0`)

	resp = do(t, env.server, http.MethodGet, "/openapi.yaml", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
