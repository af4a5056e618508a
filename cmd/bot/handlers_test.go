package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"arcade-bot/internal/config"
	"arcade-bot/internal/store"
)

type fakeDashboardStore struct {
	configs map[string]store.CommunityConfig
	logs    []store.ChatLog
	pingErr error
}

func newFakeDashboardStore() *fakeDashboardStore {
	return &fakeDashboardStore{configs: map[string]store.CommunityConfig{}}
}

func (f *fakeDashboardStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeDashboardStore) GetCommunityConfig(_ context.Context, communityID string) (*store.CommunityConfig, error) {
	cfg, ok := f.configs[communityID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &cfg, nil
}

func (f *fakeDashboardStore) UpsertCommunityConfig(_ context.Context, cfg store.CommunityConfig) error {
	f.configs[cfg.CommunityID] = cfg
	return nil
}

func (f *fakeDashboardStore) ListCommunityConfigs(context.Context) ([]store.CommunityConfig, error) {
	var items []store.CommunityConfig
	for _, c := range f.configs {
		items = append(items, c)
	}
	return items, nil
}

func (f *fakeDashboardStore) ListChatLogs(_ context.Context, communityID string, limit, offset int) ([]store.ChatLog, error) {
	var items []store.ChatLog
	for _, l := range f.logs {
		if l.CommunityID == communityID {
			items = append(items, l)
		}
	}
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func newTestServer(t *testing.T, st dashboardStore, adminKey string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newRouter(st, config.ServerConfig{AdminAPIKey: adminKey}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, adminKey, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if adminKey != "" {
		req.Header.Set("X-Admin-Key", adminKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, newFakeDashboardStore(), "")
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["ok"] != true || body["db"] != "up" {
		t.Fatalf("body = %v", body)
	}
}

func TestConfigRequiresAdminKey(t *testing.T) {
	srv := newTestServer(t, newFakeDashboardStore(), "sekrit")

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/config/c1", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no key status = %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/config/c1", "sekrit", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("with key status = %d, want 200", resp.StatusCode)
	}
}

func TestGetConfigDefaultsForUnknownCommunity(t *testing.T) {
	srv := newTestServer(t, newFakeDashboardStore(), "")
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/config/c9", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["community_id"] != "c9" || body["chat_enabled"] != true || body["games_enabled"] != true {
		t.Fatalf("body = %v", body)
	}
}

func TestPutConfigRoundTrip(t *testing.T) {
	st := newFakeDashboardStore()
	srv := newTestServer(t, st, "")

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/config/c1", "",
		`{"system_prompt":"You are a pirate.","games_enabled":false}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d", resp.StatusCode)
	}

	_, body := doJSON(t, http.MethodGet, srv.URL+"/api/config/c1", "", "")
	if body["system_prompt"] != "You are a pirate." {
		t.Fatalf("system_prompt = %v", body["system_prompt"])
	}
	if body["games_enabled"] != false || body["chat_enabled"] != true {
		t.Fatalf("flags = %v", body)
	}

	// a partial update keeps the untouched fields
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/config/c1", "", `{"chat_enabled":false}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second put status = %d", resp.StatusCode)
	}
	_, body = doJSON(t, http.MethodGet, srv.URL+"/api/config/c1", "", "")
	if body["system_prompt"] != "You are a pirate." || body["games_enabled"] != false || body["chat_enabled"] != false {
		t.Fatalf("after partial update = %v", body)
	}
}

func TestPutConfigRejectsBadJSON(t *testing.T) {
	srv := newTestServer(t, newFakeDashboardStore(), "")
	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/config/c1", "", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["error"] != "invalid_json" {
		t.Fatalf("body = %v", body)
	}
}

func TestChatLogsPagination(t *testing.T) {
	st := newFakeDashboardStore()
	for i := 0; i < 5; i++ {
		st.logs = append(st.logs, store.ChatLog{ID: store.NewID(), CommunityID: "c1", Role: "user", Content: "m"})
	}
	srv := newTestServer(t, st, "")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/chatlogs/c1?limit=2&offset=1", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	items, ok := body["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("items = %v", body["items"])
	}
	if body["limit"] != float64(2) || body["offset"] != float64(1) {
		t.Fatalf("pagination echo = %v", body)
	}
}

func TestHealthReportsDBDown(t *testing.T) {
	st := newFakeDashboardStore()
	st.pingErr = context.DeadlineExceeded
	srv := newTestServer(t, st, "")
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["db"] != "down" {
		t.Fatalf("body = %v", body)
	}
}
