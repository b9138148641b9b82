package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matslogic/matslogic/pkg/auth"
	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/logging"
	"github.com/matslogic/matslogic/pkg/metrics"
	"github.com/matslogic/matslogic/pkg/store/memory"
)

const testJWTSecret = "api-test-secret-0123456789abcdefghij"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	svc := graph.NewService(store)
	users := auth.NewService(store)
	jwtManager, err := auth.NewJWTManager(testJWTSecret, 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("failed to create jwt manager: %v", err)
	}

	s := NewServer(":0", svc, users, jwtManager, metrics.NewRegistry(), logging.NewNopLogger())
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts
}

// do sends a JSON request and decodes the JSON response into out (when out
// is non-nil), returning the status code.
func do(t *testing.T, ts *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	var tokens TokenResponse
	status := do(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "correct-horse-battery",
	}, &tokens)
	if status != http.StatusCreated {
		t.Fatalf("register returned %d", status)
	}
	return tokens.AccessToken
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	var tokens TokenResponse
	status := do(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "correct-horse-battery",
	}, &tokens)
	if status != http.StatusCreated {
		t.Fatalf("register returned %d", status)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	t.Run("duplicate email", func(t *testing.T) {
		status := do(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
			"name":     "Alice Again",
			"email":    "alice@example.com",
			"password": "correct-horse-battery",
		}, nil)
		if status != http.StatusConflict {
			t.Errorf("expected 409, got %d", status)
		}
	})

	t.Run("login", func(t *testing.T) {
		var login TokenResponse
		status := do(t, ts, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct-horse-battery",
		}, &login)
		if status != http.StatusOK {
			t.Fatalf("login returned %d", status)
		}
		if login.UserID != tokens.UserID {
			t.Errorf("expected user %d, got %d", tokens.UserID, login.UserID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		status := do(t, ts, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong-password",
		}, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", status)
		}
	})

	t.Run("refresh", func(t *testing.T) {
		var refreshed TokenResponse
		status := do(t, ts, http.MethodPost, "/auth/refresh", "", map[string]string{
			"refresh_token": tokens.RefreshToken,
		}, &refreshed)
		if status != http.StatusOK {
			t.Fatalf("refresh returned %d", status)
		}
		if refreshed.AccessToken == "" {
			t.Error("expected a fresh access token")
		}
	})

	t.Run("auth required", func(t *testing.T) {
		if status := do(t, ts, http.MethodGet, "/graphs", "", nil, nil); status != http.StatusUnauthorized {
			t.Errorf("expected 401 without token, got %d", status)
		}
		if status := do(t, ts, http.MethodGet, "/graphs", "garbage-token", nil, nil); status != http.StatusUnauthorized {
			t.Errorf("expected 401 with bad token, got %d", status)
		}
	})
}

func TestGraphEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "alice@example.com")
	otherToken := registerUser(t, ts, "bob@example.com")

	var g graph.Graph
	status := do(t, ts, http.MethodPost, "/graphs", token, map[string]string{"title": "Guard Passing"}, &g)
	if status != http.StatusCreated {
		t.Fatalf("create graph returned %d", status)
	}

	t.Run("empty title rejected", func(t *testing.T) {
		if status := do(t, ts, http.MethodPost, "/graphs", token, map[string]string{"title": ""}, nil); status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("list", func(t *testing.T) {
		var graphs []graph.Graph
		if status := do(t, ts, http.MethodGet, "/graphs", token, nil, &graphs); status != http.StatusOK {
			t.Fatalf("list returned %d", status)
		}
		if len(graphs) != 1 {
			t.Errorf("expected 1 graph, got %d", len(graphs))
		}
	})

	t.Run("get", func(t *testing.T) {
		var got graph.Graph
		if status := do(t, ts, http.MethodGet, fmt.Sprintf("/graphs/%d", g.ID), token, nil, &got); status != http.StatusOK {
			t.Fatalf("get returned %d", status)
		}
		if got.Title != "Guard Passing" {
			t.Errorf("unexpected title %q", got.Title)
		}
	})

	t.Run("foreign graph is 404", func(t *testing.T) {
		if status := do(t, ts, http.MethodGet, fmt.Sprintf("/graphs/%d", g.ID), otherToken, nil, nil); status != http.StatusNotFound {
			t.Errorf("expected 404, got %d", status)
		}
	})

	t.Run("rename", func(t *testing.T) {
		var renamed graph.Graph
		if status := do(t, ts, http.MethodPut, fmt.Sprintf("/graphs/%d", g.ID), token, map[string]string{"title": "Passing"}, &renamed); status != http.StatusOK {
			t.Fatalf("rename returned %d", status)
		}
		if renamed.Title != "Passing" {
			t.Errorf("unexpected title %q", renamed.Title)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if status := do(t, ts, http.MethodDelete, fmt.Sprintf("/graphs/%d", g.ID), token, nil, nil); status != http.StatusOK {
			t.Fatalf("delete returned %d", status)
		}
		if status := do(t, ts, http.MethodGet, fmt.Sprintf("/graphs/%d", g.ID), token, nil, nil); status != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", status)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		if status := do(t, ts, http.MethodGet, "/graphs/abc", token, nil, nil); status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})
}

func TestNodeAndEdgeEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "alice@example.com")

	var g graph.Graph
	if status := do(t, ts, http.MethodPost, "/graphs", token, map[string]string{"title": "Flow"}, &g); status != http.StatusCreated {
		t.Fatalf("create graph returned %d", status)
	}

	makeNode := func(name string) graph.Node {
		var n graph.Node
		status := do(t, ts, http.MethodPost, "/nodes", token, map[string]any{
			"graph_id": g.ID,
			"name":     name,
		}, &n)
		if status != http.StatusCreated {
			t.Fatalf("create node returned %d", status)
		}
		return n
	}

	closed := makeNode("Closed Guard")
	mount := makeNode("Mount")
	side := makeNode("Side Control")

	t.Run("list nodes by graph", func(t *testing.T) {
		var nodes []graph.Node
		if status := do(t, ts, http.MethodGet, fmt.Sprintf("/nodes?graph_id=%d", g.ID), token, nil, &nodes); status != http.StatusOK {
			t.Fatalf("list returned %d", status)
		}
		if len(nodes) != 3 {
			t.Errorf("expected 3 nodes, got %d", len(nodes))
		}
	})

	var e graph.Edge
	status := do(t, ts, http.MethodPost, "/edges", token, map[string]any{
		"from_node_id": closed.ID,
		"to_node_id":   mount.ID,
		"polarity":     "positive",
		"note":         "hip bump sweep",
	}, &e)
	if status != http.StatusCreated {
		t.Fatalf("create edge returned %d", status)
	}

	t.Run("duplicate triple is 409", func(t *testing.T) {
		status := do(t, ts, http.MethodPost, "/edges", token, map[string]any{
			"from_node_id": closed.ID,
			"to_node_id":   mount.ID,
			"polarity":     "positive",
		}, nil)
		if status != http.StatusConflict {
			t.Errorf("expected 409, got %d", status)
		}
	})

	t.Run("bad polarity is 400", func(t *testing.T) {
		status := do(t, ts, http.MethodPost, "/edges", token, map[string]any{
			"from_node_id": closed.ID,
			"to_node_id":   mount.ID,
			"polarity":     "sideways",
		}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("update edge", func(t *testing.T) {
		var updated graph.Edge
		status := do(t, ts, http.MethodPut, fmt.Sprintf("/edges/%d", e.ID), token, map[string]any{
			"note": "updated note",
		}, &updated)
		if status != http.StatusOK {
			t.Fatalf("update returned %d", status)
		}
		if updated.Note != "updated note" {
			t.Errorf("unexpected note %q", updated.Note)
		}
		if updated.Polarity != graph.PolarityPositive {
			t.Errorf("polarity changed unexpectedly to %s", updated.Polarity)
		}
	})

	t.Run("next nodes", func(t *testing.T) {
		status := do(t, ts, http.MethodPost, "/edges", token, map[string]any{
			"from_node_id": closed.ID,
			"to_node_id":   side.ID,
			"polarity":     "negative",
		}, nil)
		if status != http.StatusCreated {
			t.Fatalf("create edge returned %d", status)
		}

		var next []graph.Node
		if status := do(t, ts, http.MethodGet, fmt.Sprintf("/nodes/%d/next", closed.ID), token, nil, &next); status != http.StatusOK {
			t.Fatalf("next returned %d", status)
		}
		if len(next) != 2 {
			t.Errorf("expected 2 targets, got %d", len(next))
		}

		var positiveOnly []graph.Node
		if status := do(t, ts, http.MethodGet, fmt.Sprintf("/nodes/%d/next?polarity=positive", closed.ID), token, nil, &positiveOnly); status != http.StatusOK {
			t.Fatalf("filtered next returned %d", status)
		}
		if len(positiveOnly) != 1 || positiveOnly[0].ID != mount.ID {
			t.Errorf("expected only node %d, got %v", mount.ID, positiveOnly)
		}

		if status := do(t, ts, http.MethodGet, fmt.Sprintf("/nodes/%d/next?polarity=bogus", closed.ID), token, nil, nil); status != http.StatusBadRequest {
			t.Errorf("expected 400 for bad polarity, got %d", status)
		}
	})

	t.Run("technique lifecycle", func(t *testing.T) {
		path := fmt.Sprintf("/nodes/%d/technique", mount.ID)

		if status := do(t, ts, http.MethodGet, path, token, nil, nil); status != http.StatusNotFound {
			t.Errorf("expected 404 before create, got %d", status)
		}

		var tech graph.Technique
		status := do(t, ts, http.MethodPost, path, token, map[string]string{
			"video_url": "https://example.com/mount.mp4",
			"steps":     "establish grips, climb knees",
		}, &tech)
		if status != http.StatusCreated {
			t.Fatalf("create technique returned %d", status)
		}

		if status := do(t, ts, http.MethodPost, path, token, map[string]string{"steps": "again"}, nil); status != http.StatusConflict {
			t.Errorf("expected 409 for second attachment, got %d", status)
		}

		var updated graph.Technique
		if status := do(t, ts, http.MethodPut, path, token, map[string]string{"steps": "new steps"}, &updated); status != http.StatusOK {
			t.Fatalf("update technique returned %d", status)
		}
		if updated.Steps != "new steps" {
			t.Errorf("unexpected steps %q", updated.Steps)
		}
		if updated.VideoURL != "https://example.com/mount.mp4" {
			t.Errorf("video url changed unexpectedly to %q", updated.VideoURL)
		}

		if status := do(t, ts, http.MethodDelete, path, token, nil, nil); status != http.StatusOK {
			t.Fatalf("delete technique returned %d", status)
		}
		if status := do(t, ts, http.MethodGet, path, token, nil, nil); status != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", status)
		}
	})

	t.Run("delete node cascades", func(t *testing.T) {
		if status := do(t, ts, http.MethodDelete, fmt.Sprintf("/nodes/%d", closed.ID), token, nil, nil); status != http.StatusOK {
			t.Fatalf("delete node returned %d", status)
		}
		var edges []graph.Edge
		if status := do(t, ts, http.MethodGet, "/edges", token, nil, &edges); status != http.StatusOK {
			t.Fatalf("list edges returned %d", status)
		}
		if len(edges) != 0 {
			t.Errorf("expected no edges after cascade, got %d", len(edges))
		}
	})
}

func TestGraphQLEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "alice@example.com")

	var g graph.Graph
	if status := do(t, ts, http.MethodPost, "/graphs", token, map[string]string{"title": "Queryable"}, &g); status != http.StatusCreated {
		t.Fatalf("create graph returned %d", status)
	}

	var resp struct {
		Data struct {
			Graphs []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"graphs"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	status := do(t, ts, http.MethodPost, "/graphql", token, map[string]string{
		"query": `{ graphs { id title } }`,
	}, &resp)
	if status != http.StatusOK {
		t.Fatalf("graphql returned %d", status)
	}
	if len(resp.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}
	if len(resp.Data.Graphs) != 1 || resp.Data.Graphs[0].Title != "Queryable" {
		t.Errorf("unexpected graphs payload: %+v", resp.Data.Graphs)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	var health HealthResponse
	if status := do(t, ts, http.MethodGet, "/health", "", nil, &health); status != http.StatusOK {
		t.Fatalf("health returned %d", status)
	}
	if health.Status != "healthy" {
		t.Errorf("unexpected status %q", health.Status)
	}

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics returned %d", resp.StatusCode)
	}
}
