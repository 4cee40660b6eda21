package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/trove"
	httpAdapter "github.com/aretw0/trove/pkg/adapters/http"
	"github.com/aretw0/trove/pkg/adapters/memory"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, opts ...httpAdapter.Option) http.Handler {
	t.Helper()
	eng, err := trove.New("", trove.WithSource(memory.MustNewSource(map[string]string{
		"loot_table:chest":  `{"type": "chest", "pools": [{"rolls": 2, "entries": [{"type": "item", "name": "gem"}]}]}`,
		"loot_table:broken": `{"pools": [{"entries": [{"type": "loot_table", "name": "ghost"}]}]}`,
		"predicate:lucky":   `{"type": "random_chance", "chance": 0.5}`,
	})))
	require.NoError(t, err)
	return httpAdapter.NewHandler(eng, opts...)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGenerate(t *testing.T) {
	h := newServer(t)

	w := do(h, "POST", "/generate", `{"table": "chest", "seed": 5, "params": {"origin": {"x": 1, "y": 64, "z": 1}}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res trove.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, uint64(5), res.Seed)
	assert.Equal(t, domain.TableID("chest"), res.Table)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "gem", res.Items[0].Name)
}

func TestGenerate_Errors(t *testing.T) {
	h := newServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"no table", `{}`, http.StatusBadRequest},
		{"unknown table", `{"table": "nope"}`, http.StatusNotFound},
		{"missing params", `{"table": "chest"}`, http.StatusUnprocessableEntity},
		{"bad param", `{"table": "chest", "params": {"explosion_radius": "loud"}}`, http.StatusBadRequest},
		{"empty table", `{"table": ""}`, http.StatusBadRequest},
		{"luck is not a number", `{"table": "chest", "luck": "high"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, do(h, "POST", "/generate", tt.body).Code)
		})
	}
}

func TestReadEndpoints(t *testing.T) {
	h := newServer(t, httpAdapter.WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})))

	w := do(h, "GET", "/tables", "")
	require.Equal(t, http.StatusOK, w.Code)
	var tables []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tables))
	assert.Equal(t, []string{"broken", "chest", "empty"}, tables)

	w = do(h, "GET", "/problems", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "unknown loot table called ghost")

	w = do(h, "GET", "/healthz", "")
	var health struct {
		Status      string    `json:"status"`
		PublishedAt time.Time `json:"published_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.WithinDuration(t, time.Now(), health.PublishedAt, time.Minute)

	w = do(h, "GET", "/graph", "")
	assert.Contains(t, w.Body.String(), "loot_table__broken -.-> loot_table__ghost")

	assert.Equal(t, "metrics", do(h, "GET", "/metrics", "").Body.String())
	assert.Equal(t, http.StatusOK, do(h, "POST", "/reload", "").Code)
	assert.Equal(t, "*", do(h, "OPTIONS", "/generate", "").Header().Get("Access-Control-Allow-Origin"))
}

func TestGenerate_RequiresJSONContentType(t *testing.T) {
	h := newServer(t)

	req := httptest.NewRequest("POST", "/generate", strings.NewReader(`{"table": "chest"}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Content-Type")
}

func TestListTables_Kind(t *testing.T) {
	h := newServer(t)

	w := do(h, "GET", "/tables?kind=predicate", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal(t, []string{"lucky"}, names)

	w = do(h, "GET", "/tables?kind=item_modifier", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(h, "GET", "/tables?kind=recipe", "").Code)
}

func TestOpenAPISpec(t *testing.T) {
	doc, err := httpAdapter.LoadSpec()
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	for _, path := range []string{"/healthz", "/tables", "/problems", "/graph", "/reload", "/generate"} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}

	w := do(newServer(t), "GET", "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "title: Trove API")
}
