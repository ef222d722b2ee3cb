package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/jarvis-bot/internal/knowledge"
	"github.com/xaenox/jarvis-bot/internal/models"
	"github.com/xaenox/jarvis-bot/internal/quickaction"
	"github.com/xaenox/jarvis-bot/internal/resolver"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, ready bool) *httptest.Server {
	t.Helper()

	r := resolver.New(
		quickaction.NewDefaultRegistry(quickaction.Options{Random: quickaction.NewRandom(1)}),
		zap.NewNop(),
		resolver.WithRandom(quickaction.NewRandom(1)),
	)
	if ready {
		r.SetBase(knowledge.NewBase([]models.Category{{
			Name:          "greetings",
			Conversations: []models.ConversationPair{{User: "hello", Bot: "hi there"}},
		}}))
	}

	srv := httptest.NewServer(New(r, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func postResolve(t *testing.T, url, body string) (*http.Response, resolveResponse) {
	t.Helper()

	resp, err := http.Post(url+"/api/resolve", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out resolveResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestResolveEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	resp, out := postResolve(t, srv.URL, `{"text": "  Hello "}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hi there", out.Reply)
	assert.Equal(t, models.IntentExactMatch, out.Intent)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	_, out = postResolve(t, srv.URL, `{"text": "12 / 4 + 1"}`)
	assert.Equal(t, "The result is: 4", out.Reply)
	assert.Equal(t, models.IntentExpression, out.Intent)

	_, out = postResolve(t, srv.URL, `{"text": "tell me a joke"}`)
	assert.Equal(t, models.IntentQuickAction, out.Intent)
	assert.Equal(t, quickaction.ActionJoke, out.Action)
}

func TestResolveEndpoint_NotReady(t *testing.T) {
	srv := newTestServer(t, false)

	_, out := postResolve(t, srv.URL, `{"text": "hello"}`)
	assert.Equal(t, resolver.LoadingResponse, out.Reply)
	assert.Equal(t, models.IntentLoading, out.Intent)
}

func TestResolveEndpoint_BadRequest(t *testing.T) {
	srv := newTestServer(t, true)

	resp, _ := postResolve(t, srv.URL, `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	getResp, err := http.Get(srv.URL + "/api/resolve")
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, getResp.StatusCode)
}

func TestPreflight(t *testing.T) {
	srv := newTestServer(t, true)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/resolve", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))
}

func TestHealth(t *testing.T) {
	for _, ready := range []bool{true, false} {
		srv := newTestServer(t, ready)

		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)

		var out healthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		resp.Body.Close()

		assert.Equal(t, ready, out.Ready)
		if ready {
			assert.Equal(t, 1, out.Pairs)
		} else {
			assert.Equal(t, 0, out.Pairs)
		}
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(resolver.New(nil, zap.NewNop()), zap.NewNop())

	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
