package cmd_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ardanlabs/ledger/app/tooling/admin/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	method string
	path   string
	body   map[string]any
}

func newServer(t *testing.T, status int) (*httptest.Server, chan request) {
	t.Helper()

	requests := make(chan request, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := request{
			method: r.Method,
			path:   r.URL.Path,
		}

		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			json.Unmarshal(data, &got.body)
		}
		requests <- got

		w.WriteHeader(status)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	return srv, requests
}

func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := cmd.NewRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--url", url}, args...))

	err := root.Execute()

	return out.String(), err
}

func TestCommands(t *testing.T) {
	tt := []struct {
		name   string
		args   []string
		method string
		path   string
		body   map[string]any
	}{
		{name: "chain", args: []string{"chain"}, method: http.MethodGet, path: "/v1/get_chain"},
		{name: "mine", args: []string{"mine"}, method: http.MethodGet, path: "/v1/mine_block"},
		{name: "valid", args: []string{"valid"}, method: http.MethodGet, path: "/v1/is_valid"},
		{name: "resolve", args: []string{"resolve"}, method: http.MethodGet, path: "/v1/replace_chain"},
		{
			name:   "send",
			args:   []string{"send", "--sender", "A", "--receiver", "B", "--amount", "2.5"},
			method: http.MethodPost,
			path:   "/v1/add_transaction",
			body:   map[string]any{"sender": "A", "receiver": "B", "amount": 2.5},
		},
		{
			name:   "connect",
			args:   []string{"connect", "http://127.0.0.1:5001", "127.0.0.1:5002"},
			method: http.MethodPost,
			path:   "/v1/connect_node",
			body:   map[string]any{"nodes": []any{"http://127.0.0.1:5001", "127.0.0.1:5002"}},
		},
	}

	for _, tst := range tt {
		t.Run(tst.name, func(t *testing.T) {
			srv, requests := newServer(t, http.StatusOK)

			out, err := run(t, srv.URL, tst.args...)
			require.NoError(t, err)

			got := <-requests

			assert.Equal(t, tst.method, got.method)
			assert.Equal(t, tst.path, got.path)
			assert.Equal(t, tst.body, got.body)
			assert.Contains(t, out, `"message": "ok"`)
		})
	}
}

func TestCommandErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusBadRequest)

		_, err := run(t, srv.URL, "connect", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status[400]")
	})

	t.Run("missing flag", func(t *testing.T) {
		srv, requests := newServer(t, http.StatusOK)

		_, err := run(t, srv.URL, "send", "--sender", "A")
		require.Error(t, err)
		assert.Empty(t, requests)
	})

	t.Run("missing address", func(t *testing.T) {
		srv, requests := newServer(t, http.StatusOK)

		_, err := run(t, srv.URL, "connect")
		require.Error(t, err)
		assert.Empty(t, requests)
	})
}
