package public_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type node struct {
	state  *state.State
	evts   *events.Hub
	server *httptest.Server
}

func newNode(t *testing.T, nodeID string) *node {
	t.Helper()

	evts := events.NewHub()

	st, err := state.New(state.Config{
		NodeID: nodeID,
		Genesis: genesis.Genesis{
			Difficulty:     3,
			MiningReward:   1,
			RewardReceiver: "miner",
		},
		Fetcher:   state.NewHTTPFetcher(state.DefaultChainURL, state.WithTimeout(time.Second)),
		EvHandler: func(v string, args ...any) {},
	})
	require.NoError(t, err)

	mux := handlers.PublicMux(handlers.MuxConfig{
		Log:   zap.NewNop().Sugar(),
		State: st,
		Evts:  evts,
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		evts.Close()
		srv.Close()
	})

	return &node{state: st, evts: evts, server: srv}
}

func (n *node) do(t *testing.T, method string, path string, body string, resp any) int {
	t.Helper()

	req, err := http.NewRequest(method, n.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	r, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer r.Body.Close()

	if resp != nil {
		require.NoError(t, json.NewDecoder(r.Body).Decode(resp))
	}

	return r.StatusCode
}

// =============================================================================

func TestMine(t *testing.T) {
	n := newNode(t, "node1")

	var resp struct {
		Message      string        `json:"message"`
		Index        int           `json:"index"`
		Proof        int64         `json:"proof"`
		PreviousHash string        `json:"previous_hash"`
		Timestamp    string        `json:"timestamp"`
		Transactions []database.Tx `json:"transactions"`
	}
	status := n.do(t, http.MethodGet, "/v1/mine_block", "", &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Congratulations, you just mined a block!", resp.Message)
	assert.Equal(t, 2, resp.Index)
	assert.Equal(t, n.state.RetrieveChain()[0].Hash(), resp.PreviousHash)
	assert.Equal(t, []database.Tx{database.NewTx("node1", "miner", 1)}, resp.Transactions)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestGetChainAndIsValid(t *testing.T) {
	n := newNode(t, "node1")
	n.do(t, http.MethodGet, "/v1/mine_block", "", nil)

	var chain state.ChainResponse
	status := n.do(t, http.MethodGet, "/v1/get_chain", "", &chain)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, chain.Length)
	assert.Equal(t, n.state.RetrieveChain(), chain.Chain)

	var valid struct {
		Message string `json:"message"`
		Valid   bool   `json:"valid"`
	}
	status = n.do(t, http.MethodGet, "/v1/is_valid", "", &valid)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, valid.Valid)
	assert.Equal(t, "All good. The Blockchain is valid.", valid.Message)
}

func TestAddTransaction(t *testing.T) {
	n := newNode(t, "node1")

	t.Run("added", func(t *testing.T) {
		var resp struct {
			Message string `json:"message"`
			Index   int    `json:"index"`
		}
		status := n.do(t, http.MethodPost, "/v1/add_transaction", `{"sender":"A","receiver":"B","amount":10}`, &resp)

		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, 2, resp.Index)
		assert.Equal(t, "This transaction will be added to Block 2", resp.Message)
	})

	t.Run("zero values are present", func(t *testing.T) {
		status := n.do(t, http.MethodPost, "/v1/add_transaction", `{"sender":"","receiver":"B","amount":0}`, nil)
		require.Equal(t, http.StatusCreated, status)
	})

	t.Run("missing field", func(t *testing.T) {
		var resp errs.Response
		status := n.do(t, http.MethodPost, "/v1/add_transaction", `{"sender":"A","receiver":"B"}`, &resp)

		require.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, resp.Fields, "amount")
	})

	t.Run("null field", func(t *testing.T) {
		var resp errs.Response
		status := n.do(t, http.MethodPost, "/v1/add_transaction", `{"sender":"A","receiver":"B","amount":null}`, &resp)

		require.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, resp.Fields, "amount")
	})

	t.Run("bad payload", func(t *testing.T) {
		status := n.do(t, http.MethodPost, "/v1/add_transaction", `{"sender":`, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	assert.Equal(t, []database.Tx{database.NewTx("A", "B", 10), database.NewTx("", "B", 0)}, n.state.RetrievePending())
}

func TestConnectNode(t *testing.T) {
	n := newNode(t, "node1")

	tt := map[string]string{
		"missing": `{}`,
		"empty":   `{"nodes":[]}`,
		"no host": `{"nodes":["http://"]}`,
	}

	for name, body := range tt {
		t.Run(name, func(t *testing.T) {
			status := n.do(t, http.MethodPost, "/v1/connect_node", body, nil)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}

	var resp struct {
		Message    string   `json:"message"`
		TotalNodes []string `json:"total_nodes"`
	}
	status := n.do(t, http.MethodPost, "/v1/connect_node", `{"nodes":["http://127.0.0.1:5001","127.0.0.1:5002","http://127.0.0.1:5001"]}`, &resp)

	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, []string{"127.0.0.1:5001", "127.0.0.1:5002"}, resp.TotalNodes)
}

func TestReplaceChain(t *testing.T) {
	long := newNode(t, "long")
	for range 3 {
		long.do(t, http.MethodGet, "/v1/mine_block", "", nil)
	}

	local := newNode(t, "local")

	nodes, err := json.Marshal(map[string][]string{"nodes": {long.server.URL}})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, local.do(t, http.MethodPost, "/v1/connect_node", string(nodes), nil))

	var resp struct {
		Message  string           `json:"message"`
		Replaced bool             `json:"replaced"`
		Chain    []database.Block `json:"chain"`
	}
	status := local.do(t, http.MethodGet, "/v1/replace_chain", "", &resp)

	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Replaced)
	assert.Equal(t, long.state.RetrieveChain(), resp.Chain)

	status = local.do(t, http.MethodGet, "/v1/replace_chain", "", &resp)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, resp.Replaced)
	assert.Len(t, resp.Chain, 4)
}

func TestEvents(t *testing.T) {
	n := newNode(t, "node1")

	url := "ws" + strings.TrimPrefix(n.server.URL, "http") + "/v1/events"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer c.Close()

	require.Eventually(t, func() bool { return n.evts.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	n.evts.Publish("block mined")

	var evt events.Event
	require.NoError(t, c.ReadJSON(&evt))
	assert.Equal(t, "block mined", evt.Message)
}
