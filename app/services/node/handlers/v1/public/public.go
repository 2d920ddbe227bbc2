// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Hub
}

// Mine solves the proof of work for the next block and commits the pending
// transactions with the mining reward.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineBlock()
	if err != nil {
		return fmt.Errorf("mining block: %w", err)
	}

	resp := minedBlock{
		Message:      msgMined,
		Index:        block.Index,
		Timestamp:    block.Timestamp,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
		Transactions: block.Transactions,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// GetChain returns the full chain. Peers call this when resolving conflicts.
func (h Handlers) GetChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	resp := state.ChainResponse{
		Chain:  chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// IsValid reports if the local chain is valid.
func (h Handlers) IsValid(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := validity{
		Message: msgInvalid,
	}

	if h.State.IsChainValid() {
		resp = validity{
			Message: msgValid,
			Valid:   true,
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AddTransaction adds a transaction to the pool of pending transactions.
func (h Handlers) AddTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var tx newTx
	if err := web.Decode(r, &tx); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	index := h.State.AddTransaction(*tx.Sender, *tx.Receiver, *tx.Amount)

	resp := txAdded{
		Message: fmt.Sprintf("This transaction will be added to Block %d", index),
		Index:   index,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ConnectNode registers the peer nodes found in the request.
func (h Handlers) ConnectNode(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req connectNodes
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	peers, err := h.State.ConnectNodes(req.Nodes)
	if err != nil {
		if errors.Is(err, state.ErrNoNodes) || errors.Is(err, peer.ErrInvalidAddress) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return fmt.Errorf("connecting nodes: %w", err)
	}

	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}

	resp := nodesConnected{
		Message:    msgConnected,
		TotalNodes: hosts,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ReplaceChain adopts the longest valid chain held by the known peers when
// it's longer than the local chain.
func (h Handlers) ReplaceChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.State.ReplaceChain(ctx)
	if err != nil {
		return fmt.Errorf("replacing chain: %w", err)
	}

	resp := chainReplaced{
		Message:  msgNotReplace,
		Replaced: replaced,
		Chain:    h.State.RetrieveChain(),
	}
	if replaced {
		resp.Message = msgReplaced
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	ch, err := h.Evts.Subscribe(v.TraceID)
	if err != nil {
		return errs.NewTrusted(err, http.StatusServiceUnavailable)
	}
	defer h.Evts.Unsubscribe(v.TraceID)

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(evt); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
