package public

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// Response messages returned by the API.
const (
	msgMined      = "Congratulations, you just mined a block!"
	msgValid      = "All good. The Blockchain is valid."
	msgInvalid    = "Houston, we have a problem. The Blockchain is not valid."
	msgConnected  = "All the nodes are now connected. The Blockchain now contains the following nodes:"
	msgReplaced   = "The nodes had different chains so the chain was replaced by the longest one."
	msgNotReplace = "All good. The chain is the largest one."
)

type minedBlock struct {
	Message      string        `json:"message"`
	Index        int           `json:"index"`
	Timestamp    string        `json:"timestamp"`
	Proof        int64         `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
	Transactions []database.Tx `json:"transactions"`
}

type validity struct {
	Message string `json:"message"`
	Valid   bool   `json:"valid"`
}

// newTx uses pointers so a field explicitly set to its zero value is told
// apart from a missing field.
type newTx struct {
	Sender   *string  `json:"sender" validate:"required"`
	Receiver *string  `json:"receiver" validate:"required"`
	Amount   *float64 `json:"amount" validate:"required"`
}

type txAdded struct {
	Message string `json:"message"`
	Index   int    `json:"index"`
}

type connectNodes struct {
	Nodes []string `json:"nodes"`
}

type nodesConnected struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type chainReplaced struct {
	Message  string           `json:"message"`
	Replaced bool             `json:"replaced"`
	Chain    []database.Block `json:"chain"`
}
