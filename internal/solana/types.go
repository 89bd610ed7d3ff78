// Package solana provides thin JSON-RPC and WebSocket clients for the subset
// of the Solana node API the sentry consumes.
package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface.
type RPCClient interface {
	// GetTransaction retrieves a parsed transaction by signature.
	// Returns nil without error when the node does not know the signature.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)

	// GetSignaturesForAddress retrieves signatures for an address, newest first.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)
}

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// Transaction is a parsed Solana transaction with the execution metadata the
// classifier needs. Meta is nil when the node returned none.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime *int64 // unix seconds, nil when the node has no estimate
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction execution metadata.
type TransactionMeta struct {
	Err               interface{}
	Fee               uint64 // lamports
	PreTokenBalances  []TokenBalance
	PostTokenBalances []TokenBalance
	LogMessages       []string
}

// TokenBalance is a pre- or post-execution token balance entry, keyed by the
// account's index in the transaction account list.
type TokenBalance struct {
	AccountIndex int
	Mint         string
	Owner        string
	UIAmount     string // uiTokenAmount.uiAmountString, decimal text
}

// TransactionMessage contains the parsed message: the signer-flagged account
// list and the ordered instructions.
type TransactionMessage struct {
	AccountKeys  []AccountKey
	Instructions []Instruction
}

// AccountKey is one entry of the transaction account list.
type AccountKey struct {
	Pubkey string
	Signer bool
}

// Instruction is one top-level instruction with its program and, when the
// node could parse it, the instruction type.
type Instruction struct {
	ProgramID  string
	ParsedType string // e.g. "swap", "transfer"; empty when unparsed
}

// WSClient defines the Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeLogs subscribes to logs mentioning the given addresses.
	SubscribeLogs(ctx context.Context, filter LogsFilter) (<-chan LogNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// LogsFilter defines a subscription filter for logs.
type LogsFilter struct {
	// Mentions filters logs that mention any of these addresses.
	Mentions []string
}

// LogNotification represents a logs subscription message.
type LogNotification struct {
	Signature string
	Slot      int64
	Logs      []string
	Err       interface{}
}
