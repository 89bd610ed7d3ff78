package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-trade-sentry/internal/domain"
	"solana-trade-sentry/internal/solana"
)

const raydiumV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"

func swapTx(signature, signer string, pre, post []solana.TokenBalance) *solana.Transaction {
	blockTime := int64(1700000000)
	return &solana.Transaction{
		Signature: signature,
		BlockTime: &blockTime,
		Meta: &solana.TransactionMeta{
			Fee:               5000,
			PreTokenBalances:  pre,
			PostTokenBalances: post,
		},
		Message: &solana.TransactionMessage{
			AccountKeys: []solana.AccountKey{
				{Pubkey: signer, Signer: true},
				{Pubkey: "poolvault", Signer: false},
			},
			Instructions: []solana.Instruction{{ProgramID: raydiumV4}},
		},
	}
}

func TestClassifier_Classify_Buy(t *testing.T) {
	c := NewClassifier(testMint, nil)

	tx := swapTx("sig-buy", "trader",
		[]solana.TokenBalance{
			{AccountIndex: 1, Mint: testMint, Owner: "trader", UIAmount: "0"},
			{AccountIndex: 2, Mint: testMint, Owner: "poolvault", UIAmount: "10000"},
		},
		[]solana.TokenBalance{
			{AccountIndex: 1, Mint: testMint, Owner: "trader", UIAmount: "500"},
			{AccountIndex: 2, Mint: testMint, Owner: "poolvault", UIAmount: "9500"},
		})

	trades := c.Classify(tx)
	require.Len(t, trades, 1)

	trade := trades[0]
	assert.Equal(t, domain.TradeBuy, trade.Type)
	assert.InDelta(t, 500, trade.Amount, 1e-9)
	assert.Equal(t, domain.MarketParty(), trade.From)
	assert.Equal(t, domain.AccountParty("trader"), trade.To)
	assert.Equal(t, "sig-buy", trade.Signature)
	assert.Equal(t, time.Unix(1700000000, 0), trade.Timestamp)
	assert.InDelta(t, 0.000005, trade.Fee, 1e-12)
}

func TestClassifier_Classify_Sell(t *testing.T) {
	c := NewClassifier(testMint, nil)

	tx := swapTx("sig-sell", "trader",
		[]solana.TokenBalance{
			{AccountIndex: 1, Mint: testMint, Owner: "trader", UIAmount: "500"},
		},
		[]solana.TokenBalance{
			{AccountIndex: 1, Mint: testMint, Owner: "trader", UIAmount: "120"},
		})

	trades := c.Classify(tx)
	require.Len(t, trades, 1)

	assert.Equal(t, domain.TradeSell, trades[0].Type)
	assert.InDelta(t, 380, trades[0].Amount, 1e-9)
	assert.Equal(t, domain.AccountParty("trader"), trades[0].From)
	assert.Equal(t, domain.MarketParty(), trades[0].To)
}

func TestClassifier_Classify_RoutedSwapFallsBackToFirstDelta(t *testing.T) {
	// Signer holds no token account of the watched mint; only intermediate
	// accounts move. Direction comes from the first delta, counterparty
	// stays unknown.
	c := NewClassifier(testMint, nil)

	tx := swapTx("sig-routed", "router-signer",
		[]solana.TokenBalance{
			{AccountIndex: 2, Mint: testMint, Owner: "hop-account", UIAmount: "0"},
		},
		[]solana.TokenBalance{
			{AccountIndex: 2, Mint: testMint, Owner: "hop-account", UIAmount: "900"},
		})

	trades := c.Classify(tx)
	require.Len(t, trades, 1)

	assert.Equal(t, domain.TradeBuy, trades[0].Type)
	assert.Equal(t, domain.UnknownParty(), trades[0].From)
	assert.Equal(t, domain.AccountParty("hop-account"), trades[0].To)
}

func TestClassifier_Classify_NonDexRejected(t *testing.T) {
	c := NewClassifier(testMint, nil)

	tx := swapTx("sig-transfer", "sender",
		[]solana.TokenBalance{
			{AccountIndex: 1, Mint: testMint, Owner: "sender", UIAmount: "100"},
		},
		[]solana.TokenBalance{
			{AccountIndex: 1, Mint: testMint, Owner: "sender", UIAmount: "60"},
		})
	tx.Message.Instructions = []solana.Instruction{
		{ProgramID: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", ParsedType: "transfer"},
	}

	assert.Empty(t, c.Classify(tx))
}

func TestClassifier_Classify_NoSignerRejected(t *testing.T) {
	c := NewClassifier(testMint, nil)

	tx := swapTx("sig-nosigner", "trader",
		nil,
		[]solana.TokenBalance{
			{AccountIndex: 1, Mint: testMint, Owner: "trader", UIAmount: "10"},
		})
	tx.Message.AccountKeys = []solana.AccountKey{{Pubkey: "trader", Signer: false}}

	assert.Empty(t, c.Classify(tx))
}

func TestClassifier_Classify_LargestDeltaWins(t *testing.T) {
	c := NewClassifier(testMint, nil)

	tx := swapTx("sig-multi", "trader",
		[]solana.TokenBalance{
			{AccountIndex: 1, Mint: testMint, Owner: "trader", UIAmount: "0"},
			{AccountIndex: 2, Mint: testMint, Owner: "poolvault", UIAmount: "9000"},
			{AccountIndex: 3, Mint: testMint, Owner: "feevault", UIAmount: "0"},
		},
		[]solana.TokenBalance{
			{AccountIndex: 1, Mint: testMint, Owner: "trader", UIAmount: "195"},
			{AccountIndex: 2, Mint: testMint, Owner: "poolvault", UIAmount: "8800"},
			{AccountIndex: 3, Mint: testMint, Owner: "feevault", UIAmount: "5"},
		})

	trades := c.Classify(tx)
	require.Len(t, trades, 1)
	assert.InDelta(t, 200, trades[0].Amount, 1e-9)
}

func TestClassifier_Classify_MissingBlockTimeUsesClock(t *testing.T) {
	fixed := time.Unix(1800000000, 0)
	c := NewClassifier(testMint, nil).WithClock(func() time.Time { return fixed })

	tx := swapTx("sig-noblocktime", "trader",
		nil,
		[]solana.TokenBalance{
			{AccountIndex: 1, Mint: testMint, Owner: "trader", UIAmount: "10"},
		})
	tx.BlockTime = nil

	trades := c.Classify(tx)
	require.Len(t, trades, 1)
	assert.Equal(t, fixed, trades[0].Timestamp)
}

func TestClassifier_Classify_NilMeta(t *testing.T) {
	c := NewClassifier(testMint, nil)
	assert.Empty(t, c.Classify(&solana.Transaction{Signature: "sig"}))
	assert.Empty(t, c.Classify(nil))
}
