package price

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairsBody = `{
	"pairs": [{
		"priceUsd": "0.004215",
		"priceChange": {"h24": -3.2},
		"volume": {"h24": 125000.5},
		"liquidity": {"usd": 48000},
		"fdv": 4200000,
		"marketCap": 3900000,
		"pairAddress": "PairAddr111",
		"dexId": "raydium"
	}]
}`

func TestService_CurrentPrice_ParsesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/TestMint", r.URL.Path)
		w.Write([]byte(pairsBody))
	}))
	defer server.Close()

	s := NewService(ServiceOptions{BaseURL: server.URL, Mint: "TestMint"})

	snapshot := s.CurrentPrice(context.Background())
	require.NotNil(t, snapshot)
	assert.InDelta(t, 0.004215, snapshot.PriceUSD, 1e-9)
	assert.InDelta(t, -3.2, snapshot.PriceChange24h, 1e-9)
	assert.InDelta(t, 125000.5, snapshot.Volume24h, 1e-9)
	assert.InDelta(t, 48000, snapshot.Liquidity, 1e-9)
	assert.Equal(t, "raydium", snapshot.DexID)
}

func TestService_CurrentPrice_CachesWithinTTL(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(pairsBody))
	}))
	defer server.Close()

	clock := time.Unix(1700000000, 0)
	s := NewService(ServiceOptions{
		BaseURL:  server.URL,
		Mint:     "TestMint",
		CacheTTL: 30 * time.Second,
		Now:      func() time.Time { return clock },
	})

	require.NotNil(t, s.CurrentPrice(context.Background()))
	require.NotNil(t, s.CurrentPrice(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	clock = clock.Add(31 * time.Second)
	require.NotNil(t, s.CurrentPrice(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestService_CurrentPrice_ServesStaleOnFailure(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(pairsBody))
	}))
	defer server.Close()

	clock := time.Unix(1700000000, 0)
	s := NewService(ServiceOptions{
		BaseURL:  server.URL,
		Mint:     "TestMint",
		CacheTTL: 30 * time.Second,
		Now:      func() time.Time { return clock },
	})

	first := s.CurrentPrice(context.Background())
	require.NotNil(t, first)

	fail.Store(true)
	clock = clock.Add(time.Minute)

	stale := s.CurrentPrice(context.Background())
	require.NotNil(t, stale)
	assert.Equal(t, first.PriceUSD, stale.PriceUSD)
}

func TestService_CurrentPrice_NilWhenNeverFetched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := NewService(ServiceOptions{BaseURL: server.URL, Mint: "TestMint"})
	assert.Nil(t, s.CurrentPrice(context.Background()))
}

func TestService_CurrentPrice_NoPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": []}`))
	}))
	defer server.Close()

	s := NewService(ServiceOptions{BaseURL: server.URL, Mint: "TestMint"})
	assert.Nil(t, s.CurrentPrice(context.Background()))
}
