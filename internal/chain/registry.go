// Package chain selects RPC endpoints and contract addresses by chain id
// and opens signing connections against them.
package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/config"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
)

// Chain is one supported network. A single RPC endpoint per chain; there is
// no endpoint failover, RPC errors are fatal for the request.
type Chain struct {
	ID           int64
	Name         string
	RPCURL       string
	AccountProxy common.Address
	PerpsMarket  common.Address
}

type Market struct {
	Key string
	ID  *big.Int
}

type Registry struct {
	chains  map[int64]Chain
	markets map[string]Market
}

func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{
		chains:  make(map[int64]Chain),
		markets: make(map[string]Market),
	}
	chainCfgs := cfg.Chains
	if len(chainCfgs) == 0 {
		chainCfgs = defaultChains()
	}
	for _, c := range chainCfgs {
		r.chains[c.ID] = Chain{
			ID:           c.ID,
			Name:         c.Name,
			RPCURL:       c.RPCURL,
			AccountProxy: common.HexToAddress(c.AccountProxy),
			PerpsMarket:  common.HexToAddress(c.PerpsMarket),
		}
	}
	marketCfgs := cfg.Markets
	if len(marketCfgs) == 0 {
		marketCfgs = defaultMarkets()
	}
	for _, m := range marketCfgs {
		r.markets[m.Key] = Market{Key: m.Key, ID: new(big.Int).SetUint64(m.ID)}
	}
	return r
}

// Chain resolves a chain id, failing with UNSUPPORTED_CHAIN for ids outside
// the configured set.
func (r *Registry) Chain(chainID int64) (Chain, error) {
	c, ok := r.chains[chainID]
	if !ok {
		return Chain{}, apperrors.New(apperrors.ErrUnsupportedChain,
			fmt.Sprintf("chain %d is not supported", chainID), nil)
	}
	return c, nil
}

// Market resolves a market key such as "ETH-PERP"
func (r *Registry) Market(key string) (Market, error) {
	m, ok := r.markets[key]
	if !ok {
		return Market{}, apperrors.New(apperrors.ErrUnknownMarket,
			fmt.Sprintf("market %s is not recognized", key), nil)
	}
	return m, nil
}

func defaultChains() []config.ChainConfig {
	return []config.ChainConfig{
		{ID: 1, Name: "ethereum", RPCURL: "https://eth.llamarpc.com",
			AccountProxy: "0x0A2AF931eFFd34b81ebcc57E3d3c9B1E1dE1C9Ce", PerpsMarket: "0xdE3c8B9E557962D0F4dCbC12c1a4A3b0f5a8D9aB"},
		{ID: 42161, Name: "arbitrum", RPCURL: "https://arb1.arbitrum.io/rpc",
			AccountProxy: "0xD09b8Cf1f5bb35B4EAB1c10B0fF8BdBd49B0d4aD", PerpsMarket: "0xd762960c31210Cf1bDf75b06A5192d395EEDC659"},
		{ID: 8453, Name: "base", RPCURL: "https://mainnet.base.org",
			AccountProxy: "0x63f4Dd0434BEB5baeCD27F3778a909278d8cf5b8", PerpsMarket: "0x0A2AF931eFFd34b81ebcc57E3d3c9B1E1dE1C9Cf"},
		{ID: 10, Name: "optimism", RPCURL: "https://mainnet.optimism.io",
			AccountProxy: "0x0254C4467cBbdbe8d5E01e68de0DF7b20dD2A167", PerpsMarket: "0xffffffaEff0B96Ea8e4f94b2253f31abdD875847"},
	}
}

func defaultMarkets() []config.MarketConfig {
	return []config.MarketConfig{
		{Key: "ETH-PERP", ID: 100},
		{Key: "BTC-PERP", ID: 200},
		{Key: "XAU-PERP", ID: 300},
	}
}
