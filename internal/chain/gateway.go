package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
)

// Backend is the slice of ethclient the trading flow needs. *ethclient.Client
// satisfies it; tests substitute a stub.
type Backend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Gateway hands out one lazily-dialed Backend per supported chain
type Gateway struct {
	reg *Registry

	mu      sync.Mutex
	clients map[int64]Backend
	dial    func(ctx context.Context, url string) (Backend, error)
}

func NewGateway(reg *Registry) *Gateway {
	return &Gateway{
		reg:     reg,
		clients: make(map[int64]Backend),
		dial: func(ctx context.Context, url string) (Backend, error) {
			return ethclient.DialContext(ctx, url)
		},
	}
}

// NewGatewayWithDialer is used by tests to inject a fake backend
func NewGatewayWithDialer(reg *Registry, dial func(ctx context.Context, url string) (Backend, error)) *Gateway {
	g := NewGateway(reg)
	g.dial = dial
	return g
}

// Backend returns a connected client for the chain, failing with
// UNSUPPORTED_CHAIN before any dial is attempted for unknown ids.
func (g *Gateway) Backend(ctx context.Context, chainID int64) (Backend, Chain, error) {
	c, err := g.reg.Chain(chainID)
	if err != nil {
		return nil, Chain{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if client, ok := g.clients[chainID]; ok {
		return client, c, nil
	}
	client, err := g.dial(ctx, c.RPCURL)
	if err != nil {
		return nil, Chain{}, apperrors.New(apperrors.ErrExecutionFailed,
			fmt.Sprintf("failed to connect to %s rpc", c.Name), err)
	}
	g.clients[chainID] = client
	return client, c, nil
}

func (g *Gateway) Registry() *Registry {
	return g.reg
}
