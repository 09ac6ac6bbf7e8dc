package service

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/chain"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/config"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/events"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/keyvault"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/repository"
)

// well-known throwaway key, never funded anywhere
const testPrivateKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

const (
	testUserID   = "user-1"
	testPassword = "hunter2-strong"
)

// fakeBackend satisfies chain.Backend without a node. SendTransaction
// records the transaction and registers the receipt produced by receiptFor,
// so waitMined finds it on its first poll.
type fakeBackend struct {
	mu sync.Mutex

	balance  *big.Int
	gasPrice *big.Int
	gasLimit uint64
	nonce    uint64

	estimateErr error
	sendErr     error
	receiptFor  func(tx *types.Transaction) *types.Receipt

	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		balance:  big.NewInt(1e18), // 1 ETH
		gasPrice: big.NewInt(1e9),  // 1 gwei
		gasLimit: 100000,
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (b *fakeBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return b.balance, nil
}

func (b *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return b.nonce, nil
}

func (b *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return b.gasPrice, nil
}

func (b *fakeBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if b.estimateErr != nil {
		return 0, b.estimateErr
	}
	return b.gasLimit, nil
}

func (b *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if b.sendErr != nil {
		return b.sendErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	if b.receiptFor != nil {
		b.receipts[tx.Hash()] = b.receiptFor(tx)
	}
	return nil
}

func (b *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r, ok := b.receipts[txHash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (b *fakeBackend) sentCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent)
}

func (b *fakeBackend) lastSent() *types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		return nil
	}
	return b.sent[len(b.sent)-1]
}

// accountCreatedReceipt builds a successful receipt carrying the
// AccountCreated event at the given proxy address
func accountCreatedReceipt(proxy common.Address, accountID *big.Int) func(tx *types.Transaction) *types.Receipt {
	return func(tx *types.Transaction) *types.Receipt {
		return &types.Receipt{
			Status: types.ReceiptStatusSuccessful,
			TxHash: tx.Hash(),
			Logs: []*types.Log{{
				Address: proxy,
				Topics: []common.Hash{
					chain.AccountCreatedTopic,
					common.BigToHash(accountID),
					common.BigToHash(big.NewInt(0)),
				},
			}},
		}
	}
}

func successReceipt() func(tx *types.Transaction) *types.Receipt {
	return func(tx *types.Transaction) *types.Receipt {
		return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: tx.Hash()}
	}
}

type memWalletRepo struct {
	mu   sync.Mutex
	rows map[string]*model.EncryptedWalletKey
	gets int
}

func newMemWalletRepo(rows ...*model.EncryptedWalletKey) *memWalletRepo {
	r := &memWalletRepo{rows: make(map[string]*model.EncryptedWalletKey)}
	for _, row := range rows {
		r.rows[row.UserID] = row
	}
	return r
}

func (r *memWalletRepo) Get(ctx context.Context, userID string) (*model.EncryptedWalletKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	row, ok := r.rows[userID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	return row, nil
}

func (r *memWalletRepo) getCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

type memAccountRepo struct {
	mu   sync.Mutex
	rows map[string]*model.TradingAccount
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{rows: make(map[string]*model.TradingAccount)}
}

func accountKey(userID string, chainID int64) string {
	return fmt.Sprintf("%s/%d", userID, chainID)
}

func (r *memAccountRepo) Get(ctx context.Context, userID string, chainID int64) (*model.TradingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.rows[accountKey(userID, chainID)]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return acc, nil
}

func (r *memAccountRepo) CreateOrGet(ctx context.Context, acc *model.TradingAccount) (*model.TradingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := accountKey(acc.UserID, acc.ChainID)
	if existing, ok := r.rows[key]; ok {
		return existing, nil
	}
	acc.CreatedAt = time.Now()
	r.rows[key] = acc
	return acc, nil
}

func (r *memAccountRepo) ListByUser(ctx context.Context, userID string) ([]*model.TradingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TradingAccount
	for _, acc := range r.rows {
		if acc.UserID == userID {
			out = append(out, acc)
		}
	}
	return out, nil
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders []*model.Order
}

func (r *memOrderRepo) Insert(ctx context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
	return nil
}

func (r *memOrderRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.FillEvent
}

func (p *capturePublisher) PublishFill(ctx context.Context, event events.FillEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

// testGateway wires the fake backend behind a gateway over the default
// chain set, counting dials so tests can assert the no-RPC paths
func testGateway(backend *fakeBackend, dials *int) *chain.Gateway {
	reg := chain.NewRegistry(&config.Config{})
	return chain.NewGatewayWithDialer(reg, func(ctx context.Context, url string) (chain.Backend, error) {
		if dials != nil {
			*dials++
		}
		return backend, nil
	})
}

func testWalletRow(t interface{ Fatalf(string, ...interface{}) }) *model.EncryptedWalletKey {
	row, err := keyvault.Encrypt(testUserID, "", testPassword, testPrivateKey)
	if err != nil {
		t.Fatalf("encrypt test key: %v", err)
	}
	return row
}

func testTradingConfig() config.TradingConfig {
	return config.TradingConfig{
		Enabled:            true,
		MaxLeverage:        10,
		WindowMs:           6000,
		DefaultSlippageBps: 50,
		ConfirmTimeoutSec:  5,
	}
}
