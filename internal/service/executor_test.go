package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/chain"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/config"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/oracle"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/ratelimit"
)

type executorFixture struct {
	backend   *fakeBackend
	dials     int
	wallets   *memWalletRepo
	accounts  *memAccountRepo
	orders    *memOrderRepo
	publisher *capturePublisher
	executor  *Executor
}

func newExecutorFixture(t *testing.T, trading config.TradingConfig) *executorFixture {
	t.Helper()
	f := &executorFixture{
		backend:   newFakeBackend(),
		wallets:   newMemWalletRepo(testWalletRow(t)),
		accounts:  newMemAccountRepo(),
		orders:    &memOrderRepo{},
		publisher: &capturePublisher{},
	}
	f.backend.receiptFor = successReceipt()
	gateway := testGateway(f.backend, &f.dials)

	_, err := f.accounts.CreateOrGet(context.Background(), &model.TradingAccount{
		UserID: testUserID, ChainID: 8453, AccountID: "42", WalletAddress: "0xabc",
	})
	require.NoError(t, err)

	provisioner := NewProvisioner(gateway, f.wallets, f.accounts, trading)
	prices := oracle.NewStaticSource(map[string]float64{"ETH-PERP": 3500})
	f.executor = NewExecutor(gateway, provisioner, ratelimit.NewMemoryGate(time.Duration(trading.WindowMs)*time.Millisecond),
		prices, f.orders, f.accounts, f.publisher, trading)
	return f
}

func buyRequest() *model.TradeRequest {
	return &model.TradeRequest{
		ChainID:  8453,
		Market:   "ETH-PERP",
		Side:     "BUY",
		Size:     2,
		Leverage: 5,
		Password: testPassword,
	}
}

func appErrType(t *testing.T, err error) apperrors.ErrorType {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Type
}

func TestPlaceOrderCommits(t *testing.T) {
	f := newExecutorFixture(t, testTradingConfig())

	resp, err := f.executor.PlaceOrder(context.Background(), testUserID, buyRequest())
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusConfirmed, resp.Status)
	assert.Equal(t, "2", resp.Size)
	assert.Equal(t, "3517.5", resp.AcceptablePrice) // 3500 + 50 bps
	assert.NotEmpty(t, resp.OrderID)
	assert.NotEmpty(t, resp.TxHash)

	// the commitment calldata carries the protocol-scaled values
	tx := f.backend.lastSent()
	require.NotNil(t, tx)
	method := chain.PerpsMarketABI.Methods["commitOrder"]
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(100), args[0])                  // ETH-PERP market id
	assert.Equal(t, big.NewInt(42), args[1])                   // trading account
	wad, _ := new(big.Int).SetString("2000000000000000000", 10)
	assert.Equal(t, wad, args[2])                              // +2.0 size, long
	acceptable, _ := new(big.Int).SetString("3517500000000000000000", 10)
	assert.Equal(t, acceptable, args[3])

	// persisted and published
	orders, err := f.orders.ListByUser(context.Background(), testUserID, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, resp.OrderID, orders[0].ID)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, resp.OrderID, f.publisher.events[0].OrderID)
}

func TestPlaceOrderShortNegatesSize(t *testing.T) {
	f := newExecutorFixture(t, testTradingConfig())

	req := buyRequest()
	req.Side = "SELL"
	resp, err := f.executor.PlaceOrder(context.Background(), testUserID, req)
	require.NoError(t, err)

	assert.Equal(t, "-2", resp.Size)
	assert.Equal(t, "3482.5", resp.AcceptablePrice) // 3500 - 50 bps

	tx := f.backend.lastSent()
	args, err := chain.PerpsMarketABI.Methods["commitOrder"].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	wad, _ := new(big.Int).SetString("-2000000000000000000", 10)
	assert.Equal(t, wad, args[2])
}

func TestPlaceOrderUsesLimitPrice(t *testing.T) {
	f := newExecutorFixture(t, testTradingConfig())

	req := buyRequest()
	limit := 3000.0
	req.LimitPrice = &limit
	bps := int64(100)
	req.SlippageBps = &bps

	resp, err := f.executor.PlaceOrder(context.Background(), testUserID, req)
	require.NoError(t, err)
	assert.Equal(t, "3030", resp.AcceptablePrice)
}

func TestPlaceOrderTradingDisabled(t *testing.T) {
	trading := testTradingConfig()
	trading.Enabled = false
	f := newExecutorFixture(t, trading)

	_, err := f.executor.PlaceOrder(context.Background(), testUserID, buyRequest())
	assert.Equal(t, apperrors.ErrTradingDisabled, appErrType(t, err))
	assert.Equal(t, 0, f.backend.sentCount())
}

func TestPlaceOrderLeverageCheckedBeforeWallet(t *testing.T) {
	f := newExecutorFixture(t, testTradingConfig())

	req := buyRequest()
	req.Leverage = 25
	_, err := f.executor.PlaceOrder(context.Background(), testUserID, req)
	assert.Equal(t, apperrors.ErrLeverageExceeded, appErrType(t, err))
	// fail-fast: the key vault was never consulted
	assert.Equal(t, 0, f.wallets.getCount())
	assert.Equal(t, 0, f.backend.sentCount())
}

func TestPlaceOrderSecondWithinWindowRejected(t *testing.T) {
	f := newExecutorFixture(t, testTradingConfig())

	_, err := f.executor.PlaceOrder(context.Background(), testUserID, buyRequest())
	require.NoError(t, err)

	_, err = f.executor.PlaceOrder(context.Background(), testUserID, buyRequest())
	assert.Equal(t, apperrors.ErrRateLimited, appErrType(t, err))
	assert.Equal(t, 1, f.backend.sentCount())
}

func TestPlaceOrderUnknownMarket(t *testing.T) {
	f := newExecutorFixture(t, testTradingConfig())

	req := buyRequest()
	req.Market = "DOGE-PERP"
	_, err := f.executor.PlaceOrder(context.Background(), testUserID, req)
	assert.Equal(t, apperrors.ErrUnknownMarket, appErrType(t, err))
	assert.Equal(t, 0, f.backend.sentCount())
}

func TestPlaceOrderNoAccount(t *testing.T) {
	f := newExecutorFixture(t, testTradingConfig())

	req := buyRequest()
	req.ChainID = 10 // account only exists on base
	_, err := f.executor.PlaceOrder(context.Background(), testUserID, req)
	assert.Equal(t, apperrors.ErrNotFound, appErrType(t, err))
	assert.Equal(t, 0, f.backend.sentCount())
}

func TestPlaceOrderWrongPassword(t *testing.T) {
	f := newExecutorFixture(t, testTradingConfig())

	req := buyRequest()
	req.Password = "wrong"
	_, err := f.executor.PlaceOrder(context.Background(), testUserID, req)
	assert.Equal(t, apperrors.ErrDecryptionFailed, appErrType(t, err))
	assert.Equal(t, 0, f.dials)
	assert.Equal(t, 0, f.backend.sentCount())
}

func TestPlaceOrderNodeReportsUnderfunding(t *testing.T) {
	f := newExecutorFixture(t, testTradingConfig())
	f.backend.estimateErr = errors.New("insufficient funds for gas * price + value")

	_, err := f.executor.PlaceOrder(context.Background(), testUserID, buyRequest())
	assert.Equal(t, apperrors.ErrInsufficientGas, appErrType(t, err))
}
