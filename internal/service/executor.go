package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/chain"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/config"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/events"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/oracle"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/logger"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/metrics"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/ratelimit"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/repository"
)

// Executor validates and commits leveraged perp orders. Validation is
// fail-fast in a fixed order: trade gate, trading flag, leverage cap, wallet
// decryption, trading account, market resolution. Nothing touches the chain
// until every check passed.
type Executor struct {
	gateway     *chain.Gateway
	provisioner *Provisioner
	gate        ratelimit.TradeGate
	prices      oracle.PriceSource
	orders      OrderRepo
	accounts    AccountRepo
	publisher   events.Publisher
	trading     config.TradingConfig
}

func NewExecutor(gateway *chain.Gateway, provisioner *Provisioner, gate ratelimit.TradeGate,
	prices oracle.PriceSource, orders OrderRepo, accounts AccountRepo,
	publisher events.Publisher, trading config.TradingConfig) *Executor {
	return &Executor{
		gateway:     gateway,
		provisioner: provisioner,
		gate:        gate,
		prices:      prices,
		orders:      orders,
		accounts:    accounts,
		publisher:   publisher,
		trading:     trading,
	}
}

func (e *Executor) PlaceOrder(ctx context.Context, userID string, req *model.TradeRequest) (*model.TradeResponse, error) {
	if err := e.gate.Allow(ctx, userID); err != nil {
		metrics.TradeRejects.WithLabelValues("rate_limited").Inc()
		return nil, err
	}
	if !e.trading.Enabled {
		metrics.TradeRejects.WithLabelValues("trading_disabled").Inc()
		return nil, apperrors.New(apperrors.ErrTradingDisabled, "trading is currently disabled", nil)
	}
	if req.Leverage > e.trading.MaxLeverage {
		metrics.TradeRejects.WithLabelValues("leverage_exceeded").Inc()
		return nil, apperrors.New(apperrors.ErrLeverageExceeded,
			fmt.Sprintf("leverage %.1f exceeds the maximum of %.1f", req.Leverage, e.trading.MaxLeverage), nil)
	}

	wallet, err := e.provisioner.loadWallet(ctx, userID, req.Password)
	if err != nil {
		metrics.TradeRejects.WithLabelValues("decryption_failed").Inc()
		return nil, err
	}

	account, err := e.accounts.Get(ctx, userID, req.ChainID)
	if err != nil {
		metrics.TradeRejects.WithLabelValues("no_account").Inc()
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound,
				fmt.Sprintf("no trading account on chain %d, provision one first", req.ChainID), nil)
		}
		return nil, apperrors.Wrap(err)
	}

	market, err := e.gateway.Registry().Market(req.Market)
	if err != nil {
		metrics.TradeRejects.WithLabelValues("unknown_market").Inc()
		return nil, err
	}

	isLong := req.Side == "BUY" || req.Side == "LONG"

	reference, err := e.referencePrice(req)
	if err != nil {
		return nil, err
	}
	slippageBps := e.trading.DefaultSlippageBps
	if req.SlippageBps != nil {
		slippageBps = *req.SlippageBps
	}
	acceptable := acceptablePrice(reference, isLong, slippageBps)

	size := decimal.NewFromFloat(req.Size)
	sizeDelta := size
	if !isLong {
		sizeDelta = size.Neg()
	}

	accountID, ok := new(big.Int).SetString(account.AccountID, 10)
	if !ok {
		return nil, apperrors.New(apperrors.ErrInternal,
			fmt.Sprintf("stored account id %q is not numeric", account.AccountID), nil)
	}

	backend, c, err := e.gateway.Backend(ctx, req.ChainID)
	if err != nil {
		return nil, err
	}

	calldata, err := chain.PerpsMarketABI.Pack("commitOrder",
		market.ID, accountID, toWad(sizeDelta), toWad(acceptable))
	if err != nil {
		return nil, apperrors.New(apperrors.ErrInternal, "failed to encode commitOrder call", err)
	}

	receipt, tx, err := submitTx(ctx, backend, c, wallet, c.PerpsMarket, calldata,
		time.Duration(e.trading.ConfirmTimeoutSec)*time.Second)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues(req.Market, "failed").Inc()
		return nil, err
	}

	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		ChainID:         req.ChainID,
		Market:          req.Market,
		Side:            req.Side,
		Size:            sizeDelta.String(),
		Leverage:        req.Leverage,
		RequestedPrice:  reference.String(),
		AcceptablePrice: acceptable.String(),
		// provisional until the fill monitor reconciles the actual fill
		FillPrice: reference.String(),
		TxHash:    tx.Hash().Hex(),
		Status:    model.OrderStatusConfirmed,
	}
	if err := e.orders.Insert(ctx, order); err != nil {
		// The commitment is on-chain; losing the row is an ops problem, not
		// a reason to report failure to the trader.
		logger.Error("failed to persist confirmed order",
			"order_id", order.ID, "tx_hash", order.TxHash, "error", err)
	}

	e.publishFill(ctx, order)

	metrics.OrdersTotal.WithLabelValues(req.Market, "confirmed").Inc()
	logger.Info("order committed",
		"order_id", order.ID, "user_id", userID, "market", req.Market,
		"side", req.Side, "size", order.Size, "acceptable_price", order.AcceptablePrice,
		"tx_hash", order.TxHash, "block", receipt.BlockNumber)

	return &model.TradeResponse{
		OrderID:         order.ID,
		TxHash:          order.TxHash,
		Market:          order.Market,
		Side:            order.Side,
		Size:            order.Size,
		AcceptablePrice: order.AcceptablePrice,
		FillPrice:       order.FillPrice,
		Status:          order.Status,
	}, nil
}

// referencePrice uses the trader's limit price when given, otherwise the
// oracle's latest price for the market.
func (e *Executor) referencePrice(req *model.TradeRequest) (decimal.Decimal, error) {
	if req.LimitPrice != nil {
		price := decimal.NewFromFloat(*req.LimitPrice)
		if price.Sign() <= 0 {
			return decimal.Zero, apperrors.NewInvalidRequest("limit price must be positive")
		}
		return price, nil
	}
	price, ok := e.prices.Price(req.Market)
	if !ok {
		return decimal.Zero, apperrors.New(apperrors.ErrExecutionFailed,
			fmt.Sprintf("no reference price available for %s", req.Market), nil)
	}
	return price, nil
}

func (e *Executor) publishFill(ctx context.Context, order *model.Order) {
	event := events.FillEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		ChainID:   order.ChainID,
		Market:    order.Market,
		Side:      order.Side,
		Size:      order.Size,
		FillPrice: order.FillPrice,
		TxHash:    order.TxHash,
		At:        time.Now().UTC(),
	}
	if err := e.publisher.PublishFill(ctx, event); err != nil {
		logger.Warn("failed to publish fill event", "order_id", order.ID, "error", err)
	}
}
