package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/chain"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/logger"
)

const receiptPollInterval = 2 * time.Second

// submitTx runs the full write path against one chain: price the gas, verify
// the wallet can pay for it, sign, broadcast and wait for the receipt. The
// gas check happens before anything is broadcast, so an underfunded wallet
// never burns a nonce.
func submitTx(ctx context.Context, backend chain.Backend, c chain.Chain, w *chain.Wallet,
	to common.Address, calldata []byte, confirmTimeout time.Duration) (*types.Receipt, *types.Transaction, error) {

	from := w.Address()

	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, nil, apperrors.New(apperrors.ErrExecutionFailed,
			fmt.Sprintf("failed to fetch gas price on %s", c.Name), err)
	}

	gasLimit, err := backend.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &to,
		Data: calldata,
	})
	if err != nil {
		return nil, nil, classifyRPCError(c, from, err)
	}

	required := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), gasPrice)
	balance, err := backend.BalanceAt(ctx, from, nil)
	if err != nil {
		return nil, nil, apperrors.New(apperrors.ErrExecutionFailed,
			fmt.Sprintf("failed to fetch wallet balance on %s", c.Name), err)
	}
	if balance.Cmp(required) < 0 {
		return nil, nil, apperrors.New(apperrors.ErrInsufficientGas,
			fmt.Sprintf("insufficient gas on %s: need %s ETH, wallet %s has %s ETH",
				c.Name, weiToEth(required), from.Hex(), weiToEth(balance)), nil)
	}

	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, nil, apperrors.New(apperrors.ErrExecutionFailed,
			fmt.Sprintf("failed to fetch nonce on %s", c.Name), err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     calldata,
	})
	signed, err := w.SignTx(tx, big.NewInt(c.ID))
	if err != nil {
		return nil, nil, apperrors.New(apperrors.ErrExecutionFailed, "failed to sign transaction", err)
	}

	if err := backend.SendTransaction(ctx, signed); err != nil {
		return nil, nil, classifyRPCError(c, from, err)
	}
	logger.Info("transaction broadcast",
		"chain", c.Name, "tx_hash", signed.Hash().Hex(), "nonce", nonce)

	receipt, err := waitMined(ctx, backend, signed.Hash(), confirmTimeout)
	if err != nil {
		return nil, signed, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, signed, apperrors.New(apperrors.ErrExecutionFailed,
			fmt.Sprintf("transaction %s reverted on %s", signed.Hash().Hex(), c.Name), nil)
	}
	return receipt, signed, nil
}

// waitMined polls for the receipt until the confirmation deadline. Node
// errors while polling are treated as "not mined yet"; only the deadline
// fails the wait.
func waitMined(ctx context.Context, backend chain.Backend, txHash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, apperrors.New(apperrors.ErrExecutionFailed,
				fmt.Sprintf("transaction %s not confirmed within deadline", txHash.Hex()), ctx.Err())
		case <-ticker.C:
		}
	}
}

// classifyRPCError maps node-side failures onto the error taxonomy. Nodes
// report underfunding as a plain string, so this is a substring match.
func classifyRPCError(c chain.Chain, from common.Address, err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "insufficient funds") {
		return apperrors.New(apperrors.ErrInsufficientGas,
			fmt.Sprintf("insufficient gas on %s: wallet %s cannot cover the transaction", c.Name, from.Hex()), err)
	}
	return apperrors.New(apperrors.ErrExecutionFailed,
		fmt.Sprintf("transaction failed on %s", c.Name), err)
}

func weiToEth(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, -18).String()
}
