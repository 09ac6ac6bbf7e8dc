package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/chain"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/config"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/keyvault"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/logger"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/metrics"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/repository"
)

// Provisioner creates on-chain trading accounts, one per (user, chain).
// The flow is idempotent: a user who already holds an account on the chain
// gets it back without any RPC traffic.
type Provisioner struct {
	gateway        *chain.Gateway
	wallets        WalletRepo
	accounts       AccountRepo
	confirmTimeout time.Duration
}

func NewProvisioner(gateway *chain.Gateway, wallets WalletRepo, accounts AccountRepo, cfg config.TradingConfig) *Provisioner {
	return &Provisioner{
		gateway:        gateway,
		wallets:        wallets,
		accounts:       accounts,
		confirmTimeout: time.Duration(cfg.ConfirmTimeoutSec) * time.Second,
	}
}

func (p *Provisioner) Provision(ctx context.Context, userID string, chainID int64, password string) (*model.ProvisionResponse, error) {
	// Existing account short-circuits before any chain work
	if existing, err := p.accounts.Get(ctx, userID, chainID); err == nil {
		return &model.ProvisionResponse{
			AccountID:     existing.AccountID,
			WalletAddress: existing.WalletAddress,
			TxHash:        existing.TxHash,
			Created:       false,
		}, nil
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, apperrors.Wrap(err)
	}

	wallet, err := p.loadWallet(ctx, userID, password)
	if err != nil {
		metrics.ProvisionsTotal.WithLabelValues(fmt.Sprint(chainID), "rejected").Inc()
		return nil, err
	}

	backend, c, err := p.gateway.Backend(ctx, chainID)
	if err != nil {
		metrics.ProvisionsTotal.WithLabelValues(fmt.Sprint(chainID), "rejected").Inc()
		return nil, err
	}

	calldata, err := chain.AccountProxyABI.Pack("createAccount")
	if err != nil {
		return nil, apperrors.New(apperrors.ErrInternal, "failed to encode createAccount call", err)
	}

	receipt, tx, err := submitTx(ctx, backend, c, wallet, c.AccountProxy, calldata, p.confirmTimeout)
	if err != nil {
		metrics.ProvisionsTotal.WithLabelValues(c.Name, "failed").Inc()
		return nil, err
	}

	accountID, err := accountIDFromReceipt(c, receipt)
	if err != nil {
		metrics.ProvisionsTotal.WithLabelValues(c.Name, "failed").Inc()
		return nil, err
	}

	// The unique (user_id, chain_id) index closes the race against a
	// concurrent provision; the row that won is what the user gets back.
	stored, err := p.accounts.CreateOrGet(ctx, &model.TradingAccount{
		UserID:        userID,
		ChainID:       chainID,
		AccountID:     accountID.String(),
		WalletAddress: wallet.Address().Hex(),
		TxHash:        tx.Hash().Hex(),
	})
	if err != nil {
		return nil, apperrors.Wrap(err)
	}

	metrics.ProvisionsTotal.WithLabelValues(c.Name, "created").Inc()
	logger.Info("trading account provisioned",
		"user_id", userID, "chain", c.Name, "account_id", stored.AccountID, "tx_hash", stored.TxHash)

	return &model.ProvisionResponse{
		AccountID:     stored.AccountID,
		WalletAddress: stored.WalletAddress,
		TxHash:        stored.TxHash,
		Created:       stored.TxHash == tx.Hash().Hex(),
	}, nil
}

// loadWallet fetches, decodes and decrypts the custodial key row into a
// transaction signer.
func (p *Provisioner) loadWallet(ctx context.Context, userID, password string) (*chain.Wallet, error) {
	row, err := p.wallets.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound,
				fmt.Sprintf("no wallet key stored for user %s", userID), nil)
		}
		return nil, apperrors.Wrap(err)
	}
	rec, err := keyvault.RecordFromRow(row)
	if err != nil {
		return nil, err
	}
	privateKey, err := rec.Decrypt(password)
	if err != nil {
		return nil, err
	}
	wallet, err := chain.NewWallet(privateKey)
	if err != nil {
		// Decryption "succeeded" but the plaintext is not a key: the row is
		// corrupt or the legacy password convention changed underneath it.
		return nil, apperrors.New(apperrors.ErrDecryptionFailed, "wallet decryption failed", nil)
	}
	return wallet, nil
}

// accountIDFromReceipt scans the mined receipt for the AccountCreated event
// emitted by the chain's account proxy. A receipt without the event is a
// RECEIPT_PARSE_FAILED carrying the tx hash, since the account exists
// on-chain but its id is unknown.
func accountIDFromReceipt(c chain.Chain, receipt *types.Receipt) (*big.Int, error) {
	for _, log := range receipt.Logs {
		if log.Address != c.AccountProxy {
			continue
		}
		if len(log.Topics) < 2 || log.Topics[0] != chain.AccountCreatedTopic {
			continue
		}
		return new(big.Int).SetBytes(log.Topics[1].Bytes()), nil
	}
	return nil, apperrors.New(apperrors.ErrReceiptParse,
		fmt.Sprintf("transaction %s confirmed but no AccountCreated event found", receipt.TxHash.Hex()), nil)
}
