package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Minimal ABI surfaces of the two protocol contracts this gateway calls.
// The account proxy mints numeric trading accounts; the perps market takes
// order commitments against them.
const accountProxyJSON = `[
	{"inputs":[],"name":"createAccount","outputs":[{"name":"accountId","type":"uint128"}],"stateMutability":"nonpayable","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"accountId","type":"uint128"},{"indexed":true,"name":"owner","type":"address"}],"name":"AccountCreated","type":"event"}
]`

const perpsMarketJSON = `[
	{"inputs":[{"name":"marketId","type":"uint128"},{"name":"accountId","type":"uint128"},{"name":"sizeDelta","type":"int128"},{"name":"acceptablePrice","type":"uint256"}],"name":"commitOrder","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var (
	AccountProxyABI = mustABI(accountProxyJSON)
	PerpsMarketABI  = mustABI(perpsMarketJSON)

	// AccountCreatedTopic is the topic0 the provisioner scans receipts for
	AccountCreatedTopic common.Hash = AccountProxyABI.Events["AccountCreated"].ID
)

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("invalid embedded abi: " + err.Error())
	}
	return parsed
}
