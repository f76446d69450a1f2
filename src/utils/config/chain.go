package config

import (
	"time"

	"github.com/spf13/viper"
)

type Chain struct {
	// JSON-RPC endpoint of the chain hosting the records contract
	RpcUrl string

	// Chain id used for signing transactions
	ChainId int64

	// Address of the records contract
	ContractAddress string

	// Hex encoded private key of the wallet. Empty means no wallet is connected
	PrivateKey string

	// Max time waiting for a transaction to be mined. 0 means no limit
	ConfirmationTimeout time.Duration

	// Timeout of a single read call
	CallTimeout time.Duration
}

func setChainDefaults() {
	viper.SetDefault("Chain.RpcUrl", "https://ethereum-sepolia-rpc.publicnode.com")
	viper.SetDefault("Chain.ChainId", "11155111")
	viper.SetDefault("Chain.ContractAddress", "")
	viper.SetDefault("Chain.PrivateKey", "")
	viper.SetDefault("Chain.ConfirmationTimeout", "5m")
	viper.SetDefault("Chain.CallTimeout", "30s")
}
