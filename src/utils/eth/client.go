package eth

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/warp-contracts/mindshare/src/utils/config"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

var ErrNoPrivateKey = errors.New("private key not set")

func GetEthClient(log *logrus.Entry, chainConfig *config.Chain) (client *ethclient.Client, err error) {
	if chainConfig.RpcUrl == "" {
		err = errors.New("ETH rpc url unknown")
		log.WithError(err).Error("Cannot get ETH client")
		return
	}

	client, err = ethclient.Dial(chainConfig.RpcUrl)
	if err != nil {
		log.WithError(err).Error("Cannot get ETH client")
		return
	}

	return
}

// Checks the node serves the configured chain
func CheckChainId(ctx context.Context, client *ethclient.Client, expected int64) (err error) {
	chainId, err := client.ChainID(ctx)
	if err != nil {
		return
	}
	if chainId.Cmp(big.NewInt(expected)) != 0 {
		return fmt.Errorf("chain id mismatch, expected %d, node serves %s", expected, chainId)
	}
	return
}

// Creates transaction options signing with the given hex encoded private key
func NewTransactor(privateKeyHex string, chainId int64) (address common.Address, opts *bind.TransactOpts, err error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if privateKeyHex == "" {
		err = ErrNoPrivateKey
		return
	}

	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		err = fmt.Errorf("invalid private key: %w", err)
		return
	}

	opts, err = bind.NewKeyedTransactorWithChainID(key, big.NewInt(chainId))
	if err != nil {
		return
	}

	address = crypto.PubkeyToAddress(key.PublicKey)
	return
}
