package eth

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestNewTransactor(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hexutil.Encode(crypto.FromECDSA(key))

	address, opts, err := NewTransactor(hexKey, 11155111)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), address)
	require.Equal(t, address, opts.From)
}

func TestNewTransactorErrors(t *testing.T) {
	_, _, err := NewTransactor("", 1)
	require.ErrorIs(t, err, ErrNoPrivateKey)

	_, _, err = NewTransactor("0xnothex", 1)
	require.Error(t, err)
}
