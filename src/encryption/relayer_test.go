package encryption

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/warp-contracts/mindshare/src/utils/config"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const handleHex = "0x00000000000000000000000000000000000000000000000000000000000000ab"

func TestRelayerTestSuite(t *testing.T) {
	suite.Run(t, new(RelayerTestSuite))
}

type RelayerTestSuite struct {
	suite.Suite
	ctx     context.Context
	cancel  context.CancelFunc
	server  *httptest.Server
	relayer *Relayer

	lastInput   inputProofRequest
	lastDecrypt publicDecryptRequest
	denyDecrypt bool
}

func (s *RelayerTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.denyDecrypt = false

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/keyurl", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(KeyInfo{PublicKeyId: "key-1", PublicKeyUrl: "https://keys/1"})
	})
	mux.HandleFunc("/v1/input-proof", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&s.lastInput)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(inputProofResponse{Handles: []string{handleHex}, InputProof: "0xbeef"})
	})
	mux.HandleFunc("/v1/public-decrypt", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&s.lastDecrypt)
		w.Header().Set("Content-Type", "application/json")
		if s.denyDecrypt {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"not allowed"}`))
			return
		}
		_, _ = w.Write([]byte(`{"clearValues":{"` + handleHex + `":"7"},"abiEncodedClearValues":"0x07","decryptionProof":"0x0102"}`))
	})
	s.server = httptest.NewServer(mux)

	cfg := config.Default()
	cfg.Encryption.Urls = []string{s.server.URL}
	s.relayer = NewRelayer(&cfg.Encryption)
}

func (s *RelayerTestSuite) TearDownTest() {
	s.server.Close()
	s.cancel()
}

func (s *RelayerTestSuite) TestGetKeyInfo() {
	info, err := s.relayer.GetKeyInfo(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("key-1", info.PublicKeyId)
}

func (s *RelayerTestSuite) TestInputProof() {
	contract := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	user := common.HexToAddress("0xABC0000000000000000000000000000000000001")

	out, err := s.relayer.InputProof(s.ctx, contract, user, 3)
	s.Require().NoError(err)
	s.Require().Equal(common.HexToHash(handleHex), out.Data)
	s.Require().Equal([]byte{0xbe, 0xef}, out.Proof)

	s.Require().Equal(int64(3), s.lastInput.Value)
	s.Require().Equal(contract.Hex(), s.lastInput.ContractAddress)
	s.Require().Equal(user.Hex(), s.lastInput.UserAddress)
}

func (s *RelayerTestSuite) TestPublicDecrypt() {
	handle := common.HexToHash(handleHex)

	out, err := s.relayer.PublicDecrypt(s.ctx, []common.Hash{handle}, common.Address{})
	s.Require().NoError(err)
	v, ok := out.Value(handle)
	s.Require().True(ok)
	s.Require().Equal(uint64(7), v)
	s.Require().Equal([]byte{0x07}, out.AbiEncodedClearValues)
	s.Require().Equal([]byte{0x01, 0x02}, out.DecryptionProof)
	s.Require().Equal([]string{handle.Hex()}, s.lastDecrypt.Handles)
}

func (s *RelayerTestSuite) TestPublicDecryptDenied() {
	s.denyDecrypt = true

	_, err := s.relayer.PublicDecrypt(s.ctx, []common.Hash{common.HexToHash(handleHex)}, common.Address{})
	var statusErr *StatusError
	s.Require().True(errors.As(err, &statusErr))
	s.Require().Equal(http.StatusForbidden, statusErr.StatusCode)
	s.Require().True(statusErr.IsClientError())
}

func TestRelayerWithoutUrls(t *testing.T) {
	relayer := NewRelayer(&config.Encryption{})
	_, err := relayer.GetKeyInfo(context.Background())
	require.ErrorIs(t, err, ErrEncryptionUnavailable)
}

func TestInputProofResponseWithoutHandles(t *testing.T) {
	_, err := (&inputProofResponse{InputProof: "0x01"}).toEncryptedInput()
	require.ErrorIs(t, err, ErrNoHandles)
}
