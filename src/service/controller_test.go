package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/warp-contracts/mindshare/src/chain"
	"github.com/warp-contracts/mindshare/src/utils/config"
	"github.com/warp-contracts/mindshare/src/utils/model"

	"github.com/stretchr/testify/suite"
)

const (
	contractAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

	// Hardhat's first default account
	privateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	address    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

type ControllerTestSuite struct {
	suite.Suite
	node   *httptest.Server
	config *config.Config
}

// Node answering eth_chainId only
func (s *ControllerTestSuite) SetupTest() {
	s.node = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Id     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.Id,
			"result":  "0x7a69",
		})
	}))

	s.config = config.Default()
	s.config.Chain.RpcUrl = s.node.URL
	s.config.Chain.ChainId = 31337
	s.config.Chain.ContractAddress = contractAddress
	s.config.Database.Driver = model.DriverSqlite
	s.config.Database.Path = ":memory:"

	// Keeps the background encryption initialization local
	s.config.Encryption.Urls = []string{s.node.URL}
	s.config.Encryption.InitMaxElapsedTime = time.Millisecond
}

func (s *ControllerTestSuite) TearDownTest() {
	s.node.Close()
}

func (s *ControllerTestSuite) TestNewController() {
	controller, err := NewController(s.config)
	s.Require().NoError(err)
	defer controller.Close()

	s.Require().NotNil(controller.Lifecycle)
	s.Require().NotNil(controller.Journal)
	s.Require().Equal(contractAddress, controller.Lifecycle.ContractAddress())

	_, connected := controller.Lifecycle.Address()
	s.Require().False(connected)

	ops, err := controller.Journal.List(controller.Ctx, 10)
	s.Require().NoError(err)
	s.Require().Empty(ops)
}

func (s *ControllerTestSuite) TestNewControllerConnectsWallet() {
	s.config.Chain.PrivateKey = privateKey

	controller, err := NewController(s.config)
	s.Require().NoError(err)
	defer controller.Close()

	connected, ok := controller.Lifecycle.Address()
	s.Require().True(ok)
	s.Require().Equal(address, connected.Hex())
}

func (s *ControllerTestSuite) TestChainIdMismatch() {
	s.config.Chain.ChainId = 11155111

	_, err := NewController(s.config)
	s.Require().Error(err)
}

func (s *ControllerTestSuite) TestInvalidContractAddress() {
	s.config.Chain.ContractAddress = "not-an-address"

	_, err := NewController(s.config)
	s.Require().ErrorIs(err, chain.ErrInvalidAddress)
}

func (s *ControllerTestSuite) TestInvalidPrivateKey() {
	s.config.Chain.PrivateKey = "zz"

	_, err := NewController(s.config)
	s.Require().Error(err)
}
