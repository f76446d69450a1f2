package encryption

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/warp-contracts/mindshare/src/utils/config"
	"github.com/warp-contracts/mindshare/src/utils/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Error returned for a non-success HTTP status
type StatusError struct {
	StatusCode int
	Body       string
}

func (self *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", self.StatusCode, self.Body)
}

func (self *StatusError) IsClientError() bool {
	return self.StatusCode > 399 && self.StatusCode < 500
}

// HTTP client of the encryption relayer
type Relayer struct {
	config *config.Encryption
	log    *logrus.Entry

	mtx              sync.Mutex
	clients          []*resty.Client
	currentClientIdx int
}

func NewRelayer(config *config.Encryption) (self *Relayer) {
	self = new(Relayer)
	self.log = logger.NewSublogger("relayer-client")
	self.config = config

	for _, url := range self.config.Urls {
		self.log.WithField("url", url).Debug("Creating client")
		self.clients = append(self.clients, resty.New().
			SetBaseURL(url).
			SetTimeout(self.config.RequestTimeout).
			SetHeader("User-Agent", "mindshare/relayer").
			SetHeader("Content-Type", "application/json").
			SetRetryCount(0).
			SetTransport(self.createTransport()).
			OnAfterResponse(self.onStatusToError))
	}
	return
}

func (self *Relayer) createTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   self.config.DialerTimeout,
		KeepAlive: 15 * time.Second,
	}

	return &http.Transport{
		ForceAttemptHTTP2:     true,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       self.config.IdleConnTimeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       10,
	}
}

// Converts HTTP status to errors
func (self *Relayer) onStatusToError(c *resty.Client, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	self.log.WithField("status", resp.StatusCode()).
		WithField("resp", string(resp.Body())).
		WithField("url", resp.Request.URL).
		Debug("Relayer request failed")

	return &StatusError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
}

func (self *Relayer) getClient() (*resty.Client, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if len(self.clients) == 0 {
		return nil, fmt.Errorf("%w: no relayer urls configured", ErrEncryptionUnavailable)
	}

	self.currentClientIdx = (self.currentClientIdx + 1) % len(self.clients)
	return self.clients[self.currentClientIdx], nil
}

func (self *Relayer) GetKeyInfo(ctx context.Context) (out *KeyInfo, err error) {
	client, err := self.getClient()
	if err != nil {
		return
	}

	out = new(KeyInfo)
	_, err = client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetResult(out).
		Get("/v1/keyurl")
	if err != nil {
		return nil, err
	}

	if out.PublicKeyId == "" || out.PublicKeyUrl == "" {
		return nil, fmt.Errorf("%w: missing public key", ErrFailedToParse)
	}
	return
}

func (self *Relayer) InputProof(ctx context.Context, contractAddress, userAddress common.Address, value int64) (out *EncryptedInput, err error) {
	client, err := self.getClient()
	if err != nil {
		return
	}

	resp := new(inputProofResponse)
	_, err = client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetBody(&inputProofRequest{
			ContractAddress: contractAddress.Hex(),
			UserAddress:     userAddress.Hex(),
			Value:           value,
			Bits:            32,
		}).
		SetResult(resp).
		Post("/v1/input-proof")
	if err != nil {
		return
	}

	return resp.toEncryptedInput()
}

func (self *Relayer) PublicDecrypt(ctx context.Context, handles []common.Hash, contractAddress common.Address) (out *RevealProof, err error) {
	client, err := self.getClient()
	if err != nil {
		return
	}

	req := &publicDecryptRequest{
		Handles:         make([]string, 0, len(handles)),
		ContractAddress: contractAddress.Hex(),
	}
	for _, h := range handles {
		req.Handles = append(req.Handles, h.Hex())
	}

	resp := new(publicDecryptResponse)
	_, err = client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetBody(req).
		SetResult(resp).
		Post("/v1/public-decrypt")
	if err != nil {
		return
	}

	return resp.toRevealProof()
}
