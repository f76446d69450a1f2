package config

import (
	"time"

	"github.com/spf13/viper"
)

type Encryption struct {
	// List of relayer urls that can be used, order matters
	Urls []string

	// Time limit for requests. The timeout includes connection time, any
	// redirects, and reading the response body
	RequestTimeout time.Duration

	// Maximum amount of time a dial will wait for a connect to complete.
	DialerTimeout time.Duration

	// Maximum amount of time an idle (keep-alive) connection will remain idle before closing itself.
	IdleConnTimeout time.Duration

	// Max time initialization is retried. 0 means no limit
	InitMaxElapsedTime time.Duration

	// Max time between initialization retries
	InitMaxInterval time.Duration
}

func setEncryptionDefaults() {
	viper.SetDefault("Encryption.Urls", []string{"https://relayer.testnet.zama.cloud"})
	viper.SetDefault("Encryption.RequestTimeout", "60s")
	viper.SetDefault("Encryption.DialerTimeout", "30s")
	viper.SetDefault("Encryption.IdleConnTimeout", "31s")
	viper.SetDefault("Encryption.InitMaxElapsedTime", "1m")
	viper.SetDefault("Encryption.InitMaxInterval", "10s")
}
