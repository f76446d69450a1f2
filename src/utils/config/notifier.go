package config

import (
	"time"

	"github.com/spf13/viper"
)

type Notifier struct {
	// Time after which a success status is hidden
	SuccessDelay time.Duration

	// Time after which an error status is hidden
	ErrorDelay time.Duration

	// Num of past statuses kept for the API
	HistorySize int
}

func setNotifierDefaults() {
	viper.SetDefault("Notifier.SuccessDelay", "2s")
	viper.SetDefault("Notifier.ErrorDelay", "3s")
	viper.SetDefault("Notifier.HistorySize", "50")
}
