package config

import "github.com/spf13/viper"

type Api struct {
	// REST API address used by the presentation layer
	ListenAddress string

	// Origins allowed to call the API
	AllowOrigins []string

	// Sustained num of mutating requests per second allowed for one client
	RateLimit float64

	// Max burst of mutating requests for one client
	RateBurst int
}

func setApiDefaults() {
	viper.SetDefault("Api.ListenAddress", "0.0.0.0:4000")
	viper.SetDefault("Api.AllowOrigins", []string{"*"})
	viper.SetDefault("Api.RateLimit", "0.5")
	viper.SetDefault("Api.RateBurst", "2")
}
