package config

import (
	"time"

	"github.com/spf13/viper"
)

type Repository struct {
	// How long a loaded snapshot is served before it's fetched again
	SnapshotTTL time.Duration

	// Num of workers fetching record details
	DetailWorkers int

	// Period of reloading the snapshot in the background, used only by the long running service
	RefreshInterval time.Duration
}

func setRepositoryDefaults() {
	viper.SetDefault("Repository.SnapshotTTL", "1m")
	viper.SetDefault("Repository.DetailWorkers", "8")
	viper.SetDefault("Repository.RefreshInterval", "30s")
}
