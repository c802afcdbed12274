package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/LeJamon/goRippled/internal/core/ledger"
	"github.com/LeJamon/goRippled/internal/core/tx"
	"github.com/LeJamon/goRippled/internal/core/tx/view"
)

// setDefaults sets the values used when neither the file nor the
// environment sets a key
func setDefaults(v *viper.Viper) {
	// Ledger defaults
	v.SetDefault("ledger.data_dir", "")
	v.SetDefault("ledger.backend", "memory")
	v.SetDefault("ledger.compression", "none")
	v.SetDefault("ledger.cache_size", 4096)
	v.SetDefault("ledger.standalone", false)

	// Fee schedule of the early network
	fees := ledger.DefaultFees()
	v.SetDefault("fees.default", fees.Base)
	v.SetDefault("fees.account_create", fees.AccountCreate)
	v.SetDefault("fees.nickname_create", fees.NicknameCreate)
	v.SetDefault("fees.reserve_base", fees.ReserveBase)
	v.SetDefault("fees.reserve_increment", fees.ReserveIncrement)

	// Payment defaults
	v.SetDefault("payment.max_paths", tx.DefaultMaxPaths)
	v.SetDefault("payment.dir_node_max", view.DefaultDirNodeMax)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.color", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_age", 7*24*time.Hour)
	v.SetDefault("log.rotation_time", 24*time.Hour)

	// Transaction index is off unless asked for
	v.SetDefault("tx_index.enabled", false)
	v.SetDefault("tx_index.driver", "sqlite")
	v.SetDefault("tx_index.dsn", "")

	v.SetDefault("verify.cache_ttl", 10*time.Minute)
}

// Default returns the configuration with every default applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}
