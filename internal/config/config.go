package config

import (
	"path/filepath"
	"time"

	"github.com/LeJamon/goRippled/internal/core/ledger"
	"github.com/LeJamon/goRippled/internal/core/tx"
	"github.com/LeJamon/goRippled/internal/storage/nodestore"
)

// DefaultFileName is the config file looked up in the config directory.
const DefaultFileName = "rippled.toml"

// Config represents the complete rippled configuration
type Config struct {
	Ledger  LedgerConfig  `toml:"ledger" mapstructure:"ledger"`
	Fees    FeesConfig    `toml:"fees" mapstructure:"fees"`
	Payment PaymentConfig `toml:"payment" mapstructure:"payment"`
	Log     LogConfig     `toml:"log" mapstructure:"log"`
	TxIndex TxIndexConfig `toml:"tx_index" mapstructure:"tx_index"`
	Verify  VerifyConfig  `toml:"verify" mapstructure:"verify"`

	configPath string `toml:"-" mapstructure:"-"`
}

// LedgerConfig represents the [ledger] section
// Selects the node store backing ledger entries
type LedgerConfig struct {
	DataDir     string `toml:"data_dir" mapstructure:"data_dir"`
	Backend     string `toml:"backend" mapstructure:"backend"`
	Compression string `toml:"compression" mapstructure:"compression"`
	CacheSize   int    `toml:"cache_size" mapstructure:"cache_size"`
	Standalone  bool   `toml:"standalone" mapstructure:"standalone"`
}

// FeesConfig represents the [fees] section, in drops
type FeesConfig struct {
	Default          uint64 `toml:"default" mapstructure:"default"`
	AccountCreate    uint64 `toml:"account_create" mapstructure:"account_create"`
	NicknameCreate   uint64 `toml:"nickname_create" mapstructure:"nickname_create"`
	ReserveBase      uint64 `toml:"reserve_base" mapstructure:"reserve_base"`
	ReserveIncrement uint64 `toml:"reserve_increment" mapstructure:"reserve_increment"`
}

// PaymentConfig represents the [payment] section
type PaymentConfig struct {
	MaxPaths   int `toml:"max_paths" mapstructure:"max_paths"`
	DirNodeMax int `toml:"dir_node_max" mapstructure:"dir_node_max"`
}

// LogConfig represents the [log] section
type LogConfig struct {
	Level        string        `toml:"level" mapstructure:"level"`
	Format       string        `toml:"format" mapstructure:"format"`
	Color        bool          `toml:"color" mapstructure:"color"`
	File         string        `toml:"file" mapstructure:"file"`
	MaxAge       time.Duration `toml:"max_age" mapstructure:"max_age"`
	RotationTime time.Duration `toml:"rotation_time" mapstructure:"rotation_time"`
}

// TxIndexConfig represents the [tx_index] section
// Applied transactions are recorded to a SQL database when enabled
type TxIndexConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Driver  string `toml:"driver" mapstructure:"driver"`
	DSN     string `toml:"dsn" mapstructure:"dsn"`
}

// VerifyConfig represents the [verify] section
type VerifyConfig struct {
	// CacheTTL is how long signature outcomes are remembered; zero
	// disables the cache.
	CacheTTL time.Duration `toml:"cache_ttl" mapstructure:"cache_ttl"`
}

// PathFromDir returns the config file path inside configDir
func PathFromDir(configDir string) string {
	return filepath.Join(configDir, DefaultFileName)
}

// GetConfigPath returns the path the configuration was loaded from
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// NodeStore returns the node store configuration of the [ledger] section
func (c *Config) NodeStore() *nodestore.Config {
	ns := nodestore.DefaultConfig()
	ns.ApplyOptions(
		nodestore.WithBackend(c.Ledger.Backend),
		nodestore.WithPath(c.Ledger.DataDir),
		nodestore.WithCompression(c.Ledger.Compression),
	)
	return ns
}

// LedgerFees returns the fee schedule of the [fees] section
func (c *Config) LedgerFees() ledger.Fees {
	return ledger.Fees{
		Base:             c.Fees.Default,
		AccountCreate:    c.Fees.AccountCreate,
		NicknameCreate:   c.Fees.NicknameCreate,
		ReserveBase:      c.Fees.ReserveBase,
		ReserveIncrement: c.Fees.ReserveIncrement,
	}
}

// Processor returns the transaction processor settings
func (c *Config) Processor() tx.Config {
	return tx.Config{
		MaxPaths:   c.Payment.MaxPaths,
		DirNodeMax: c.Payment.DirNodeMax,
		Standalone: c.Ledger.Standalone,
	}
}
