package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/storage/nodestore"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

var (
	validLogFormats = []string{"text", "json"}
	validTxDrivers  = []string{"sqlite", "postgres"}
)

// ValidateConfig checks every section of the configuration
func ValidateConfig(config *Config) error {
	if err := config.Ledger.Validate(); err != nil {
		return fmt.Errorf("ledger config validation failed: %w", err)
	}
	if err := config.Fees.Validate(); err != nil {
		return fmt.Errorf("fees config validation failed: %w", err)
	}
	if err := config.Payment.Validate(); err != nil {
		return fmt.Errorf("payment config validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}
	if err := config.TxIndex.Validate(); err != nil {
		return fmt.Errorf("tx_index config validation failed: %w", err)
	}
	if config.Verify.CacheTTL < 0 {
		return fmt.Errorf("%w: verify.cache_ttl must be non-negative, got %s", ErrInvalidConfig, config.Verify.CacheTTL)
	}

	// Cross-validation checks
	if config.TxIndex.Enabled && config.TxIndex.Driver == "sqlite" &&
		config.TxIndex.DSN == "" && config.Ledger.DataDir == "" {
		return fmt.Errorf("%w: tx_index with sqlite needs a dsn or ledger.data_dir", ErrInvalidConfig)
	}

	return nil
}

// Validate performs validation on the [ledger] section
func (l *LedgerConfig) Validate() error {
	if !nodestore.IsBackendAvailable(l.Backend) {
		return fmt.Errorf("%w: invalid ledger backend: %s (valid options: memory, pebble, leveldb)", ErrInvalidConfig, l.Backend)
	}
	if l.Backend != "memory" && l.DataDir == "" {
		return fmt.Errorf("%w: backend %s requires data_dir", ErrInvalidConfig, l.Backend)
	}
	if l.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must be non-negative, got %d", ErrInvalidConfig, l.CacheSize)
	}
	ns := nodestore.Config{Backend: l.Backend, Path: l.DataDir, Compressor: l.Compression}
	if err := ns.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate performs validation on the [fees] section
func (f *FeesConfig) Validate() error {
	if f.Default == 0 {
		return fmt.Errorf("%w: default fee must be positive", ErrInvalidConfig)
	}
	if f.AccountCreate < f.Default {
		return fmt.Errorf("%w: account_create (%d) must be at least the default fee (%d)", ErrInvalidConfig, f.AccountCreate, f.Default)
	}
	if f.NicknameCreate < f.Default {
		return fmt.Errorf("%w: nickname_create (%d) must be at least the default fee (%d)", ErrInvalidConfig, f.NicknameCreate, f.Default)
	}
	return nil
}

// Validate performs validation on the [payment] section
func (p *PaymentConfig) Validate() error {
	if p.MaxPaths < 1 {
		return fmt.Errorf("%w: max_paths must be at least 1, got %d", ErrInvalidConfig, p.MaxPaths)
	}
	if p.DirNodeMax < 1 {
		return fmt.Errorf("%w: dir_node_max must be at least 1, got %d", ErrInvalidConfig, p.DirNodeMax)
	}
	return nil
}

// Validate performs validation on the [log] section
func (l *LogConfig) Validate() error {
	if _, err := log.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("%w: invalid log level: %s", ErrInvalidConfig, l.Level)
	}
	if !slices.Contains(validLogFormats, l.Format) {
		return fmt.Errorf("%w: invalid log format: %s (valid options: text, json)", ErrInvalidConfig, l.Format)
	}
	if l.File != "" && (l.MaxAge <= 0 || l.RotationTime <= 0) {
		return fmt.Errorf("%w: log file rotation needs positive max_age and rotation_time", ErrInvalidConfig)
	}
	return nil
}

// Validate performs validation on the [tx_index] section
func (t *TxIndexConfig) Validate() error {
	if !t.Enabled {
		return nil
	}
	if !slices.Contains(validTxDrivers, t.Driver) {
		return fmt.Errorf("%w: invalid tx_index driver: %s (valid options: sqlite, postgres)", ErrInvalidConfig, t.Driver)
	}
	if t.Driver == "postgres" && t.DSN == "" {
		return fmt.Errorf("%w: tx_index driver postgres requires dsn", ErrInvalidConfig)
	}
	return nil
}
