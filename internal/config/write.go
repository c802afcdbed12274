package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// fileLog is LogConfig as written to disk, with durations in their text
// form so the file stays readable.
type fileLog struct {
	Level        string `toml:"level"`
	Format       string `toml:"format"`
	Color        bool   `toml:"color"`
	File         string `toml:"file"`
	MaxAge       string `toml:"max_age"`
	RotationTime string `toml:"rotation_time"`
}

type fileVerify struct {
	CacheTTL string `toml:"cache_ttl"`
}

type fileConfig struct {
	Ledger  LedgerConfig  `toml:"ledger"`
	Fees    FeesConfig    `toml:"fees"`
	Payment PaymentConfig `toml:"payment"`
	Log     fileLog       `toml:"log"`
	TxIndex TxIndexConfig `toml:"tx_index"`
	Verify  fileVerify    `toml:"verify"`
}

// SaveConfig writes c to configPath as TOML. It refuses to overwrite an
// existing file.
func SaveConfig(c *Config, configPath string) error {
	f, err := os.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	out := fileConfig{
		Ledger:  c.Ledger,
		Fees:    c.Fees,
		Payment: c.Payment,
		Log: fileLog{
			Level:        c.Log.Level,
			Format:       c.Log.Format,
			Color:        c.Log.Color,
			File:         c.Log.File,
			MaxAge:       c.Log.MaxAge.String(),
			RotationTime: c.Log.RotationTime.String(),
		},
		TxIndex: c.TxIndex,
		Verify:  fileVerify{CacheTTL: c.Verify.CacheTTL.String()},
	}
	if err := toml.NewEncoder(f).Encode(out); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}
	return nil
}

// SaveExampleConfig writes the default configuration to configPath
func SaveExampleConfig(configPath string) error {
	return SaveConfig(Default(), configPath)
}
