package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	// Chain settings
	RPCEndpoint     string `json:"rpc_endpoint"`
	ChainID         int64  `json:"chain_id"`
	ContractAddress string `json:"contract_address"`

	// Encryption relayer
	RelayerURL string `json:"relayer_url"`

	// File paths
	KeystorePath string `json:"keystore_path"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		RPCEndpoint:     "http://localhost:8545",
		ChainID:         11155111,
		ContractAddress: "0x0000000000000000000000000000000000000000",
		RelayerURL:      "http://localhost:8571",
		KeystorePath:    "keystore.json",
		LogLevel:        "info",
		LogFile:         "realestate.log",
	}
}

// LoadConfig loads configuration from file or creates default
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		var config Config
		if err := json.NewDecoder(file).Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		return &config, nil
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}
	return config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.RPCEndpoint == "" {
		return fmt.Errorf("rpc_endpoint must be set")
	}
	if c.ChainID <= 0 {
		return fmt.Errorf("chain_id must be positive")
	}
	if len(c.ContractAddress) != 42 {
		return fmt.Errorf("contract_address must be a 0x-prefixed 20-byte address")
	}
	if c.RelayerURL == "" {
		return fmt.Errorf("relayer_url must be set")
	}
	if c.KeystorePath == "" {
		return fmt.Errorf("keystore_path must be set")
	}
	return nil
}
