package main

import (
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
	"github.com/yayikaidbushinen/RealEstateCipher/pkg/fhevm"
	"github.com/yayikaidbushinen/RealEstateCipher/pkg/keystore"
	"github.com/yayikaidbushinen/RealEstateCipher/pkg/ledger"
	"github.com/yayikaidbushinen/RealEstateCipher/pkg/tui"
)

// Read password securely
func readPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)

	// Check if we're in a proper terminal
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Fallback for non-interactive environments
		var password string
		_, err := fmt.Scanln(&password)
		fmt.Println()
		return []byte(password), err
	}

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	return password, err
}

// newLogger writes structured logs to the configured file. The TUI owns
// stdout, so nothing may log there.
func newLogger(cfg *Config) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}

func main() {
	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config:", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to set up logging:", err)
	}
	defer closeLog()

	password, err := readPassword("🔐 Enter keystore password: ")
	if err != nil {
		log.Fatal("Failed to read password:", err)
	}
	defer keystore.SecureZero(password)

	ks, err := keystore.Open(cfg.KeystorePath, password)
	if err != nil {
		log.Fatal("Failed to open keystore:", err)
	}
	defer ks.Lock()

	rpc, err := ethclient.Dial(cfg.RPCEndpoint)
	if err != nil {
		log.Fatal("Failed to connect to RPC endpoint:", err)
	}
	defer rpc.Close()

	contract, err := ledger.New(rpc, common.HexToAddress(cfg.ContractAddress), ks,
		big.NewInt(cfg.ChainID), logger)
	if err != nil {
		log.Fatal("Failed to bind contract:", err)
	}

	gateway := fhevm.New(cfg.RelayerURL, logger)

	client := estate.NewClient(estate.Config{
		Reader:    contract,
		Writer:    contract,
		Encryptor: gateway,
		Identity:  ks.Identity(),
		Contract:  cfg.ContractAddress,
		Logger:    logger,
	})

	logger.Info().
		Str("contract", cfg.ContractAddress).
		Str("account", ks.Address().Hex()).
		Msg("starting client")

	if err := tui.Run(client); err != nil {
		logger.Error().Err(err).Msg("tui exited with error")
		log.Fatal("Failed to run TUI:", err)
	}
}
