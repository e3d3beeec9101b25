package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

const (
	SeqnoSourceJSONRPC    = "jsonrpc"
	SeqnoSourceLiteserver = "liteserver"
)

var ErrNoSecret = errors.New("one of MNEMONIC or TON_WALLET_FILE must be set")

// Config contains all configuration parameters for the application.
// It is loaded once at startup and passed by value afterwards.
type Config struct {
	Port               string        `envconfig:"PORT" default:"3000"`
	Mnemonic           string        `envconfig:"MNEMONIC"`
	WalletFilePath     string        `envconfig:"TON_WALLET_FILE"`
	WalletPassword     string        `envconfig:"TON_WALLET_PASSWORD"`
	RPCURL             string        `envconfig:"TON_RPC_URL" default:"https://toncenter.com/api/v2/jsonRPC"`
	RPCAPIKey          string        `envconfig:"TON_RPC_API_KEY"`
	SeqnoSource        string        `envconfig:"SEQNO_SOURCE" default:"jsonrpc"`
	LiteserverConfig   string        `envconfig:"LITESERVER_CONFIG_URL" default:"https://ton.org/global.config.json"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	TransferTTL        time.Duration `envconfig:"TRANSFER_TTL" default:"60s"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON            bool          `envconfig:"LOG_JSON" default:"true"`
	MetricsNamespace   string        `envconfig:"METRICS_NAMESPACE" default:"ton_boc"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints envconfig tags cannot express
func (c *Config) Validate() error {
	hasMnemonic := c.Mnemonic != ""
	hasFile := c.WalletFilePath != ""
	switch {
	case !hasMnemonic && !hasFile:
		return ErrNoSecret
	case hasMnemonic && hasFile:
		return errors.New("MNEMONIC and TON_WALLET_FILE are mutually exclusive")
	}

	switch c.SeqnoSource {
	case SeqnoSourceJSONRPC, SeqnoSourceLiteserver:
	default:
		return fmt.Errorf("SEQNO_SOURCE must be %q or %q", SeqnoSourceJSONRPC, SeqnoSourceLiteserver)
	}

	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.TransferTTL <= 0 {
		return errors.New("TRANSFER_TTL must be positive")
	}
	return nil
}

// PromptForPassword prompts the user for a password in the terminal.
// The password is read without echoing (hidden input).
// Caller must zero the returned slice after use for security.
func PromptForPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// WalletPasswordBytes returns TON_WALLET_PASSWORD or prompts for it.
// Caller must zero the returned slice after use for security.
func (c *Config) WalletPasswordBytes() ([]byte, error) {
	if c.WalletPassword != "" {
		return []byte(c.WalletPassword), nil
	}
	return PromptForPassword("Enter wallet password: ")
}
