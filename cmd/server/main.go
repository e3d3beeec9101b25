// Serves POST /generate-boc: signs TON transfers from the configured wallet.
// Usage: go run ./cmd/server (configuration from environment or .env)
package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/ton-boc-backend/internal/api"
	"github.com/AlexZinkM/ton-boc-backend/internal/client"
	"github.com/AlexZinkM/ton-boc-backend/internal/config"
	"github.com/AlexZinkM/ton-boc-backend/internal/crypto"
	"github.com/AlexZinkM/ton-boc-backend/internal/handler"
	"github.com/AlexZinkM/ton-boc-backend/internal/logging"
	"github.com/AlexZinkM/ton-boc-backend/internal/metrics"
	"github.com/AlexZinkM/ton-boc-backend/ton"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("main: exited with error: %s", err.Error())
	}
}

func run() error {
	// .env is optional, real environment wins
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "loading .env")
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}
	defer logger.Sync()

	words, err := loadMnemonic(cfg)
	if err != nil {
		return errors.Wrap(err, "loading mnemonic")
	}
	if !crypto.IsBasicSeed(words) {
		logger.Warn("mnemonic is not a basic TON seed, derived wallet may differ from TON wallet apps")
	}

	wallet, err := ton.WalletFromMnemonic(words)
	clear(words)
	if err != nil {
		return errors.Wrap(err, "opening wallet")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seqnos, closeSeqnos, err := newSeqnoFetcher(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "creating seqno source")
	}
	defer closeSeqnos()

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
	transfers := ton.NewTransferService(wallet, seqnos, logger,
		ton.WithTTL(cfg.TransferTTL),
		ton.WithTimeout(cfg.RequestTimeout),
		ton.WithMetrics(m),
	)

	tonHandler := handler.NewTonHandler(transfers, wallet.Address().String(), logger, m)
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           api.SetupRouter(tonHandler, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	serverError := make(chan error, 1)
	go func() {
		logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("wallet", wallet.Address().String()),
			zap.String("seqno_source", cfg.SeqnoSource),
		)
		serverError <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal, shutting down")
	case err := <-serverError:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serving http")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down server")
	}
	return nil
}

func loadMnemonic(cfg *config.Config) ([]string, error) {
	var words []string
	if cfg.Mnemonic != "" {
		words = crypto.SplitMnemonic(cfg.Mnemonic)
	} else {
		password, err := cfg.WalletPasswordBytes()
		if err != nil {
			return nil, err
		}
		defer clear(password)

		words, err = ton.OpenSealedMnemonic(cfg.WalletFilePath, password)
		if err != nil {
			return nil, err
		}
	}

	if err := crypto.ValidateMnemonic(words); err != nil {
		return nil, err
	}
	return words, nil
}

func newSeqnoFetcher(ctx context.Context, cfg *config.Config) (ton.SeqnoFetcher, func(), error) {
	switch cfg.SeqnoSource {
	case config.SeqnoSourceLiteserver:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()

		lc, err := client.NewLiteserverClient(connectCtx, cfg.LiteserverConfig)
		if err != nil {
			return nil, nil, err
		}
		return lc, lc.Close, nil
	default:
		return client.NewToncenterClient(cfg.RPCURL, cfg.RPCAPIKey, cfg.RequestTimeout), func() {}, nil
	}
}
