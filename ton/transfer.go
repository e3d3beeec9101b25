package ton

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"github.com/AlexZinkM/ton-boc-backend/internal/common"
	"github.com/AlexZinkM/ton-boc-backend/internal/metrics"
	"github.com/AlexZinkM/ton-boc-backend/internal/model"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"go.uber.org/zap"
)

const (
	DefaultTransferTTL = 60 * time.Second
	DefaultTimeout     = 15 * time.Second
)

// SeqnoFetcher reads the current seqno of a wallet contract.
// Contracts that are not deployed yet report 0.
type SeqnoFetcher interface {
	GetSeqno(ctx context.Context, addr *address.Address) (uint32, error)
}

// TransferService signs single-message transfers from the service wallet
type TransferService struct {
	wallet  *Wallet
	seqnos  SeqnoFetcher
	log     *zap.Logger
	metrics *metrics.Metrics
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	// mu serialises seqno fetch -> transfer build for the wallet
	mu        sync.Mutex
	lastSeqno uint32
	issued    bool
}

// Option configures a TransferService
type Option func(*TransferService)

// WithTTL sets how long a signed transfer stays valid
func WithTTL(ttl time.Duration) Option {
	return func(s *TransferService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithTimeout bounds every seqno fetch
func WithTimeout(timeout time.Duration) Option {
	return func(s *TransferService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithMetrics records seqno fetches
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *TransferService) {
		s.metrics = m
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *TransferService) {
		s.now = now
	}
}

// NewTransferService creates a TransferService; seqnos is shared by all requests
func NewTransferService(w *Wallet, seqnos SeqnoFetcher, log *zap.Logger, opts ...Option) *TransferService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &TransferService{
		wallet:  w,
		seqnos:  seqnos,
		log:     log.Named("transfer"),
		ttl:     DefaultTransferTTL,
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wallet returns the signing wallet
func (s *TransferService) Wallet() *Wallet {
	return s.wallet
}

// GenerateBOC signs a transfer of amount TON to toAddress and returns it as base64 BOC.
// The transfer is not broadcast.
func (s *TransferService) GenerateBOC(ctx context.Context, toAddress, amount string) (*model.BOCResponse, error) {
	dest, err := ParseDestination(toAddress)
	if err != nil {
		return nil, newError(KindValidation, "parse destination", err)
	}

	nano, err := common.TONToNano(amount)
	if err != nil {
		return nil, newError(KindValidation, "parse amount", err)
	}

	msg := Message{
		To:     dest,
		Amount: tlb.FromNanoTON(nano),
		// always bounceable, whatever the friendly address flag says
		Bounce: true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seqno, err := s.fetchSeqno(ctx)
	if err != nil {
		return nil, newError(KindNetwork, "fetch seqno", err)
	}
	if s.issued && seqno <= s.lastSeqno {
		s.log.Warn("seqno reissued, previous transfer not committed yet",
			zap.Uint32("seqno", seqno), zap.Uint32("last_seqno", s.lastSeqno))
	}

	transfer, err := s.wallet.BuildTransfer(seqno, s.now().Add(s.ttl), SendMode, msg)
	if err != nil {
		return nil, newError(KindSigning, "build transfer", err)
	}
	s.lastSeqno, s.issued = seqno, true

	s.log.Info("transfer signed",
		zap.Uint32("seqno", seqno),
		zap.String("to", dest.String()),
		zap.String("amount_ton", common.NanoToTON(nano)),
	)

	return &model.BOCResponse{
		BOC: base64.StdEncoding.EncodeToString(transfer.ToBOC()),
	}, nil
}

func (s *TransferService) fetchSeqno(ctx context.Context) (uint32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	seqno, err := s.seqnos.GetSeqno(ctx, s.wallet.Address())
	s.metrics.ObserveSeqnoFetch(time.Since(start), seqno, err)
	return seqno, err
}
