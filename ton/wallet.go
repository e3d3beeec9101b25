package ton

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	tonwallet "github.com/xssnick/tonutils-go/ton/wallet"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

const (
	// Workchain of the service wallet
	Workchain = 0

	// SendMode 3 = pay transfer fees separately (1) + ignore errors (2)
	SendMode uint8 = 3

	// v4r2 accepts at most 4 outgoing messages per transfer
	maxMessages = 4
)

var ErrNoMessages = errors.New("transfer needs at least one message")

// Wallet is a v4r2 wallet contract bound to one key pair
type Wallet struct {
	key       ed25519.PrivateKey
	address   *address.Address
	subwallet uint32
}

// Message is one internal value transfer embedded into a wallet transfer
type Message struct {
	To     *address.Address
	Amount tlb.Coins
	Bounce bool
	Body   *cell.Cell // nil means empty body
}

// NewWallet opens the v4r2 wallet of key on the base workchain
func NewWallet(key ed25519.PrivateKey) (*Wallet, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: expected %d bytes", ed25519.PrivateKeySize)
	}

	pub := key.Public().(ed25519.PublicKey)
	addr, err := tonwallet.AddressFromPubKey(pub, tonwallet.V4R2, tonwallet.DefaultSubwallet)
	if err != nil {
		return nil, fmt.Errorf("failed to derive wallet address: %w", err)
	}

	return &Wallet{
		key:       key,
		address:   addr,
		subwallet: tonwallet.DefaultSubwallet + Workchain,
	}, nil
}

// Address returns the wallet contract address
func (w *Wallet) Address() *address.Address {
	return w.address
}

// PublicKey returns the wallet public key
func (w *Wallet) PublicKey() ed25519.PublicKey {
	return w.key.Public().(ed25519.PublicKey)
}

// BuildTransfer signs a v4r2 transfer body:
//
//	signature:bits512 subwallet:uint32 valid_until:uint32 seqno:uint32 op:uint8 (mode:uint8 ^Message)*
//
// A wallet that is not deployed yet (seqno 0) gets valid_until = 0xFFFFFFFF.
func (w *Wallet) BuildTransfer(seqno uint32, validUntil time.Time, mode uint8, messages ...Message) (*cell.Cell, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}
	if len(messages) > maxMessages {
		return nil, fmt.Errorf("too many messages: %d, max %d", len(messages), maxMessages)
	}

	payload := cell.BeginCell().MustStoreUInt(uint64(w.subwallet), 32)
	if seqno == 0 {
		payload.MustStoreUInt(math.MaxUint32, 32)
	} else {
		payload.MustStoreUInt(uint64(validUntil.Unix()), 32)
	}
	payload.MustStoreUInt(uint64(seqno), 32)
	payload.MustStoreUInt(0, 8) // simple send

	for i, m := range messages {
		msgCell, err := m.toCell()
		if err != nil {
			return nil, fmt.Errorf("failed to build message %d: %w", i, err)
		}
		payload.MustStoreUInt(uint64(mode), 8).MustStoreRef(msgCell)
	}

	unsigned := payload.EndCell()
	signature := ed25519.Sign(w.key, unsigned.Hash())

	return cell.BeginCell().
		MustStoreSlice(signature, 512).
		MustStoreBuilder(unsigned.ToBuilder()).
		EndCell(), nil
}

// toCell serializes the message as int_msg_info with an addr_none source,
// the body goes inline when it fits
func (m Message) toCell() (*cell.Cell, error) {
	if m.To == nil {
		return nil, errors.New("destination address is nil")
	}
	body := m.Body
	if body == nil {
		body = cell.BeginCell().EndCell()
	}

	c, err := tlb.ToCell(&tlb.InternalMessage{
		IHRDisabled: true,
		Bounce:      m.Bounce,
		SrcAddr:     nil, // addr_none, the wallet fills it in
		DstAddr:     m.To,
		Amount:      m.Amount,
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %w", err)
	}
	return c, nil
}

// ParseDestination parses a user-friendly (checksum verified) or raw "wc:hex" address
func ParseDestination(s string) (*address.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty address")
	}

	if strings.Contains(s, ":") {
		addr, err := address.ParseRawAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid raw address: %w", err)
		}
		return addr, nil
	}

	addr, err := address.ParseAddr(s)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}
	return addr, nil
}
