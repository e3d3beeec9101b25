package client

import (
	"context"
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"
)

const (
	// MainnetConfigURL is the public liteserver list of the TON mainnet
	MainnetConfigURL = "https://ton.org/global.config.json"
)

// LiteserverClient reads wallet state directly from liteservers
type LiteserverClient struct {
	pool *liteclient.ConnectionPool
	api  ton.APIClientWrapped
}

// NewLiteserverClient connects to the liteservers listed in the network config at configURL
func NewLiteserverClient(ctx context.Context, configURL string) (*LiteserverClient, error) {
	if configURL == "" {
		configURL = MainnetConfigURL
	}

	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
		return nil, fmt.Errorf("failed to connect to liteservers: %w", err)
	}

	return &LiteserverClient{
		pool: pool,
		api:  ton.NewAPIClient(pool).WithRetry(),
	}, nil
}

// GetSeqno returns the seqno of the wallet at addr, 0 for a wallet that is not deployed yet
func (c *LiteserverClient) GetSeqno(ctx context.Context, addr *address.Address) (uint32, error) {
	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get masterchain info: %w", err)
	}

	acc, err := c.api.GetAccount(ctx, block, addr)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if !acc.IsActive {
		return 0, nil
	}

	res, err := c.api.RunGetMethod(ctx, block, addr, "seqno")
	if err != nil {
		return 0, fmt.Errorf("failed to run seqno get method: %w", err)
	}

	n, err := res.Int(0)
	if err != nil {
		return 0, fmt.Errorf("failed to parse seqno: %w", err)
	}
	if n.Sign() < 0 || !n.IsUint64() || n.Uint64() > 0xFFFFFFFF {
		return 0, fmt.Errorf("seqno out of range: %s", n)
	}
	return uint32(n.Uint64()), nil
}

// Close drops all liteserver connections
func (c *LiteserverClient) Close() {
	c.pool.Stop()
}
