package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/xssnick/tonutils-go/address"
)

const (
	// ToncenterJSONRPC is the public toncenter v2 JSON-RPC endpoint
	ToncenterJSONRPC = "https://toncenter.com/api/v2/jsonRPC"

	stateActive = "active"
)

// ToncenterClient is a client for the toncenter v2 JSON-RPC API
type ToncenterClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	nextID   atomic.Uint64
}

// NewToncenterClient creates a new toncenter client.
// apiKey is optional, without it toncenter allows ~1 request per second.
func NewToncenterClient(endpoint, apiKey string, timeout time.Duration) *ToncenterClient {
	if endpoint == "" {
		endpoint = ToncenterJSONRPC
	}
	return &ToncenterClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type rpcRequest struct {
	ID      uint64 `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
	Code   int             `json:"code,omitempty"`
}

// RPCError is an error reported by the JSON-RPC endpoint
type RPCError struct {
	Method string
	Status int
	Code   int
	Msg    string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s failed: status %d, code %d: %s", e.Method, e.Status, e.Code, e.Msg)
}

// RunGetMethodResult is the result of runGetMethod
type RunGetMethodResult struct {
	GasUsed  int64               `json:"gas_used"`
	Stack    [][]json.RawMessage `json:"stack"`
	ExitCode int                 `json:"exit_code"`
}

// GetSeqno returns the seqno of the wallet at addr, 0 for a wallet that is not deployed yet
func (c *ToncenterClient) GetSeqno(ctx context.Context, addr *address.Address) (uint32, error) {
	state, err := c.GetAddressState(ctx, addr.String())
	if err != nil {
		return 0, err
	}
	if state != stateActive {
		return 0, nil
	}

	res, err := c.RunGetMethod(ctx, addr.String(), "seqno")
	if err != nil {
		return 0, err
	}
	if res.ExitCode != 0 {
		return 0, fmt.Errorf("seqno get method exited with code %d", res.ExitCode)
	}

	n, err := res.StackInt(0)
	if err != nil {
		return 0, fmt.Errorf("failed to parse seqno: %w", err)
	}
	if n.Sign() < 0 || !n.IsUint64() || n.Uint64() > 0xFFFFFFFF {
		return 0, fmt.Errorf("seqno out of range: %s", n)
	}
	return uint32(n.Uint64()), nil
}

// GetAddressState returns "active", "uninitialized" or "frozen"
func (c *ToncenterClient) GetAddressState(ctx context.Context, addr string) (string, error) {
	var state string
	if err := c.call(ctx, "getAddressState", map[string]string{"address": addr}, &state); err != nil {
		return "", err
	}
	return state, nil
}

// RunGetMethod runs a get method without arguments on the contract at addr
func (c *ToncenterClient) RunGetMethod(ctx context.Context, addr, method string) (*RunGetMethodResult, error) {
	params := map[string]any{
		"address": addr,
		"method":  method,
		"stack":   []any{},
	}
	var res RunGetMethodResult
	if err := c.call(ctx, "runGetMethod", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// StackInt decodes a ["num", "0x.."] stack entry
func (r *RunGetMethodResult) StackInt(index int) (*big.Int, error) {
	if index >= len(r.Stack) {
		return nil, fmt.Errorf("stack has %d entries, want index %d", len(r.Stack), index)
	}
	entry := r.Stack[index]
	if len(entry) != 2 {
		return nil, fmt.Errorf("malformed stack entry")
	}

	var typ, value string
	if err := json.Unmarshal(entry[0], &typ); err != nil {
		return nil, fmt.Errorf("malformed stack entry type: %w", err)
	}
	if typ != "num" {
		return nil, fmt.Errorf("stack entry is %q, not num", typ)
	}
	if err := json.Unmarshal(entry[1], &value); err != nil {
		return nil, fmt.Errorf("malformed stack entry value: %w", err)
	}

	neg := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(strings.TrimPrefix(value, "-"), "0x")
	n, ok := new(big.Int).SetString(value, 16)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", value)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

func (c *ToncenterClient) call(ctx context.Context, method string, params, out any) error {
	body, err := json.Marshal(rpcRequest{
		ID:      c.nextID.Add(1),
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &RPCError{Method: method, Status: resp.StatusCode, Msg: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK || !rpcResp.OK {
		return &RPCError{Method: method, Status: resp.StatusCode, Code: rpcResp.Code, Msg: rpcResp.Error}
	}
	if len(rpcResp.Result) == 0 {
		return errors.New(method + " returned no result")
	}

	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
