package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"
)

// RPCClient invokes the commitment contract through a JSON-RPC node.
type RPCClient struct {
	httpClient *http.Client
	endpoint   string
	contract   string
	nextID     atomic.Int64
}

// RPCConfig configures the node connection.
type RPCConfig struct {
	Endpoint string
	Contract string
	Timeout  time.Duration
}

// NewRPCClient builds a client for the configured node and contract hash.
func NewRPCClient(cfg RPCConfig) *RPCClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &RPCClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		contract:   cfg.Contract,
	}
}

var _ Invoker = (*RPCClient)(nil)

// Invoke submits an invokefunction call and returns the resulting
// transaction hash and VM state.
func (c *RPCClient) Invoke(ctx context.Context, method string, args ...any) (Result, error) {
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      c.nextID.Add(1),
		"method":  "invokefunction",
		"params":  []any{c.contract, method, args},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("marshal invocation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build invocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("invoke %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read invocation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("invoke %s: node returned status %d", method, resp.StatusCode)
	}

	if rpcErr := gjson.GetBytes(raw, "error"); rpcErr.Exists() {
		return Result{}, fmt.Errorf("invoke %s: node error %s: %s",
			method, rpcErr.Get("code").String(), rpcErr.Get("message").String())
	}

	result := gjson.GetBytes(raw, "result")
	if !result.Exists() {
		return Result{}, fmt.Errorf("invoke %s: malformed node response", method)
	}

	state := result.Get("state").String()
	if state != "" && state != "HALT" {
		return Result{}, fmt.Errorf("invoke %s: vm state %s: %s",
			method, state, result.Get("exception").String())
	}

	return Result{
		TxHash: result.Get("txhash").String(),
		State:  state,
	}, nil
}
