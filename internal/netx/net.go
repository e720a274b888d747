// Package netx is a small JSON-RPC 2.0 client over HTTP, used to talk to an
// Ethereum-compatible node for signing and payments.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// ErrTransport marks failures to reach the endpoint or read its reply.
var ErrTransport = errors.New("rpc transport error")

// RPCError is an error object returned by the remote node.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCClient calls JSON-RPC methods on a single endpoint.
type RPCClient struct {
	url    string
	http   *http.Client
	nextID atomic.Uint64
}

func NewRPCClient(url string, httpClient *http.Client) *RPCClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &RPCClient{url: url, http: httpClient}
}

// Call invokes method with params and decodes the result into out (which
// may be nil). A JSON null result leaves out untouched.
func (c *RPCClient) Call(ctx context.Context, out any, method string, params ...any) error {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s; body: %s", ErrTransport, resp.Status, string(raw))
	}

	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("%w: decode reply: %v", ErrTransport, err)
	}

	if r.Error != nil {
		return r.Error
	}

	if out == nil || len(r.Result) == 0 || string(r.Result) == "null" {
		return nil
	}

	return json.Unmarshal(r.Result, out)
}
