package netx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h func(req map[string]any) (int, string)) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		_ = json.Unmarshal(body, &req)
		status, reply := h(req)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRPCClient_Call_Success(t *testing.T) {
	var gotMethod string
	var gotParams []any

	ts := newServer(t, func(req map[string]any) (int, string) {
		gotMethod, _ = req["method"].(string)
		gotParams, _ = req["params"].([]any)
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":"0xabc"}`
	})

	c := NewRPCClient(ts.URL, nil)

	var out string
	err := c.Call(context.Background(), &out, "personal_sign", "0x68656c6c6f", "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)

	assert.Equal(t, "0xabc", out)
	assert.Equal(t, "personal_sign", gotMethod)
	assert.Len(t, gotParams, 2)
}

func TestRPCClient_Call_NoParamsSendsEmptyArray(t *testing.T) {
	var params any
	ts := newServer(t, func(req map[string]any) (int, string) {
		params = req["params"]
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":["0x1"]}`
	})

	var out []string
	require.NoError(t, NewRPCClient(ts.URL, nil).Call(context.Background(), &out, "eth_requestAccounts"))
	assert.Equal(t, []any{}, params)
	assert.Equal(t, []string{"0x1"}, out)
}

func TestRPCClient_Call_NullResult(t *testing.T) {
	ts := newServer(t, func(map[string]any) (int, string) {
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":null}`
	})

	out := map[string]string{"keep": "me"}
	require.NoError(t, NewRPCClient(ts.URL, nil).Call(context.Background(), &out, "eth_getTransactionReceipt", "0x1"))
	assert.Equal(t, "me", out["keep"])
}

func TestRPCClient_Call_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rpc error object",
			status: http.StatusOK,
			reply:  `{"jsonrpc":"2.0","id":1,"error":{"code":4001,"message":"User rejected"}}`,
			check: func(t *testing.T, err error) {
				var rpcErr *RPCError
				require.True(t, errors.As(err, &rpcErr))
				assert.Equal(t, 4001, rpcErr.Code)
				assert.Contains(t, err.Error(), "User rejected")
			},
		},
		{
			name:   "http status",
			status: http.StatusBadGateway,
			reply:  "upstream down",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrTransport)
				assert.Contains(t, err.Error(), "upstream down")
			},
		},
		{
			name:   "garbage body",
			status: http.StatusOK,
			reply:  "not json",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrTransport)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newServer(t, func(map[string]any) (int, string) { return tt.status, tt.reply })
			err := NewRPCClient(ts.URL, nil).Call(context.Background(), nil, "eth_chainId")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestRPCClient_Call_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := NewRPCClient(url, nil).Call(context.Background(), nil, "eth_chainId")
	assert.ErrorIs(t, err, ErrTransport)
}
