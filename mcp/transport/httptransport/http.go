// Package httptransport serves MCP as stateless JSON-RPC over HTTP POST.
package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/mcp/transport/localtransport"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/tendem-mcp/mcp/transport", "httptransport")

// DefaultEndpoint is the path of the MCP endpoint
const DefaultEndpoint = "/mcp"

// maxBodySize limits the size of a JSON-RPC request
const maxBodySize = 1 << 20

// HTTPTransport is an MCP server transport where each POST carries one
// JSON-RPC message, and the response is written in the same exchange.
type HTTPTransport struct {
	*localtransport.Transport

	endpoint string
	addr     string
	mux      *http.ServeMux
}

// NewHTTPTransport returns a transport serving endpoint
func NewHTTPTransport(endpoint string) *HTTPTransport {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	t := &HTTPTransport{
		Transport: localtransport.New(),
		endpoint:  endpoint,
		addr:      ":8080",
		mux:       http.NewServeMux(),
	}
	t.mux.HandleFunc(endpoint, t.handleRequest)
	return t
}

// WithAddr sets the address to listen on
func (t *HTTPTransport) WithAddr(addr string) *HTTPTransport {
	t.addr = addr
	return t
}

// Endpoint returns the path of the MCP endpoint
func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

// ServeHTTP implements http.Handler
func (t *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.mux.ServeHTTP(w, r)
}

// ListenAndServe serves HTTP on the configured address until ctx is done
func (t *HTTPTransport) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              t.addr,
		Handler:           t,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.KV(xlog.INFO, "status", "listening", "addr", t.addr, "endpoint", t.endpoint)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrapf(err, "failed to listen on %s", t.addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shutdown HTTP server")
	}
	return t.Close()
}

func (t *HTTPTransport) handleRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Only POST method is supported", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > maxBodySize {
		http.Error(w, "request body is too large", http.StatusRequestEntityTooLarge)
		return
	}

	response, err := t.HandleMessage(ctx, body)
	if err != nil {
		logger.ContextKV(ctx, xlog.DEBUG, "reason", "handle", "err", err.Error())
		if ctx.Err() != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if response == nil {
		// notification
		w.WriteHeader(http.StatusAccepted)
		return
	}

	js, err := json.Marshal(response)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR, "reason", "marshal", "err", err.Error())
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(js)
}
