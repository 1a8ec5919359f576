package cli

import (
	"context"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/mcp/transport/httptransport"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	httpAddr string
	endpoint string
}

func newServeCmd(g *globalFlags) *cobra.Command {
	f := new(serveFlags)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Tendem tools over MCP",
		Long:  "Serve the Tendem tools over MCP stdio, or over HTTP POST when --http is set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g, f)
		},
	}
	cmd.Flags().StringVar(&f.httpAddr, "http", "", "Listen address of the HTTP transport, e.g. :8080")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", httptransport.DefaultEndpoint, "Path of the HTTP endpoint")
	return cmd
}

func runServe(cmd *cobra.Command, g *globalFlags, f *serveFlags) error {
	ts, err := g.toolset()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var (
		tr     transport.Transport
		httpTr *httptransport.HTTPTransport
	)
	if f.httpAddr != "" {
		httpTr = httptransport.NewHTTPTransport(f.endpoint).WithAddr(f.httpAddr)
		tr = httpTr
	} else {
		in := &closeNotifyReader{r: cmd.InOrStdin(), onClose: cancel}
		tr = stdio.NewStdioServerTransportWithIO(in, cmd.OutOrStdout())
	}

	server := mcp.NewServer(tr)
	if err = ts.Register(server); err != nil {
		return err
	}
	if err = server.Serve(); err != nil {
		return errors.Wrap(err, "failed to start MCP server")
	}
	logger.KV(xlog.INFO, "status", "serving", "http", f.httpAddr, "tools", len(ts.Tools()))

	if httpTr != nil {
		return httpTr.ListenAndServe(ctx)
	}
	<-ctx.Done()
	logger.KV(xlog.INFO, "status", "stopped")
	return nil
}

// closeNotifyReader calls onClose once the host closes the input
type closeNotifyReader struct {
	r       io.Reader
	onClose func()
	once    sync.Once
}

func (c *closeNotifyReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			logger.KV(xlog.ERROR, "reason", "stdin", "err", err.Error())
		}
		c.once.Do(c.onClose)
	}
	return n, err
}
