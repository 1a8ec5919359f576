// Package cli implements the tendem-mcp command line.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/effective-security/tendem-mcp/callbacks"
	"github.com/effective-security/tendem-mcp/client"
	"github.com/effective-security/tendem-mcp/config"
	"github.com/effective-security/tendem-mcp/tools"
	"github.com/effective-security/tendem-mcp/tools/tendem"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/tendem-mcp", "cli")

// globalFlags are the persistent flags of the root command
type globalFlags struct {
	configFile string
	debug      bool
	baseURL    string
}

// load returns the configuration with the flag overrides
func (g *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return nil, err
	}
	if g.baseURL != "" {
		cfg.BaseURL = g.baseURL
	}
	if g.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// toolset returns the tools using a lazily created client,
// so commands which never reach Tendem do not need an API key.
func (g *globalFlags) toolset(cbs ...tools.Callback) (*tendem.Toolset, error) {
	fanout := callbacks.NewFanout(callbacks.NewPackageLogger(logger))
	for _, cb := range cbs {
		fanout.Add(cb)
	}
	provider := tendem.NewClientProvider(tendem.FromConfig(g.load))
	return tendem.New(provider, tendem.WithCallback(fanout))
}

// NewRootCmd returns the tendem-mcp command tree.
// Without a subcommand it serves MCP over stdio.
func NewRootCmd(version string) *cobra.Command {
	g := new(globalFlags)
	client.Version = version

	root := &cobra.Command{
		Use:   "tendem-mcp",
		Short: "MCP server for Tendem human expert tasks",
		Long: "tendem-mcp exposes the Tendem task lifecycle as MCP tools.\n\n" +
			"The API key is read from TENDEM_API_KEY, the API URL from TENDEM_API_URL.",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), g.debug)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g, new(serveFlags))
		},
	}
	root.SetVersionTemplate("tendem-mcp version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&g.configFile, "config", "c", "", "Path to YAML or JSON configuration file")
	flags.BoolVar(&g.debug, "debug", config.IsTrue(os.Getenv(config.EnvDebug)), "Enable debug logging, including request bodies")
	flags.StringVar(&g.baseURL, "base-url", "", "Tendem API URL, overrides TENDEM_API_URL")

	root.AddCommand(
		newServeCmd(g),
		newToolsCmd(g),
		newCallCmd(g),
		newWaitCmd(g),
	)
	return root
}

// setupLogging writes logs to w, stdout is reserved for MCP traffic
func setupLogging(w io.Writer, debug bool) {
	xlog.SetFormatter(xlog.NewStringFormatter(w))
	if debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		xlog.SetGlobalLogLevel(xlog.INFO)
	}
}

// pollBackOff returns the polling schedule of the wait command
func pollBackOff(interval, timeout time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(interval),
		backoff.WithMaxInterval(max(interval, time.Minute)),
		backoff.WithMaxElapsedTime(timeout),
	)
	return b
}
