package tendem

import (
	"sync"

	"github.com/effective-security/tendem-mcp/client"
	"github.com/effective-security/tendem-mcp/config"
	"github.com/effective-security/xlog"
)

// ClientFactory creates the Tendem client on first use
type ClientFactory func() (client.Client, error)

// ClientProvider lazily creates one client shared by all tools.
// A failed creation is not remembered, the next call tries again.
type ClientProvider struct {
	factory ClientFactory

	lock   sync.Mutex
	client client.Client
}

// NewClientProvider returns a provider calling factory on first use
func NewClientProvider(factory ClientFactory) *ClientProvider {
	return &ClientProvider{factory: factory}
}

// NewStaticProvider returns a provider of an existing client
func NewStaticProvider(c client.Client) *ClientProvider {
	return &ClientProvider{client: c}
}

// Client returns the shared client, creating it if needed
func (p *ClientProvider) Client() (client.Client, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	c, err := p.factory()
	if err != nil {
		logger.KV(xlog.ERROR, "reason", "client", "err", err.Error())
		return nil, err
	}
	p.client = c
	logger.KV(xlog.INFO, "status", "client_created")
	return c, nil
}

// FromConfig returns a factory creating the HTTP client from the loaded configuration
func FromConfig(load func() (*config.Config, error), opts ...client.Option) ClientFactory {
	return func() (client.Client, error) {
		cfg, err := load()
		if err != nil {
			return nil, err
		}
		c, err := cfg.NewClient(opts...)
		if err != nil {
			return nil, err
		}
		if cfg.Debug {
			logger.KV(xlog.DEBUG, "base_url", c.BaseURL())
		}
		return c, nil
	}
}
