package transport

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/apikit/logger"
)

// DefaultTimeout bounds a whole request/response cycle on pooled clients.
const DefaultTimeout = 5 * time.Minute

// ErrPoolClosed is returned when a closed pool is used.
var ErrPoolClosed = errors.New("transport: pool is closed")

// Pool lazily constructs and reuses one *http.Client per base URL.
type Pool struct {
	timeout time.Duration
	tls     *TLSConfig
	log     *logger.Logger

	mu      sync.Mutex
	clients map[string]*http.Client
	closed  bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithTimeout overrides the default 5-minute request timeout.
func WithTimeout(d time.Duration) PoolOption {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithTLS applies TLS settings to every transport the pool constructs.
func WithTLS(cfg *TLSConfig) PoolOption {
	return func(p *Pool) { p.tls = cfg }
}

// WithLogger sets the pool logger.
func WithLogger(log *logger.Logger) PoolOption {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPool creates an empty transport pool.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		timeout: DefaultTimeout,
		log:     logger.Nop(),
		clients: make(map[string]*http.Client),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithComponent("transport")
	return p
}

// Client returns the client for baseURL, constructing it on first use.
func (p *Pool) Client(baseURL string) (*http.Client, error) {
	key := normalize(baseURL)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}
	if c, ok := p.clients[key]; ok {
		return c, nil
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if p.tls != nil {
		tlsCfg, err := p.tls.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
	}

	c := &http.Client{Transport: transport, Timeout: p.timeout}
	p.clients[key] = c
	p.log.Debug("transport created", logger.Fields(
		logger.FieldBaseURL, key,
		"timeout", p.timeout.String(),
	))
	return c, nil
}

// Do executes req through the transport owned for baseURL. The request
// context governs cancellation; the pool adds only the per-client timeout.
func (p *Pool) Do(baseURL string, req *http.Request) (*http.Response, error) {
	c, err := p.Client(baseURL)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Len returns the number of constructed transports.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// Close releases idle connections for every owned transport and marks the
// pool unusable. Close is idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	for _, c := range p.clients {
		c.CloseIdleConnections()
	}
	p.clients = nil
	return nil
}

// normalize makes base URL keys case-insensitive and slash-insensitive.
func normalize(baseURL string) string {
	return strings.ToLower(strings.TrimRight(baseURL, "/"))
}
