// Package client is the Go SDK for the trac8 asset-tracking API.
//
// Every resource is reached through an adapter with the same All, Get and
// Count contract. Most resources are sorted, filtered and paged by the
// server; readers are fetched whole and queried locally, which callers do
// not need to care about.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mazi76erX2/trac8-frontend/client/internal/api"
	"github.com/mazi76erX2/trac8-frontend/client/internal/shardqueue"
	"github.com/mazi76erX2/trac8-frontend/client/internal/types"
)

const (
	defaultHTTPTimeout      = 30 * time.Second
	defaultProbeConcurrency = 4
)

// Client holds the adapters for every resource. It is safe for concurrent
// use; Close stops the reader command queue.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	exec    executor

	queueCfg         *shardqueue.Config
	probeConcurrency int

	readers       *api.ReaderAdapter
	items         *api.ItemAdapter
	stockTakes    *api.RecursiveAdapter
	transitRoutes *api.RecursiveAdapter
	userProfiles  *api.UserProfileAdapter
	readEvents    *api.ReadEventAdapter
	dashboards    *api.DashboardAdapter
	crud          map[string]*api.CrudAdapter

	closed atomic.Bool
}

// New returns a Client for the API at baseURL. token is sent as a bearer
// token on every request; it may be empty for unauthenticated servers.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("client: empty base URL")
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:          baseURL,
		token:            token,
		http:             &http.Client{Timeout: defaultHTTPTimeout},
		probeConcurrency: defaultProbeConcurrency,
	}
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.wrapTransport()

	conn := api.NewConn(c.http, c.baseURL)
	var err error
	if c.stockTakes, err = api.NewRecursiveAdapter(conn, api.ResourceStockTake); err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	if c.transitRoutes, err = api.NewRecursiveAdapter(conn, api.ResourceTransitRoute); err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	if c.exec == nil {
		cfg := shardqueue.Config{}
		if c.queueCfg != nil {
			cfg = *c.queueCfg
		} else if envCfg, err := shardqueue.LoadConfig(); err == nil {
			cfg = envCfg
		} else {
			log.Warn().Err(err).Msg("invalid command queue environment, using defaults")
		}
		userHandler := cfg.ErrorHandler
		cfg.ErrorHandler = func(key string, err error) {
			readerCommandsFailedTotal.Inc()
			if userHandler != nil {
				userHandler(key, err)
			}
		}
		c.exec = shardqueue.New(cfg)
	}

	c.readers = api.NewReaderAdapter(conn, c.exec, c.probeConcurrency)
	c.items = api.NewItemAdapter(conn, c.http)
	c.userProfiles = api.NewUserProfileAdapter(conn)
	c.readEvents = api.NewReadEventAdapter(conn)
	c.dashboards = api.NewDashboardAdapter(conn)

	c.crud = make(map[string]*api.CrudAdapter)
	for _, name := range api.ResourceNames() {
		if base, err := api.BasePath(name); err == nil {
			c.crud[name] = api.NewCrudAdapter(conn, name, base)
		}
	}
	c.crud[api.ResourceItem] = c.items.CrudAdapter
	c.crud[api.ResourceStockTake] = c.stockTakes.CrudAdapter
	c.crud[api.ResourceTransitRoute] = c.transitRoutes.CrudAdapter
	c.crud[api.ResourceUserProfile] = c.userProfiles.CrudAdapter
	c.crud[api.ResourceReadEvent] = c.readEvents.CrudAdapter

	return c, nil
}

// wrapTransport installs request ids and the bearer token above whatever
// the options configured.
func (c *Client) wrapTransport() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &authTransport{
		base:  &requestIDTransport{base: base},
		token: c.token,
	}
}

// authTransport adds the bearer token unless the request already carries
// an Authorization header (password reset sends its own).
type authTransport struct {
	base  http.RoundTripper
	token string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" || req.Header.Get("Authorization") != "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(cloned)
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Resource returns the list adapter for name, reader included.
func (c *Client) Resource(name string) (Lister, error) {
	if name == api.ResourceReader {
		return c.readers, nil
	}
	return c.Crud(name)
}

// Crud returns the server-delegating adapter for name.
func (c *Client) Crud(name string) (*CrudAdapter, error) {
	a, ok := c.crud[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return a, nil
}

// ResourceNames lists every resource Resource accepts.
func ResourceNames() []string { return api.ResourceNames() }

func (c *Client) Readers() *ReaderAdapter           { return c.readers }
func (c *Client) Items() *ItemAdapter               { return c.items }
func (c *Client) StockTakes() *RecursiveAdapter     { return c.stockTakes }
func (c *Client) TransitRoutes() *RecursiveAdapter  { return c.transitRoutes }
func (c *Client) UserProfiles() *UserProfileAdapter { return c.userProfiles }
func (c *Client) ReadEvents() *ReadEventAdapter     { return c.readEvents }
func (c *Client) Dashboards() *DashboardAdapter     { return c.dashboards }

// SubmitReaderCommand queues cmd for reader id and returns once it is
// accepted. Commands for one reader run in order; use AwaitReader to wait
// for them.
func (c *Client) SubmitReaderCommand(ctx context.Context, readerID string, cmd ReaderCommand) (*EnqueueAck, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	ack, err := c.readers.SubmitCommand(ctx, readerID, cmd)
	if err != nil {
		if errors.Is(err, shardqueue.ErrQueueFull) {
			return nil, fmt.Errorf("%w: %v", ErrBackPressure, err)
		}
		return nil, err
	}
	readerCommandsEnqueuedTotal.WithLabelValues(string(cmd)).Inc()
	return ack, nil
}

// AwaitReader blocks until every command submitted for readerID before the
// call has finished.
func (c *Client) AwaitReader(ctx context.Context, readerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.exec.Barrier(ctx, readerID)
}

// Close stops the command queue after draining it. Safe to call more than
// once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c.exec != nil {
		c.exec.Stop()
	}
	return nil
}

// ParseReaderCommand validates a command name such as "connect".
func ParseReaderCommand(s string) (ReaderCommand, error) { return types.ParseReaderCommand(s) }
