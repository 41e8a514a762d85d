package client

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/spaceandtimelabs/ignite-go/protocol"
	"github.com/spaceandtimelabs/ignite-go/protocol/object"
	"github.com/spaceandtimelabs/ignite-go/transport"
)

// ----------------------------------------------------------------------------
// Client
// ----------------------------------------------------------------------------

// Client is a handshaked connection to one cluster node. All cache
// handles created from it share the connection; round trips are
// serialized internally, so a Client is safe for concurrent use.
type Client struct {
	conn    Conn
	session *Connection
	cfg     *ClientConfig
	configs *xsync.MapOf[string, *CacheConfiguration]
}

// Connect dials the configured node, tunes the socket and performs the
// handshake. On handshake rejection the connection is closed and the
// server's reason is returned.
func Connect(cfg *ClientConfig) (*Client, error) {
	if cfg.LogLevel != "" {
		if err := InitLoggers(cfg.LogLevel); err != nil {
			return nil, err
		}
	}

	connector := cfg.connector()
	log.Infof("connecting to %s via %s", cfg.Addr, connector.GetName())

	conn, err := connector.Connect(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Addr, err)
	}
	if err := connector.UpgradeConnection(conn, cfg.Transport); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tune connection to %s: %w", cfg.Addr, err)
	}
	conn = transport.WithDeadlines(conn, cfg.Transport.Timeout)

	session := newConnection(conn, cfg)
	if err := performHandshake(session.rw, cfg.Username, cfg.Password); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Infof("connected to %s", cfg.Addr)

	return &Client{
		conn:    session,
		session: session,
		cfg:     cfg,
		configs: xsync.NewMapOf[string, *CacheConfiguration](),
	}, nil
}

// Close terminates the connection. The client and all cache handles
// derived from it become unusable.
func (c *Client) Close() error {
	return c.conn.Close()
}

// WithBreaker routes all subsequent requests through a circuit breaker.
// Open-state requests fail immediately without touching the connection.
func (c *Client) WithBreaker(cfg BreakerConfig) *Client {
	c.conn = NewBreakerConn(c.conn, cfg)
	return c
}

// ----------------------------------------------------------------------------
// Cache administration
// ----------------------------------------------------------------------------

// CacheNames returns the names of all caches known to the node.
func (c *Client) CacheNames() ([]string, error) {
	var names []string
	err := c.conn.SendAndRead(protocol.OpCacheGetNames, emptyReq{}, readNamesResp(&names))
	return names, err
}

// CacheConfiguration fetches the configuration of an existing cache.
// Results are memoized per cache name.
func (c *Client) CacheConfiguration(name string) (*CacheConfiguration, error) {
	if cfg, ok := c.configs.Load(name); ok {
		return cfg, nil
	}
	var cfg *CacheConfiguration
	err := c.conn.SendAndRead(protocol.OpCacheGetConfiguration,
		cacheGetConfigReq{cacheID: HashCode(name)}, readConfigResp(&cfg))
	if err != nil {
		return nil, err
	}
	c.configs.Store(name, cfg)
	return cfg, nil
}

// DestroyCache removes the cache and all its data from the cluster.
func (c *Client) DestroyCache(name string) error {
	c.configs.Delete(name)
	return c.conn.Send(protocol.OpCacheDestroy, cacheIDReq{cacheID: HashCode(name)})
}

// GetCache returns a handle for an existing cache. No round trip is
// performed; using the handle on a cache that does not exist fails with
// a server error.
func GetCache[K, V object.Value](c *Client, name string) *Cache[K, V] {
	return newCache[K, V](c, name)
}

// CreateCache creates a cache with default configuration and returns a
// handle for it. Fails if the cache already exists.
func CreateCache[K, V object.Value](c *Client, name string) (*Cache[K, V], error) {
	if err := c.conn.Send(protocol.OpCacheCreateWithName, cacheNameReq{name: name}); err != nil {
		return nil, err
	}
	return newCache[K, V](c, name), nil
}

// GetOrCreateCache creates the cache if it does not exist and returns a
// handle for it.
func GetOrCreateCache[K, V object.Value](c *Client, name string) (*Cache[K, V], error) {
	if err := c.conn.Send(protocol.OpCacheGetOrCreateWithName, cacheNameReq{name: name}); err != nil {
		return nil, err
	}
	return newCache[K, V](c, name), nil
}

// CreateCacheWithConfiguration creates a cache from an explicit
// configuration. When the configuration carries query entities, the
// handle's record schemas are derived from the first entity.
func CreateCacheWithConfiguration[K, V object.Value](c *Client, cfg *CacheConfiguration) (*Cache[K, V], error) {
	return createConfigured[K, V](c, cfg, protocol.OpCacheCreateWithConfig)
}

// GetOrCreateCacheWithConfiguration is CreateCacheWithConfiguration for
// caches that may already exist.
func GetOrCreateCacheWithConfiguration[K, V object.Value](c *Client, cfg *CacheConfiguration) (*Cache[K, V], error) {
	return createConfigured[K, V](c, cfg, protocol.OpCacheGetOrCreateWithCfg)
}

func createConfigured[K, V object.Value](c *Client, cfg *CacheConfiguration, op protocol.OpCode) (*Cache[K, V], error) {
	blob, err := encodeCacheConfiguration(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode configuration for %q: %w", cfg.Name, err)
	}
	if err := c.conn.Send(op, cacheConfigReq{blob: blob}); err != nil {
		return nil, err
	}
	c.configs.Store(cfg.Name, cfg)

	cache := newCache[K, V](c, cfg.Name)
	if len(cfg.QueryEntities) > 0 {
		keySchema, valueSchema, err := cfg.QueryEntities[0].Schemas()
		if err != nil {
			return nil, fmt.Errorf("derive schemas for %q: %w", cfg.Name, err)
		}
		cache = cache.WithSchemas(keySchema, valueSchema)
	}
	return cache, nil
}

// ----------------------------------------------------------------------------
// Transactions
// ----------------------------------------------------------------------------

// Transaction is an open server-side transaction. All operations issued
// on the client between StartTransaction and Commit/Rollback run inside
// it.
type Transaction struct {
	client *Client
	id     int32
	done   bool
}

// StartTransaction opens a transaction on the node.
func (c *Client) StartTransaction() (*Transaction, error) {
	var id int32
	err := c.conn.SendAndRead(protocol.OpTxStart, txStartReq{}, readIntResp(&id))
	if err != nil {
		return nil, err
	}
	return &Transaction{client: c, id: id}, nil
}

// Commit makes the transaction's changes visible.
func (t *Transaction) Commit() error { return t.end(true) }

// Rollback discards the transaction's changes.
func (t *Transaction) Rollback() error { return t.end(false) }

func (t *Transaction) end(commit bool) error {
	if t.done {
		return fmt.Errorf("transaction %d already completed", t.id)
	}
	t.done = true
	return t.client.conn.Send(protocol.OpTxEnd, txEndReq{txID: t.id, commit: commit})
}
