package bc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/bcapi/internal/constants"
)

// NATSKVConfig configures a NATS JetStream key/value cache.
type NATSKVConfig struct {
	// URL of the NATS server, e.g. "nats://127.0.0.1:4222". Ignored when Conn is set.
	URL string
	// Conn reuses an existing connection; the cache does not close it.
	Conn *nats.Conn
	// Bucket name; created when missing.
	Bucket string
	// TTL applied by the bucket to every key. Zero keeps keys until deleted.
	TTL time.Duration
	// Options are passed to nats.Connect.
	Options []nats.Option
}

// NATSKVCache stores entries in a JetStream key/value bucket, letting several
// processes share them.
type NATSKVCache struct {
	conn    *nats.Conn
	ownConn bool
	kv      nats.KeyValue
}

var invalidKVKeyChars = regexp.MustCompile(`[^-/_=.a-zA-Z0-9]`)

// NewNATSKVCache connects to NATS and binds (or creates) the bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = constants.DefaultNATSBucket
	}

	conn := config.Conn
	ownConn := false

	if conn == nil {
		var err error

		conn, err = nats.Connect(config.URL, config.Options...)
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}

		ownConn = true
	}

	js, err := conn.JetStream()
	if err != nil {
		closeIfOwned(conn, ownConn)

		return nil, fmt.Errorf("opening JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket: bucket,
			TTL:    config.TTL,
		})
	}

	if err != nil {
		closeIfOwned(conn, ownConn)

		return nil, fmt.Errorf("binding key/value bucket %s: %w", bucket, err)
	}

	return &NATSKVCache{conn: conn, ownConn: ownConn, kv: kv}, nil
}

func closeIfOwned(conn *nats.Conn, owned bool) {
	if owned {
		conn.Close()
	}
}

// Get returns the entry for key, or an error when it is missing or expired.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(kvKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("reading key %s: %w", key, err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kvEntry.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("parsing cache entry %s: %w", key, err)
	}

	if entry.Expired(time.Now()) {
		return nil, ErrEntryExpired
	}

	return &entry, nil
}

// Set stores entry under key.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}

	_, err = c.kv.Put(kvKey(key), data)
	if err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}

	return nil
}

// Delete removes key.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Delete(kvKey(key))
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}

	return nil
}

// Clear removes every key of the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("listing keys: %w", err)
	}

	for _, key := range keys {
		err = c.kv.Delete(key)
		if err != nil {
			return fmt.Errorf("deleting key %s: %w", key, err)
		}
	}

	return nil
}

// Has reports whether key holds an unexpired entry.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close closes the connection if the cache opened it.
func (c *NATSKVCache) Close() error {
	closeIfOwned(c.conn, c.ownConn)

	return nil
}

// kvKey maps an arbitrary key onto the NATS key alphabet.
func kvKey(key string) string {
	return invalidKVKeyChars.ReplaceAllString(key, "_")
}
