package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
)

// KeyValueStore is the slice of a key-value bucket the NATS persister needs.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ErrKeyNotFound is returned by a KeyValueStore for an absent key.
var ErrKeyNotFound = errors.New("key not found")

// NATSPersister keeps the token in a JetStream key-value bucket so that
// several processes can share one client-credentials token.
type NATSPersister struct {
	store KeyValueStore
	key   string
}

// NewNATSPersister creates a persister storing under key.
func NewNATSPersister(store KeyValueStore, key string) *NATSPersister {
	if key == "" {
		key = constants.DefaultTokenKey
	}

	return &NATSPersister{store: store, key: key}
}

// ConnectNATSPersister dials url, creates or binds bucket and returns a
// persister plus a function closing the connection.
func ConnectNATSPersister(ctx context.Context, url, bucket, key string) (*NATSPersister, func(), error) {
	if bucket == "" {
		bucket = constants.DefaultTokenBucket
	}

	conn, err := nats.Connect(url, nats.Name("spotify-client"))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()

		return nil, nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Spotify access tokens",
		History:     1,
	})
	if err != nil {
		conn.Close()

		return nil, nil, fmt.Errorf("binding key-value bucket %s: %w", bucket, err)
	}

	return NewNATSPersister(&jetStreamStore{kv: kv}, key), conn.Close, nil
}

// Load reads the shared token. An absent key is not an error.
func (p *NATSPersister) Load(ctx context.Context) (*Token, error) {
	data, err := p.store.Get(ctx, p.key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading token from bucket: %w", err)
	}

	var token Token

	err = json.Unmarshal(data, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing stored token: %w", err)
	}

	return &token, nil
}

// Save publishes token to the bucket.
func (p *NATSPersister) Save(ctx context.Context, token *Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	err = p.store.Put(ctx, p.key, data)
	if err != nil {
		return fmt.Errorf("writing token to bucket: %w", err)
	}

	return nil
}

type jetStreamStore struct {
	kv jetstream.KeyValue
}

func (s *jetStreamStore) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, err
	}

	return entry.Value(), nil
}

func (s *jetStreamStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.kv.Put(ctx, key, value)

	return err
}
