// Package redis provides a member store backed by redis.
package redis

import (
	"context"

	"emperror.dev/errors"
	"github.com/mediocregopher/radix/v4"
	"github.com/starshine-sys/snitch/store"
)

var _ store.MemberStore = (*Store)(nil)

type Store struct {
	client radix.Client
}

func New(ctx context.Context, url string) (*Store, error) {
	client, err := (&radix.PoolConfig{}).New(ctx, "tcp", url)
	if err != nil {
		return nil, errors.Wrap(err, "creating radix client")
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
