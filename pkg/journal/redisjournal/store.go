// Package redisjournal stores journal entries in a Redis stream.
//
// Every entry is appended with XADD under the configured stream key and a
// per-kind counter hash is incremented in the same pipeline. List reads the
// stream with XRANGE, starting at the Since bound when one is given.
package redisjournal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/vendingkit/pkg/journal"
)

const (
	fieldEntry = "entry"
	fieldKind  = "kind"
)

// Option configures a Store.
type Option func(*Store)

// WithKeyPrefix sets the prefix of the stream and counter keys.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.stream = prefix + ":journal"
			s.counters = prefix + ":journal:counts"
		}
	}
}

// WithMaxLen caps the stream length. Trimming is approximate.
func WithMaxLen(n int64) Option {
	return func(s *Store) { s.maxLen = n }
}

// Store is a journal.Journal backed by Redis.
type Store struct {
	client   redis.UniversalClient
	stream   string
	counters string
	maxLen   int64
}

func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client:   client,
		stream:   "vending:journal",
		counters: "vending:journal:counts",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Record(ctx context.Context, e journal.Entry) error {
	return s.RecordBatch(ctx, []journal.Entry{e})
}

func (s *Store) RecordBatch(ctx context.Context, entries []journal.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	args := make([]*redis.XAddArgs, 0, len(entries))
	for _, e := range entries {
		a, err := s.addArgs(e)
		if err != nil {
			return err
		}
		args = append(args, a)
	}

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for i, a := range args {
			p.XAdd(ctx, a)
			p.HIncrBy(ctx, s.counters, string(entries[i].Kind), 1)
		}
		return nil
	})
	if err != nil {
		return errors.Join(journal.ErrStoreFailed, err)
	}
	return nil
}

func (s *Store) addArgs(e journal.Entry) (*redis.XAddArgs, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Join(journal.ErrInvalidEntry, err)
	}
	a := &redis.XAddArgs{
		Stream: s.stream,
		ID:     "*",
		Values: map[string]any{fieldEntry: payload, fieldKind: string(e.Kind)},
	}
	if s.maxLen > 0 {
		a.MaxLen = s.maxLen
		a.Approx = true
	}
	return a, nil
}

func (s *Store) List(ctx context.Context, f journal.Filter) ([]journal.Entry, error) {
	start := "-"
	if !f.Since.IsZero() {
		start = strconv.FormatInt(f.Since.UnixMilli(), 10) + "-0"
	}

	msgs, err := s.client.XRange(ctx, s.stream, start, "+").Result()
	if err != nil {
		return nil, errors.Join(journal.ErrListFailed, err)
	}
	return decode(msgs, f)
}

// Counts returns the number of entries recorded per kind.
func (s *Store) Counts(ctx context.Context) (map[journal.Kind]int64, error) {
	raw, err := s.client.HGetAll(ctx, s.counters).Result()
	if err != nil {
		return nil, errors.Join(journal.ErrListFailed, err)
	}
	out := make(map[journal.Kind]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Join(journal.ErrListFailed, fmt.Errorf("counter %s: %w", k, err))
		}
		out[journal.Kind(k)] = n
	}
	return out, nil
}

func decode(msgs []redis.XMessage, f journal.Filter) ([]journal.Entry, error) {
	out := make([]journal.Entry, 0, len(msgs))
	for _, m := range msgs {
		raw, ok := m.Values[fieldEntry].(string)
		if !ok {
			return nil, errors.Join(journal.ErrListFailed, fmt.Errorf("message %s has no entry field", m.ID))
		}
		var e journal.Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, errors.Join(journal.ErrListFailed, fmt.Errorf("message %s: %w", m.ID, err))
		}
		if !f.Match(e) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
