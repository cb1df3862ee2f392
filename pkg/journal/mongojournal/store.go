// Package mongojournal stores journal entries in a MongoDB collection.
package mongojournal

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
)

const DefaultCollection = "journal_entries"

// document is the stored form of an entry. Coin maps use string keys.
type document struct {
	ID            string         `bson:"_id"`
	TransactionID string         `bson:"transaction_id,omitempty"`
	Kind          string         `bson:"kind"`
	ProductID     int            `bson:"product_id,omitempty"`
	ProductName   string         `bson:"product_name,omitempty"`
	Price         int            `bson:"price,omitempty"`
	Paid          int            `bson:"paid,omitempty"`
	ChangeOwed    int            `bson:"change_owed,omitempty"`
	Change        map[string]int `bson:"change,omitempty"`
	Shortfall     int            `bson:"shortfall,omitempty"`
	Refund        map[string]int `bson:"refund,omitempty"`
	Supply        map[string]int `bson:"supply,omitempty"`
	Units         int            `bson:"units,omitempty"`
	Error         string         `bson:"error,omitempty"`
	CreatedAt     time.Time      `bson:"created_at"`
}

// Store is a journal.Journal backed by MongoDB.
type Store struct {
	coll *mongo.Collection
}

func New(db *mongo.Database, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{coll: db.Collection(collection)}
}

// EnsureIndexes creates the indexes used by List.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "transaction_id", Value: 1}}},
	})
	return err
}

func (s *Store) Record(ctx context.Context, e journal.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, toDocument(e)); err != nil {
		return errors.Join(journal.ErrStoreFailed, err)
	}
	return nil
}

func (s *Store) RecordBatch(ctx context.Context, entries []journal.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]any, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		docs = append(docs, toDocument(e))
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return errors.Join(journal.ErrStoreFailed, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, f journal.Filter) ([]journal.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := s.coll.Find(ctx, filterDocument(f), opts)
	if err != nil {
		return nil, errors.Join(journal.ErrListFailed, err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Join(journal.ErrListFailed, err)
	}

	out := make([]journal.Entry, 0, len(docs))
	for _, d := range docs {
		e, err := d.entry()
		if err != nil {
			return nil, errors.Join(journal.ErrListFailed, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func filterDocument(f journal.Filter) bson.D {
	q := bson.D{}
	if f.Kind != "" {
		q = append(q, bson.E{Key: "kind", Value: string(f.Kind)})
	}
	if f.TransactionID != "" {
		q = append(q, bson.E{Key: "transaction_id", Value: f.TransactionID})
	}
	if !f.Since.IsZero() {
		q = append(q, bson.E{Key: "created_at", Value: bson.D{{Key: "$gte", Value: f.Since}}})
	}
	return q
}

func toDocument(e journal.Entry) document {
	return document{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		Kind:          string(e.Kind),
		ProductID:     e.ProductID,
		ProductName:   e.ProductName,
		Price:         e.Price,
		Paid:          e.Paid,
		ChangeOwed:    e.ChangeOwed,
		Change:        encodeCoins(e.Change),
		Shortfall:     e.Shortfall,
		Refund:        encodeCoins(e.Refund),
		Supply:        encodeCoins(e.Supply),
		Units:         e.Units,
		Error:         e.Error,
		CreatedAt:     e.CreatedAt,
	}
}

func (d document) entry() (journal.Entry, error) {
	e := journal.Entry{
		ID:            d.ID,
		TransactionID: d.TransactionID,
		Kind:          journal.Kind(d.Kind),
		ProductID:     d.ProductID,
		ProductName:   d.ProductName,
		Price:         d.Price,
		Paid:          d.Paid,
		ChangeOwed:    d.ChangeOwed,
		Shortfall:     d.Shortfall,
		Units:         d.Units,
		Error:         d.Error,
		CreatedAt:     d.CreatedAt.UTC(),
	}
	var err error
	if e.Change, err = decodeCoins(d.Change); err != nil {
		return journal.Entry{}, err
	}
	if e.Refund, err = decodeCoins(d.Refund); err != nil {
		return journal.Entry{}, err
	}
	if e.Supply, err = decodeCoins(d.Supply); err != nil {
		return journal.Entry{}, err
	}
	return e, nil
}

func encodeCoins(c cash.Coins) map[string]int {
	if c.Count() == 0 {
		return nil
	}
	out := make(map[string]int, len(c))
	for d, n := range c {
		if n != 0 {
			out[strconv.Itoa(int(d))] = n
		}
	}
	return out
}

func decodeCoins(m map[string]int) (cash.Coins, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(cash.Coins, len(m))
	for k, n := range m {
		v, err := strconv.Atoi(k)
		if err != nil {
			return nil, err
		}
		d, err := cash.Parse(v)
		if err != nil {
			return nil, err
		}
		out[d] = n
	}
	return out, nil
}
