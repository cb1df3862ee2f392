package mongo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vendingkit/pkg/mongo"
)

func TestConnectRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := mongo.Connect(context.Background(), mongo.Config{})
	require.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}

func TestConnectInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := mongo.Connect(context.Background(), mongo.Config{ConnectionURL: "not-a-mongo-url"})
	require.ErrorIs(t, err, mongo.ErrConnectFailed)
}
