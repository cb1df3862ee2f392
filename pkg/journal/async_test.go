package journal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vendingkit/pkg/journal"
)

type MockBatchRecorder struct {
	mock.Mock
}

func (m *MockBatchRecorder) Record(ctx context.Context, e journal.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockBatchRecorder) RecordBatch(ctx context.Context, entries []journal.Entry) error {
	return m.Called(ctx, entries).Error(0)
}

func TestAsyncFlushesOnClose(t *testing.T) {
	t.Parallel()

	mem := journal.NewMemory()
	a := journal.NewAsync(mem, journal.AsyncOptions{FlushEvery: time.Hour, BatchSize: 100})

	for range 10 {
		require.NoError(t, a.Record(context.Background(), journal.NewEntry(journal.KindSale)))
	}
	require.NoError(t, a.Close(context.Background()))
	assert.Equal(t, 10, mem.Len())

	err := a.Record(context.Background(), journal.NewEntry(journal.KindSale))
	require.ErrorIs(t, err, journal.ErrClosed)
	require.NoError(t, a.Close(context.Background()), "close is idempotent")

	entries, err := a.List(context.Background(), journal.Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestAsyncFlushesOnBatchSize(t *testing.T) {
	t.Parallel()

	rec := &MockBatchRecorder{}
	flushed := make(chan int, 4)
	rec.On("RecordBatch", mock.Anything, mock.MatchedBy(func(entries []journal.Entry) bool {
		return len(entries) == 3
	})).Run(func(args mock.Arguments) {
		flushed <- len(args.Get(1).([]journal.Entry))
	}).Return(nil)

	a := journal.NewAsync(rec, journal.AsyncOptions{BatchSize: 3, FlushEvery: time.Hour})
	defer func() { _ = a.Close(context.Background()) }()

	for range 3 {
		require.NoError(t, a.Record(context.Background(), journal.NewEntry(journal.KindCancel)))
	}
	select {
	case n := <-flushed:
		assert.Equal(t, 3, n)
	case <-time.After(2 * time.Second):
		require.Fail(t, "batch was not flushed")
	}
}

func TestAsyncFlushesOnTimer(t *testing.T) {
	t.Parallel()

	mem := journal.NewMemory()
	a := journal.NewAsync(mem, journal.AsyncOptions{FlushEvery: 10 * time.Millisecond})
	defer func() { _ = a.Close(context.Background()) }()

	require.NoError(t, a.Record(context.Background(), journal.NewEntry(journal.KindReload)))
	assert.Eventually(t, func() bool { return mem.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestAsyncFlushErrorIsNotReturned(t *testing.T) {
	t.Parallel()

	rec := &MockBatchRecorder{}
	rec.On("RecordBatch", mock.Anything, mock.Anything).Return(errors.New("store down"))

	a := journal.NewAsync(rec, journal.AsyncOptions{FlushEvery: time.Hour})
	require.NoError(t, a.Record(context.Background(), journal.NewEntry(journal.KindSale)))
	require.NoError(t, a.Close(context.Background()))
	rec.AssertNumberOfCalls(t, "RecordBatch", 1)
}

func TestAsyncRejectsInvalidEntry(t *testing.T) {
	t.Parallel()

	a := journal.NewAsync(journal.NewMemory(), journal.AsyncOptions{})
	defer func() { _ = a.Close(context.Background()) }()
	require.ErrorIs(t, a.Record(context.Background(), journal.Entry{}), journal.ErrInvalidEntry)
}

func TestAsyncListRequiresReader(t *testing.T) {
	t.Parallel()

	a := journal.NewAsync(&MockBatchRecorder{}, journal.AsyncOptions{})
	defer func() { _ = a.Close(context.Background()) }()
	_, err := a.List(context.Background(), journal.Filter{})
	require.ErrorIs(t, err, journal.ErrListFailed)
}

func TestNewAsyncPanicsOnNil(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { journal.NewAsync(nil, journal.AsyncOptions{}) })
}
