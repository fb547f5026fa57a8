package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"finlogix/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Deliver(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestEvent_JSON(t *testing.T) {
	rec := models.TransactionRecord{
		ID:        3,
		Amount:    decimal.NewFromInt(500),
		Type:      models.TransactionExpense,
		Category:  &models.CategoryRef{ID: 2, Name: "Food"},
		Timestamp: "2024-01-15T12:30:00Z",
	}

	b, err := Added(7, rec).ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"added","user_id":7,"transaction":{"id":3,"amount":500,"type":"expense","category":{"id":2,"name":"Food"},"note":null,"timestamp":"2024-01-15T12:30:00Z"}}`, string(b))

	b, err = Deleted(7, 3).ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"deleted","user_id":7,"transaction":{"id":3}}`, string(b))

	assert.Equal(t, EventEdited, Edited(7, rec).Event)
}

func TestHub_BroadcastsToAllListeners(t *testing.T) {
	hub := NewHub(4)
	a := hub.Subscribe()
	b := hub.Subscribe()
	assert.Equal(t, 2, hub.Len())

	// 用户 7 的事件同样会推给其他用户的连接
	require.NoError(t, hub.Deliver(context.Background(), Deleted(7, 1)))

	evA := <-a.C
	evB := <-b.C
	assert.Equal(t, uint(7), evA.UserID)
	assert.Equal(t, uint(7), evB.UserID)

	hub.Unsubscribe(a)
	hub.Unsubscribe(a)
	assert.Equal(t, 1, hub.Len())
	_, open := <-a.C
	assert.False(t, open)
}

func TestHub_SlowListenerDrops(t *testing.T) {
	hub := NewHub(1)
	l := hub.Subscribe()
	ctx := context.Background()

	require.NoError(t, hub.Deliver(ctx, Deleted(1, 1)))
	require.NoError(t, hub.Deliver(ctx, Deleted(1, 2)))

	assert.Equal(t, int64(1), l.Dropped())
	ev := <-l.C
	assert.Equal(t, DeletedRef{ID: 1}, ev.Transaction)
}

func TestHub_NoListeners(t *testing.T) {
	hub := NewHub(0)
	assert.NoError(t, hub.Deliver(context.Background(), Deleted(1, 1)))
}

func TestDispatcher_DeliversToEverySink(t *testing.T) {
	failing := &recordingSink{err: errors.New("broker down")}
	ok := &recordingSink{}
	d := NewDispatcher(8, failing, ok)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()

	d.Publish(context.Background(), Deleted(7, 1))
	d.Publish(context.Background(), Deleted(7, 2))

	assert.Eventually(t, func() bool { return len(ok.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	// 一个 sink 失败不影响其他 sink
	assert.Len(t, failing.snapshot(), 2)

	cancel()
	<-done
}

func TestDispatcher_PublishNeverBlocks(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(1, sink)

	// 未启动 Run，发件箱满后丢弃
	d.Publish(context.Background(), Deleted(7, 1))
	d.Publish(context.Background(), Deleted(7, 2))
	d.Publish(context.Background(), Deleted(7, 3))
	assert.Equal(t, int64(2), d.Dropped())

	// 关停时投递已入队的事件
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, d.Run(ctx))
	events := sink.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, DeletedRef{ID: 1}, events[0].Transaction)
}
