// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/voteboard/bus"
	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/store"
)

// itemsKey is the durable store key holding the serialized queue. Stable
// across restarts.
const itemsKey = "outbox:items"

var (
	// ErrNoSender is returned by Flush when no sender is registered.
	ErrNoSender = errors.New("outbox: no sender registered")

	// ErrPartialFlush is returned when a flush pass completes but one or
	// more items could not be delivered and remain queued.
	ErrPartialFlush = errors.New("outbox: some items could not be delivered")
)

// Sender delivers one ballot to the remote namespace at the given path.
type Sender func(ctx context.Context, ballot models.Ballot, path string) error

// PathFunc computes the canonical remote path for a ballot at enqueue time,
// so delivery later does not depend on session state.
type PathFunc func(ballot models.Ballot) string

// Queue is the durable FIFO of pending ballot submissions. Items survive
// restarts, are retried on connectivity-restored signals, and are removed
// only after the sender accepts them. A failed item stays queued; it is
// never reordered and never silently dropped.
type Queue struct {
	store   *store.Store
	signals *bus.Bus
	pathFor PathFunc
	logger  *slog.Logger

	// mu serializes queue list reads/writes and whole flush passes so two
	// concurrent flushes cannot lose updates.
	mu         sync.Mutex
	sender     Sender
	subscribed bool
}

func NewQueue(st *store.Store, signals *bus.Bus, pathFor PathFunc, logger *slog.Logger) *Queue {
	return &Queue{
		store:   st,
		signals: signals,
		pathFor: pathFor,
		logger:  logger,
	}
}

// Enqueue appends a new item for ballot and rewrites the persisted queue
// synchronously. A store write failure here is a local environment fault and
// propagates to the caller.
func (q *Queue) Enqueue(ballot models.Ballot) (models.OutboxItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item := models.OutboxItem{
		ID:        uuid.NewString(),
		Payload:   ballot,
		CreatedAt: time.Now(),
		Path:      q.pathFor(ballot),
	}

	items := q.load()
	items = append(items, item)
	if err := q.save(items); err != nil {
		return models.OutboxItem{}, err
	}

	q.logger.Info("ballot queued", "item_id", item.ID, "path", item.Path, "queued", len(items))
	return item, nil
}

// RegisterSender installs or clears the delivery function. The first non-nil
// registration subscribes to the connectivity-restored signal and flushes
// automatically when it fires; ctx bounds that subscription. Clearing the
// sender does not remove queued items.
func (q *Queue) RegisterSender(ctx context.Context, s Sender) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.sender = s
	if s == nil || q.subscribed || q.signals == nil {
		return nil
	}

	msgs, err := q.signals.Subscribe(ctx, bus.TopicConnectivityRestored)
	if err != nil {
		return fmt.Errorf("outbox: failed to watch connectivity signal: %w", err)
	}
	q.subscribed = true

	go func() {
		for msg := range msgs {
			msg.Ack()
			if err := q.Flush(ctx); err != nil {
				q.logger.Warn("flush after connectivity restore incomplete", "error", err)
			}
		}
	}()

	return nil
}

// Flush attempts delivery of every queued item, in FIFO order, one at a
// time. Per-item failures are logged and the item kept; delivery continues
// with the next item so one bad item cannot block the rest. If any item
// remains at the end of the pass, ErrPartialFlush is returned. Without a
// registered sender the queue is left untouched and ErrNoSender returned.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sender == nil {
		return ErrNoSender
	}

	items := q.load()
	if len(items) == 0 {
		return nil
	}

	remaining := make([]models.OutboxItem, 0, len(items))
	for i, item := range items {
		if err := q.sender(ctx, item.Payload, item.Path); err != nil {
			q.logger.Warn("ballot delivery failed, keeping item queued",
				"item_id", item.ID, "path", item.Path, "error", err)
			remaining = append(remaining, item)
			continue
		}

		// Each removal rewrites the whole list so a crash mid-pass
		// cannot lose undelivered items.
		rest := append(append([]models.OutboxItem{}, remaining...), items[i+1:]...)
		if err := q.save(rest); err != nil {
			q.logger.Error("failed to persist queue after delivery", "error", err)
		}
		q.logger.Info("ballot delivered from outbox", "item_id", item.ID)
	}

	if err := q.save(remaining); err != nil {
		return err
	}

	if len(remaining) > 0 {
		return fmt.Errorf("%w: %d of %d remain", ErrPartialFlush, len(remaining), len(items))
	}

	return nil
}

// Len reports the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.load())
}

// Items returns a snapshot copy of the queued items in FIFO order.
func (q *Queue) Items() []models.OutboxItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.load()
	out := make([]models.OutboxItem, len(items))
	copy(out, items)
	return out
}

// Clear drops all queued items. Explicit operator action only; flush
// failures never clear the queue.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.save(nil)
}

// load reads the persisted queue. A corrupt record is discarded and the
// queue reset to empty rather than wedging every later operation.
func (q *Queue) load() []models.OutboxItem {
	var items []models.OutboxItem
	err := q.store.GetJSON(itemsKey, &items)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			q.logger.Warn("outbox store corrupt, resetting queue", "error", err)
		}
		return nil
	}
	return items
}

func (q *Queue) save(items []models.OutboxItem) error {
	if items == nil {
		items = []models.OutboxItem{}
	}
	if err := q.store.SetJSON(itemsKey, items); err != nil {
		return fmt.Errorf("outbox: failed to persist queue: %w", err)
	}
	return nil
}
