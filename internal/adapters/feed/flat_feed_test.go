package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	logger_adapter "flats-service/internal/adapters/logger"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorage struct {
	mu    sync.Mutex
	flats map[string][]domain.Flat
	err   error
}

func newStubStorage() *stubStorage {
	return &stubStorage{flats: make(map[string][]domain.Flat)}
}

func (s *stubStorage) set(key string, flats []domain.Flat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flats[key] = flats
}

func (s *stubStorage) Find(ctx context.Context, query domain.FlatQuery) ([]domain.Flat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.flats[query.Key()], nil
}

func (s *stubStorage) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *stubStorage) Upsert(ctx context.Context, flat domain.Flat) error { return nil }

func newTestFeed(storage port.FlatStoragePort) *FlatFeed {
	baseLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer: io.Discard,
		Level:  slog.LevelError,
	})
	return NewFlatFeed(storage, baseLogger)
}

func waitFrame(t *testing.T, frames <-chan Frame) Frame {
	t.Helper()
	select {
	case frame := <-frames:
		return frame
	case <-time.After(time.Second):
		t.Fatal("expected a feed frame")
		return Frame{}
	}
}

func TestFlatFeed_FirstFrameArrivesAfterSubscribe(t *testing.T) {
	storage := newStubStorage()
	storage.set("all", []domain.Flat{{ID: "flat-1", City: "Berlin"}})
	feed := newTestFeed(storage)

	frames, unsubscribe := feed.Subscribe(context.Background(), domain.NewFlatQuery("", false))
	defer unsubscribe()

	frame := waitFrame(t, frames)
	assert.False(t, frame.Empty)
	require.Len(t, frame.Flats, 1)
	assert.Equal(t, "flat-1", frame.Flats[0].ID)
}

func TestFlatFeed_RefreshDeliversNewData(t *testing.T) {
	storage := newStubStorage()
	storage.set("all", []domain.Flat{{ID: "flat-1"}})
	feed := newTestFeed(storage)

	frames, unsubscribe := feed.Subscribe(context.Background(), domain.NewFlatQuery("", false))
	defer unsubscribe()

	first := waitFrame(t, frames)
	require.Len(t, first.Flats, 1)

	storage.set("all", []domain.Flat{{ID: "flat-1"}, {ID: "flat-2"}})
	feed.Refresh(context.Background())

	second := waitFrame(t, frames)
	assert.Len(t, second.Flats, 2)
	assert.Greater(t, second.Generation, first.Generation)
}

func TestFlatFeed_EmptyResolutionKeepsLastNonEmpty(t *testing.T) {
	storage := newStubStorage()
	storage.set("all", []domain.Flat{{ID: "flat-1"}})
	feed := newTestFeed(storage)

	frames, unsubscribe := feed.Subscribe(context.Background(), domain.NewFlatQuery("", false))
	defer unsubscribe()

	first := waitFrame(t, frames)
	require.Len(t, first.Flats, 1)

	// Коллекция опустела: кадр помечается пустым, но выдача не затирается.
	storage.set("all", nil)
	feed.Refresh(context.Background())

	second := waitFrame(t, frames)
	assert.True(t, second.Empty)
	require.Len(t, second.Flats, 1)
	assert.Equal(t, "flat-1", second.Flats[0].ID)
}

func TestFlatFeed_SubscriptionsAreIndependentPerQuery(t *testing.T) {
	storage := newStubStorage()
	storage.set("all", []domain.Flat{{ID: "flat-1"}, {ID: "flat-2"}})
	storage.set("city:Berlin", []domain.Flat{{ID: "flat-1", City: "Berlin"}})
	feed := newTestFeed(storage)

	allFrames, unsubAll := feed.Subscribe(context.Background(), domain.NewFlatQuery("", false))
	defer unsubAll()
	berlinFrames, unsubBerlin := feed.Subscribe(context.Background(), domain.NewFlatQuery("Berlin", true))
	defer unsubBerlin()

	assert.Len(t, waitFrame(t, allFrames).Flats, 2)
	assert.Len(t, waitFrame(t, berlinFrames).Flats, 1)
}

func TestFlatFeed_UnsubscribeReleasesSubscription(t *testing.T) {
	storage := newStubStorage()
	storage.set("all", []domain.Flat{{ID: "flat-1"}})
	feed := newTestFeed(storage)

	frames, unsubscribe := feed.Subscribe(context.Background(), domain.NewFlatQuery("", false))
	waitFrame(t, frames)

	unsubscribe()

	// Канал закрыт, Refresh ничего не доставляет отписанному клиенту.
	feed.Refresh(context.Background())
	_, open := <-frames
	assert.False(t, open)

	// Повторная отписка безопасна.
	unsubscribe()
}

func TestFlatFeed_UnsubscribeRacesWithRefresh(t *testing.T) {
	storage := newStubStorage()
	storage.set("all", []domain.Flat{{ID: "flat-1"}})
	feed := newTestFeed(storage)

	ctx := context.Background()

	// Отписка во время резолюции не должна уронить доставку кадра в
	// закрытый канал. Гоняем Refresh параллельно с циклом
	// подписка/отписка и под -race, и без него: паника на send в
	// закрытый канал провалит тест в обоих режимах.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			feed.Refresh(ctx)
		}
	}()

	for i := 0; i < 500; i++ {
		frames, unsubscribe := feed.Subscribe(ctx, domain.NewFlatQuery("", false))
		if i%2 == 0 {
			// Половина клиентов успевает получить кадр, половина
			// отписывается с резолюцией еще в полете.
			select {
			case <-frames:
			case <-time.After(10 * time.Millisecond):
			}
		}
		unsubscribe()
	}
	<-done
}

func TestFlatFeed_FailedResolutionEmitsErrorFrame(t *testing.T) {
	storage := newStubStorage()
	storage.set("all", []domain.Flat{{ID: "flat-1"}})
	feed := newTestFeed(storage)

	frames, unsubscribe := feed.Subscribe(context.Background(), domain.NewFlatQuery("", false))
	defer unsubscribe()
	waitFrame(t, frames)

	storage.setErr(errors.New("connection refused"))
	feed.Refresh(context.Background())

	frame := waitFrame(t, frames)
	assert.Equal(t, "connection refused", frame.Error)
}

func TestFlatFeed_StaleResolutionDoesNotOverwriteNewer(t *testing.T) {
	storage := newStubStorage()
	storage.set("all", []domain.Flat{{ID: "new"}})
	feed := newTestFeed(storage)

	frames, unsubscribe := feed.Subscribe(context.Background(), domain.NewFlatQuery("", false))
	defer unsubscribe()
	waitFrame(t, frames)

	// Кадр нового поколения доставлен, после чего приходит результат
	// более старого поколения: он должен быть отброшен.
	sub := func() *subscriber {
		feed.mu.RLock()
		defer feed.mu.RUnlock()
		for s := range feed.subs {
			return s
		}
		return nil
	}()
	require.NotNil(t, sub)

	feed.resolve(context.Background(), sub, feed.generation.Add(1))
	newest := waitFrame(t, frames)

	storage.set("all", []domain.Flat{{ID: "old"}})
	feed.resolve(context.Background(), sub, newest.Generation-1)

	select {
	case frame := <-frames:
		t.Fatalf("stale frame delivered: %+v", frame)
	case <-time.After(50 * time.Millisecond):
	}
}
