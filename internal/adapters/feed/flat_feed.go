package feed

import (
	"context"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
	"sync"
	"sync/atomic"
)

// Frame - один кадр живой выдачи, который получает подписчик.
// Empty - явный сигнал "резолюция запроса была пустой": сама выдача
// при этом не затирается, подписчик продолжает видеть последний
// непустой набор (поведение исходного экрана).
type Frame struct {
	Generation uint64        `json:"generation"`
	Query      string        `json:"query"`
	Empty      bool          `json:"empty"`
	Flats      []domain.Flat `json:"flats"`
	// Error заполнен, если резолюция этого поколения завершилась ошибкой.
	// Выдача при этом не затирается, клиент может просто переподписаться.
	Error string `json:"error,omitempty"`
}

// subscriber - одна живая подписка на конкретный запрос выдачи.
type subscriber struct {
	query domain.FlatQuery
	ch    chan Frame

	mu sync.Mutex
	// closed выставляется при отписке под mu: закрытие канала и отправка
	// кадра сериализованы, кадр не может попасть в уже закрытый канал.
	closed bool
	// lastGen - поколение последнего доставленного кадра. Поздний результат
	// медленного старого запроса не может затереть более новый.
	lastGen      uint64
	lastNonEmpty []domain.Flat
}

// FlatFeed раздает живые обновления выдачи активным подпискам.
// Каждый Refresh перечитывает запрос каждого подписчика из хранилища
// под новым номером поколения.
type FlatFeed struct {
	storage port.FlatStoragePort
	logger  port.LoggerPort

	mu   sync.RWMutex
	subs map[*subscriber]struct{}

	generation atomic.Uint64
}

func NewFlatFeed(storage port.FlatStoragePort, baseLogger port.LoggerPort) *FlatFeed {
	return &FlatFeed{
		storage: storage,
		logger:  baseLogger.WithFields(port.Fields{"component": "FlatFeed"}),
		subs:    make(map[*subscriber]struct{}),
	}
}

// Subscribe регистрирует подписку на запрос и сразу инициирует первую
// резолюцию. Возвращенная функция отписки обязана быть вызвана при
// уходе клиента - иначе подписка утечет.
func (f *FlatFeed) Subscribe(ctx context.Context, query domain.FlatQuery) (<-chan Frame, func()) {
	sub := &subscriber{
		query: query,
		ch:    make(chan Frame, 4),
	}

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	subsCount := len(f.subs)
	f.mu.Unlock()

	f.logger.Debug("Feed subscription added.", port.Fields{
		"query":       query.Key(),
		"subscribers": subsCount,
	})

	// Первый кадр приходит асинхронно, как и в подписке на снапшоты:
	// до него клиент показывает состояние загрузки.
	go f.resolve(ctx, sub, f.generation.Add(1))

	unsubscribe := func() {
		f.mu.Lock()
		_, ok := f.subs[sub]
		if ok {
			delete(f.subs, sub)
		}
		f.mu.Unlock()
		if !ok {
			return
		}
		sub.mu.Lock()
		sub.closed = true
		close(sub.ch)
		sub.mu.Unlock()
		f.logger.Debug("Feed subscription released.", port.Fields{"query": query.Key()})
	}
	return sub.ch, unsubscribe
}

// Refresh перечитывает запросы всех активных подписок.
// Вызывается, когда данные коллекции изменились.
func (f *FlatFeed) Refresh(ctx context.Context) {
	gen := f.generation.Add(1)

	f.mu.RLock()
	subs := make([]*subscriber, 0, len(f.subs))
	for sub := range f.subs {
		subs = append(subs, sub)
	}
	f.mu.RUnlock()

	logger := contextkeys.LoggerFromContext(ctx)
	logger.Debug("Refreshing feed subscriptions", port.Fields{
		"component":   "FlatFeed",
		"generation":  gen,
		"subscribers": len(subs),
	})

	for _, sub := range subs {
		go f.resolve(ctx, sub, gen)
	}
}

// resolve выполняет запрос подписчика и доставляет кадр, если результат
// не устарел к моменту завершения.
func (f *FlatFeed) resolve(ctx context.Context, sub *subscriber, gen uint64) {
	flats, err := f.storage.Find(ctx, sub.query)
	if err != nil {
		f.logger.Error("Feed query failed", err, port.Fields{"query": sub.query.Key(), "generation": gen})
		sub.mu.Lock()
		f.deliver(sub, Frame{Generation: gen, Query: sub.query.Key(), Error: err.Error()})
		sub.mu.Unlock()
		return
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()

	if gen < sub.lastGen {
		// Запрос более нового поколения уже успел доставить кадр -
		// этот результат выбрасываем, а не затираем свежий.
		f.logger.Debug("Dropping stale feed resolution", port.Fields{
			"query":      sub.query.Key(),
			"generation": gen,
			"latest":     sub.lastGen,
		})
		return
	}
	sub.lastGen = gen

	frame := Frame{Generation: gen, Query: sub.query.Key()}
	if len(flats) == 0 {
		// Пустая резолюция не затирает выдачу, но подписчик получает
		// явный флаг пустого результата.
		frame.Empty = true
		frame.Flats = sub.lastNonEmpty
	} else {
		sub.lastNonEmpty = flats
		frame.Flats = flats
	}

	f.deliver(sub, frame)
}

// deliver отправляет кадр без блокировки: отставшая вкладка пропускает
// кадр, следующий Refresh принесет ей актуальный. Вызывается строго под
// sub.mu, поэтому отправка не может пересечься с закрытием канала при
// отписке.
func (f *FlatFeed) deliver(sub *subscriber, frame Frame) {
	if sub.closed {
		return
	}
	select {
	case sub.ch <- frame:
	default:
		f.logger.Warn("Feed subscriber is slow, frame skipped.", port.Fields{"query": sub.query.Key()})
	}
}
