package port

import "context"

// FlatFeedPort - контракт для оповещения живых подписок на выдачу.
// Refresh вызывается, когда данные коллекции изменились и активные
// подписки должны перечитать свои запросы.
type FlatFeedPort interface {
	Refresh(ctx context.Context)
}
