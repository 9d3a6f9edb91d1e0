package bootstrap

import (
	signalInfra "github.com/muhammadchandra19/signal-engine/internal/infrastructure/questdb/signal"
)

// Repository holds the persistence adapters.
// SignalRepository is nil when QuestDB is disabled.
type Repository struct {
	SignalRepository *signalInfra.Repository
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	if b.QuestDB == nil {
		return
	}
	b.Repository.SignalRepository = signalInfra.NewRepository(b.QuestDB)
}
