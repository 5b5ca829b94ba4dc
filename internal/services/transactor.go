package services

import (
	"gorm.io/gorm"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/sessions"
	statsrepo "github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/stats"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/timers"
)

// GormTransactor binds the completion stores to one gorm transaction.
type GormTransactor struct {
	db       *gorm.DB
	sessions *sessions.Repository
	timers   *timers.Repository
	stats    *statsrepo.Repository
}

func NewGormTransactor(db *gorm.DB, sessions *sessions.Repository, timers *timers.Repository, stats *statsrepo.Repository) *GormTransactor {
	return &GormTransactor{db: db, sessions: sessions, timers: timers, stats: stats}
}

func (t *GormTransactor) InTransaction(fn func(CompletionStores) error) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return fn(CompletionStores{
			Sessions: t.sessions.WithTx(tx),
			Timers:   t.timers.WithTx(tx),
			Stats:    t.stats.WithTx(tx),
		})
	})
}

// direct runs fn on the plain stores with no transaction.
type direct CompletionStores

func (d direct) InTransaction(fn func(CompletionStores) error) error {
	return fn(CompletionStores(d))
}
