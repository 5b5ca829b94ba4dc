// Package database provides the data access layer for the API server.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Driver selection (sqlite, postgres, mysql), migrations
//	├── users/           # Accounts and notification settings
//	├── sessions/        # Study sessions and their status transitions
//	├── notes/           # Notes with category filtering
//	├── books/           # Book shelf and completion toggling
//	├── timers/          # Focus timers
//	├── settings/        # Per-user notification preferences
//	├── sync/            # Client sync run history (shared with the CLI cache)
//	└── stats/           # Daily study stats, streaks, rollups
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	sessionsRepo := sessions.NewRepository(db.DB)
//	statsRepo := stats.NewRepository(db.DB, cfg.Stats.Location())
//
//	list, err := sessionsRepo.ListByUser(userID)
//	streak, err := statsRepo.CurrentStreak(userID, time.Now())
//
// Every query is scoped by user id. Lookups that match no row for the
// requesting user return entities.ErrNotFound rather than gorm.ErrRecordNotFound.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Add the entity to Models() so it is migrated
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
