// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/mathlab/internal/dilemma"
	"github.com/ashureev/mathlab/internal/domain"
)

// Repository persists visitors and their cumulative statistics.
type Repository interface {
	// GetVisitor returns nil, nil when the visitor does not exist.
	GetVisitor(ctx context.Context, visitorID string) (*domain.Visitor, error)

	// UpsertVisitor creates or updates a visitor record.
	UpsertVisitor(ctx context.Context, visitor *domain.Visitor) error

	// UpdateLastSeen updates the last_seen_at timestamp for a visitor.
	UpdateLastSeen(ctx context.Context, visitorID string, lastSeen time.Time) error

	// GetValue reads a raw key-value entry; ok is false when it is absent.
	GetValue(ctx context.Context, visitorID, key string) (value []byte, ok bool, err error)

	// PutValue writes a raw key-value entry.
	PutValue(ctx context.Context, visitorID, key string, value []byte) error

	// ListDilemmaStats returns every policy the visitor has a record for.
	ListDilemmaStats(ctx context.Context, visitorID string) ([]domain.PolicyStats, error)

	// RecordDilemmaGame adds a finished game to the visitor's cumulative
	// stats for its policy and returns the updated totals.
	RecordDilemmaGame(ctx context.Context, visitorID string, summary dilemma.Summary) (domain.PolicyStats, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
