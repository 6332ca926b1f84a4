// Package repository holds the ranked views of scored measures.
package repository

import (
	"context"

	"github.com/okian/qualitydash/internal/domain/measure"
	"github.com/okian/qualitydash/internal/domain/scoring"
)

// Entry represents one ranked measure.
type Entry struct {
	Rank      int            `json:"rank"`
	MeasureID string         `json:"measure_id"`
	Score     float64        `json:"score"`
	Domain    measure.Domain `json:"domain"`
	Status    scoring.Status `json:"status"`
	Trend     scoring.Trend  `json:"trend"`
	Gap       float64        `json:"gap"`
	Weight    float64        `json:"weight"`
}

// Store provides read/write access to a ranking.
type Store interface {
	// Put inserts or replaces the entry for e.MeasureID. Rank is ignored.
	Put(ctx context.Context, e Entry) error

	// Rank returns the current rank and score for a measure.
	// Returns ErrNotFound if the measure is not ranked.
	Rank(ctx context.Context, measureID string) (Entry, error)

	// TopN returns the top-N entries ordered by score desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of ranked measures.
	Count(ctx context.Context) int
}
