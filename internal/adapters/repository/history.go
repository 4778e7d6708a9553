// Package repository holds the process-wide run history: one entry per
// aggregator invocation, kept in memory for the process lifetime. It is
// never persisted or pruned.
package repository

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/truthfi/truthfi/internal/domain/truthscore"
	"github.com/truthfi/truthfi/internal/domain/types"
)

const recentScoresWindow = 10

// Entry is one recorded analysis run.
type Entry struct {
	ID        string    `json:"id"`
	Score     float64   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
	PostCount int       `json:"post_count"`
}

// Store is the run-history contract.
type Store interface {
	truthscore.Recorder

	// Count returns the number of recorded runs.
	Count() int

	// Recent returns up to n latest entries, newest last.
	Recent(n int) []Entry

	// Summary computes aggregate statistics over all recorded runs.
	Summary() types.Summary
}

// MemoryStore implements Store with a mutex-guarded append-only slice.
// Appends are atomic: a reader never observes a partially written entry.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore creates an empty run history.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record appends one run entry, assigning it a fresh ID.
func (s *MemoryStore) Record(e truthscore.RunEntry) {
	entry := Entry{
		ID:        uuid.NewString(),
		Score:     e.Score,
		Timestamp: e.Timestamp,
		PostCount: e.PostCount,
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
}

// Count returns the number of recorded runs.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Recent returns up to n latest entries, newest last.
func (s *MemoryStore) Recent(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, n)
	copy(out, s.entries[len(s.entries)-n:])
	return out
}

// Summary computes mean, median, risk distribution, and the last ten
// scores. An empty history yields zero values and an empty distribution.
func (s *MemoryStore) Summary() types.Summary {
	s.mu.RLock()
	scores := make([]float64, len(s.entries))
	for i, e := range s.entries {
		scores[i] = e.Score
	}
	s.mu.RUnlock()

	if len(scores) == 0 {
		return types.Summary{RiskDistribution: map[string]int{}}
	}

	dist := map[string]int{
		string(types.RiskLow):      0,
		string(types.RiskMedium):   0,
		string(types.RiskHigh):     0,
		string(types.RiskCritical): 0,
	}
	total := 0.0
	for _, v := range scores {
		total += v
		dist[string(types.TrustRisk(v))]++
	}

	recent := scores
	if len(recent) > recentScoresWindow {
		recent = recent[len(recent)-recentScoresWindow:]
	}

	return types.Summary{
		TotalAnalyses:    len(scores),
		AverageScore:     round1(total / float64(len(scores))),
		MedianScore:      round1(median(scores)),
		RiskDistribution: dist,
		RecentScores:     append([]float64(nil), recent...),
	}
}

func median(scores []float64) float64 {
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
