package repository

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/okian/qualitydash/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: score DESC, then measureID ASC (deterministic).
// "less" means ranks earlier, so in-order traversal yields the ranking
// from highest to lowest score.

// scoreScale controls fixed-point scaling from float64.
const scoreScale = 1_000_000_000 // 9 decimal places

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := x * scoreScale
	if scaled >= float64(math.MaxInt64) {
		return scoreFP(math.MaxInt64)
	}
	if scaled <= float64(math.MinInt64) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(scaled))
}

func toFloat(x scoreFP) float64 {
	return float64(x) / scoreScale
}

// treap node
type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should appear before (bScore, bID).
func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// heapPriority derives a stable pseudo-random heap priority from the id,
// so the tree shape does not depend on insertion order.
func heapPriority(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func insert(n *node, id string, score scoreFP) *node {
	if n == nil {
		return &node{id: id, score: score, prio: heapPriority(id), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.score && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	} else if less(score, id, n.score, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// record stores the fixed-point score plus the entry it was built from.
type record struct {
	score scoreFP
	entry Entry
}

// collect appends up to limit entries in rank order. limit < 0 means all.
func collect(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || (limit >= 0 && len(*out) >= limit) {
		return
	}
	collect(n.left, limit, records, out)
	if limit < 0 || len(*out) < limit {
		if rec, ok := records[n.id]; ok {
			*out = append(*out, rec.entry)
		}
	}
	if limit < 0 || len(*out) < limit {
		collect(n.right, limit, records, out)
	}
}

// TreapStore is a Store ordered by score desc, id asc.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]record
	name string
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byID: make(map[string]record),
		name: "priority",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the store label.
func (s *TreapStore) Name() string { return s.name }

// Put implements Store.Put with O(log n) expected time.
func (s *TreapStore) Put(ctx context.Context, e Entry) error {
	if e.MeasureID == "" || math.IsNaN(e.Score) {
		metrics.RecordErrorByComponent("repository", "invalid_entry")
		return ErrInvalidEntry
	}
	ns := toFixedPoint(e.Score)
	e.Score = toFloat(ns)
	e.Rank = 0

	s.mu.Lock()
	if old, ok := s.byID[e.MeasureID]; ok {
		s.root = deleteNode(s.root, e.MeasureID, old.score)
	}
	s.byID[e.MeasureID] = record{score: ns, entry: e}
	s.root = insert(s.root, e.MeasureID, ns)
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateRepositoryRecordsTotal(s.name, count)
	return nil
}

// Rank returns the current rank and score for a measure.
func (s *TreapStore) Rank(ctx context.Context, measureID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(s.name, "rank", float64(time.Since(start).Microseconds())/1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byID[measureID]; !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}

	all := make([]Entry, 0, len(s.byID))
	collect(s.root, -1, s.byID, &all)
	sortEntries(all)
	assignRanksWithTies(all)

	for _, entry := range all {
		if entry.MeasureID == measureID {
			return entry, nil
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns the top N entries ordered by score desc.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(s.name, "top_n", float64(time.Since(start).Microseconds())/1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byID)))
	collect(s.root, n, s.byID, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of ranked measures.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// sortEntries sorts entries by score desc and measureID asc to match TopN.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].MeasureID < entries[j].MeasureID
	})
}

// assignRanksWithTies gives equal scores the same rank. Ranks are
// consecutive: 1, 1, 2, not 1, 1, 3.
func assignRanksWithTies(entries []Entry) {
	currentRank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			currentRank++
		}
		entries[i].Rank = currentRank
	}
}
