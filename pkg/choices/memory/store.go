// Package memory provides an in-process entity set implementing the choices
// collaborator interfaces. It backs the demo server and the widget tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/goliatone/go-formwidgets/pkg/choices"
)

// Store keeps records per entity type. Ordering of active sets and empty
// searches is by label, then identifier.
type Store struct {
	mu      sync.RWMutex
	records map[choices.EntityType]map[string]choices.Record
}

var _ choices.Source = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{records: make(map[choices.EntityType]map[string]choices.Record)}
}

// Put inserts or replaces records for entity.
func (s *Store) Put(entity choices.EntityType, records ...choices.Record) error {
	if entity.IsZero() {
		return fmt.Errorf("memory: entity type is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.records[entity]
	if bucket == nil {
		bucket = make(map[string]choices.Record, len(records))
		s.records[entity] = bucket
	}
	for _, record := range records {
		id := strings.TrimSpace(record.ID)
		if id == "" {
			return fmt.Errorf("memory: %s record %q has no identifier", entity, record.Label)
		}
		record.ID = id
		record.Groups = append([]string(nil), record.Groups...)
		bucket[id] = record
	}
	return nil
}

// ActiveSet implements choices.ActiveSetSource.
func (s *Store) ActiveSet(ctx context.Context, entity choices.EntityType, scope choices.Scope, additionalIDs []string) ([]choices.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	forced := choices.CompactIDs(additionalIDs...)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]choices.Item, 0, len(s.records[entity]))
	for _, record := range s.records[entity] {
		if !scope.Allows(record.Groups) {
			continue
		}
		if record.Active || choices.ContainsID(forced, record.ID) {
			out = append(out, record.Item)
		}
	}
	sortItems(out)
	return out, nil
}

// Get implements choices.Lookup.
func (s *Store) Get(ctx context.Context, entity choices.EntityType, id string) (choices.Item, error) {
	if err := ctx.Err(); err != nil {
		return choices.Item{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return choices.Item{}, fmt.Errorf("memory: %s: %w", entity, choices.ErrInvalidID)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[entity][id]
	if !ok {
		return choices.Item{}, fmt.Errorf("memory: %s %q: %w", entity, id, choices.ErrNotFound)
	}
	return record.Item, nil
}

// Search implements choices.Searcher. Matching is a case-insensitive substring
// test over active records; prefix matches rank first, then closer edit
// distance to the query.
func (s *Store) Search(ctx context.Context, entity choices.EntityType, scope choices.Scope, query string, limit int) ([]choices.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	matches := make([]match, 0, 32)
	for _, record := range s.records[entity] {
		if !record.Active || !scope.Allows(record.Groups) {
			continue
		}
		label := strings.ToLower(record.Label)
		if q != "" && !strings.Contains(label, q) {
			continue
		}
		m := match{item: record.Item}
		if q != "" {
			m.isPrefix = strings.HasPrefix(label, q)
			m.distance = levenshtein.ComputeDistance(label, q)
		}
		matches = append(matches, m)
	}
	s.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return lessItem(matches[i].item, matches[j].item)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]choices.Item, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.item)
	}
	return out, nil
}

type match struct {
	item     choices.Item
	isPrefix bool
	distance int
}

func sortItems(items []choices.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessItem(items[i], items[j])
	})
}

func lessItem(a, b choices.Item) bool {
	if a.Label != b.Label {
		return a.Label < b.Label
	}
	return a.ID < b.ID
}
