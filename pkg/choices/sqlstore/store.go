// Package sqlstore implements the choices collaborator interfaces over
// database/sql. Each entity type maps onto an existing table; the store never
// creates or migrates tables it does not own.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formwidgets/pkg/choices"
)

// Table describes how an entity type is stored.
type Table struct {
	// Name of the table or view.
	Name string
	// IDColumn holds the identifier; defaults to "id".
	IDColumn string
	// LabelColumn holds the display label; defaults to "label".
	LabelColumn string
	// ActiveColumn, when set, is a boolean column selecting the active set.
	// Without it every row is active.
	ActiveColumn string
	// GroupColumn, when set, restricts rows to scopes sharing its value. NULL
	// or empty values are visible to everyone.
	GroupColumn string
	// IntegerKeys rejects non-numeric identifiers with choices.ErrInvalidID
	// before querying.
	IntegerKeys bool
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (t Table) normalized() (Table, error) {
	if t.IDColumn == "" {
		t.IDColumn = "id"
	}
	if t.LabelColumn == "" {
		t.LabelColumn = "label"
	}
	for _, ident := range []string{t.Name, t.IDColumn, t.LabelColumn, t.ActiveColumn, t.GroupColumn} {
		if ident == "" {
			continue
		}
		if !identifierPattern.MatchString(ident) {
			return Table{}, fmt.Errorf("sqlstore: invalid identifier %q", ident)
		}
	}
	if t.Name == "" {
		return Table{}, errors.New("sqlstore: table name is required")
	}
	return t, nil
}

// Store queries entity sets from a *sql.DB.
type Store struct {
	db *sql.DB

	mu     sync.RWMutex
	tables map[choices.EntityType]Table
}

var _ choices.Source = (*Store)(nil)

// New wraps db. Tables must be registered before use.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlstore: db is required")
	}
	return &Store{db: db, tables: make(map[choices.EntityType]Table)}, nil
}

// Register maps entity onto table.
func (s *Store) Register(entity choices.EntityType, table Table) error {
	if entity.IsZero() {
		return errors.New("sqlstore: entity type is required")
	}
	normalized, err := table.normalized()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[entity] = normalized
	return nil
}

func (s *Store) table(entity choices.EntityType) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table, ok := s.tables[entity]
	if !ok {
		return Table{}, fmt.Errorf("sqlstore: entity %s not registered", entity)
	}
	return table, nil
}

// ActiveSet implements choices.ActiveSetSource.
func (s *Store) ActiveSet(ctx context.Context, entity choices.EntityType, scope choices.Scope, additionalIDs []string) ([]choices.Item, error) {
	table, err := s.table(entity)
	if err != nil {
		return nil, err
	}

	forced := choices.CompactIDs(additionalIDs...)
	if table.IntegerKeys {
		forced = numericOnly(forced)
	}

	var (
		where []string
		args  []any
	)
	if table.ActiveColumn != "" {
		clause := table.ActiveColumn + " = 1"
		if len(forced) > 0 {
			clause = "(" + clause + " OR " + table.IDColumn + " IN (" + placeholders(len(forced)) + "))"
			for _, id := range forced {
				args = append(args, keyArg(table, id))
			}
		}
		where = append(where, clause)
	}
	if clause, scopeArgs := scopeClause(table, scope); clause != "" {
		where = append(where, clause)
		args = append(args, scopeArgs...)
	}

	query := selectClause(table) + whereClause(where) + orderClause(table)
	items, err := s.queryItems(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: active set %s: %w", entity, err)
	}
	return choices.DedupeItems(items), nil
}

// Get implements choices.Lookup.
func (s *Store) Get(ctx context.Context, entity choices.EntityType, id string) (choices.Item, error) {
	table, err := s.table(entity)
	if err != nil {
		return choices.Item{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return choices.Item{}, fmt.Errorf("sqlstore: %s: %w", entity, choices.ErrInvalidID)
	}
	if table.IntegerKeys {
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			return choices.Item{}, fmt.Errorf("sqlstore: %s %q: %w", entity, id, choices.ErrInvalidID)
		}
	}

	query := selectClause(table) + " WHERE " + table.IDColumn + " = ?"
	var item choices.Item
	err = s.db.QueryRowContext(ctx, query, keyArg(table, id)).Scan(&item.ID, &item.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return choices.Item{}, fmt.Errorf("sqlstore: %s %q: %w", entity, id, choices.ErrNotFound)
	}
	if err != nil {
		return choices.Item{}, fmt.Errorf("sqlstore: get %s %q: %w", entity, id, err)
	}
	return item, nil
}

// Search implements choices.Searcher with a case-insensitive LIKE over the
// label column of active rows.
func (s *Store) Search(ctx context.Context, entity choices.EntityType, scope choices.Scope, query string, limit int) ([]choices.Item, error) {
	table, err := s.table(entity)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	var (
		where []string
		args  []any
	)
	if table.ActiveColumn != "" {
		where = append(where, table.ActiveColumn+" = 1")
	}
	if clause, scopeArgs := scopeClause(table, scope); clause != "" {
		where = append(where, clause)
		args = append(args, scopeArgs...)
	}
	if q := strings.TrimSpace(query); q != "" {
		where = append(where, "LOWER("+table.LabelColumn+`) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(q))+"%")
	}

	stmt := selectClause(table) + whereClause(where) + orderClause(table) + " LIMIT ?"
	args = append(args, limit)

	items, err := s.queryItems(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: search %s: %w", entity, err)
	}
	return items, nil
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]choices.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []choices.Item
	for rows.Next() {
		var item choices.Item
		if err := rows.Scan(&item.ID, &item.Label); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func selectClause(table Table) string {
	return "SELECT CAST(" + table.IDColumn + " AS TEXT), COALESCE(" + table.LabelColumn + ", '') FROM " + table.Name
}

func orderClause(table Table) string {
	return " ORDER BY " + table.LabelColumn + ", " + table.IDColumn
}

func whereClause(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func scopeClause(table Table, scope choices.Scope) (string, []any) {
	if table.GroupColumn == "" || scope.All {
		return "", nil
	}
	open := "(" + table.GroupColumn + " IS NULL OR " + table.GroupColumn + " = ''"
	if len(scope.Groups) == 0 {
		return open + ")", nil
	}
	args := make([]any, 0, len(scope.Groups))
	for _, group := range scope.Groups {
		args = append(args, group)
	}
	return open + " OR " + table.GroupColumn + " IN (" + placeholders(len(scope.Groups)) + "))", args
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

// CanonicalID rewrites integer keys to their decimal form so "042" compares
// equal to the "42" the table returns. Other identifiers pass through.
func (s *Store) CanonicalID(entity choices.EntityType, id string) string {
	table, err := s.table(entity)
	if err != nil || !table.IntegerKeys {
		return id
	}
	value, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return id
	}
	return strconv.FormatInt(value, 10)
}

func keyArg(table Table, id string) any {
	if !table.IntegerKeys {
		return id
	}
	value, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return id
	}
	return value
}

func numericOnly(ids []string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if _, err := strconv.ParseInt(id, 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}
