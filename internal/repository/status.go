package repository

import (
	"context"
	"strings"
	"sync"
	"time"
)

// WorkOrderScope selects which remote search procedure a work-order scoped
// search hits. Each scope matches against a different header field.
type WorkOrderScope string

const (
	ScopeFO       WorkOrderScope = "fo"
	ScopeORC      WorkOrderScope = "orc"
	ScopeCliente  WorkOrderScope = "cliente"
	ScopeCampanha WorkOrderScope = "campanha"
)

// WorkOrderRow is the shared rowset shape of the four work-order searches.
type WorkOrderRow struct {
	ID         string
	FONumber   string
	NumeroORC  *string
	Cliente    *string
	Campanha   *string
	CreatedAt  *time.Time
	TotalItems *int
}

type ItemRow struct {
	ID         string
	Descricao  *string
	Codigo     *string
	Quantidade *int
	FONumber   *string
	Cliente    *string
}

type GuiaRow struct {
	ID             string
	Guia           *string
	Transportadora *string
	LocalEntrega   *string
	Saiu           *bool
	DataSaida      *time.Time
	Item           *string
	FONumber       *string
	Cliente        *string
}

// DesignRound is one propose/approve/reject cycle of the design workflow.
// The remote rowset encodes the six rounds as flat m/a/r columns; stores
// fold them into this shape when scanning.
type DesignRound struct {
	Maquete       bool
	MaqueteDate   *time.Time
	Aprovada      bool
	AprovadaDate  *time.Time
	Rejeitada     bool
	RejeitadaDate *time.Time
}

// StatusRow is one denormalized full-status row: one (item, logistics)
// pair with the FO header and designer columns repeated on every row.
// LogisticsID nil means the item has no shipment on this row.
type StatusRow struct {
	FOID      string
	FONumber  string
	NumeroORC *string
	Cliente   *string
	Campanha  *string
	CreatedAt *time.Time

	ItemID     string
	Descricao  *string
	Quantidade *int

	Designer      *string
	Rounds        [6]DesignRound
	Paginacao     bool
	PaginacaoDate *time.Time

	LogisticsID       *string
	Concluido         *bool
	Guia              *string
	Transportadora    *string
	LocalEntrega      *string
	QuantidadeEnviada *int
	DataSaida         *time.Time
	DiasProducao      *int
}

// StatusStore abstracts the remote aggregation procedures. Search patterns
// arrive already escaped and wrapped for case-insensitive substring match.
type StatusStore interface {
	SearchWorkOrders(ctx context.Context, scope WorkOrderScope, pattern string) ([]WorkOrderRow, error)
	SearchItems(ctx context.Context, pattern string) ([]ItemRow, error)
	SearchGuias(ctx context.Context, pattern string) ([]GuiaRow, error)
	FullStatus(ctx context.Context, foID string) ([]StatusRow, error)
}

// MemoryStatusStore serves fixtures for local development and tests.
type MemoryStatusStore struct {
	mu         sync.RWMutex
	workOrders []WorkOrderRow
	items      []ItemRow
	guias      []GuiaRow
	statusRows map[string][]StatusRow
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{
		statusRows: make(map[string][]StatusRow),
	}
}

func (s *MemoryStatusStore) AddWorkOrder(row WorkOrderRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workOrders = append(s.workOrders, row)
}

func (s *MemoryStatusStore) AddItem(row ItemRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, row)
}

func (s *MemoryStatusStore) AddGuia(row GuiaRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guias = append(s.guias, row)
}

func (s *MemoryStatusStore) AddStatusRows(foID string, rows []StatusRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusRows[foID] = append(s.statusRows[foID], rows...)
}

func (s *MemoryStatusStore) SearchWorkOrders(
	_ context.Context,
	scope WorkOrderScope,
	pattern string,
) ([]WorkOrderRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := patternNeedle(pattern)
	results := make([]WorkOrderRow, 0)
	for _, row := range s.workOrders {
		var field string
		switch scope {
		case ScopeFO:
			field = row.FONumber
		case ScopeORC:
			field = deref(row.NumeroORC)
		case ScopeCliente:
			field = deref(row.Cliente)
		case ScopeCampanha:
			field = deref(row.Campanha)
		}
		if containsFold(field, needle) {
			results = append(results, row)
		}
	}
	return results, nil
}

func (s *MemoryStatusStore) SearchItems(_ context.Context, pattern string) ([]ItemRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := patternNeedle(pattern)
	results := make([]ItemRow, 0)
	for _, row := range s.items {
		if containsFold(deref(row.Descricao), needle) || containsFold(deref(row.Codigo), needle) {
			results = append(results, row)
		}
	}
	return results, nil
}

func (s *MemoryStatusStore) SearchGuias(_ context.Context, pattern string) ([]GuiaRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := patternNeedle(pattern)
	results := make([]GuiaRow, 0)
	for _, row := range s.guias {
		if containsFold(deref(row.Guia), needle) {
			results = append(results, row)
		}
	}
	return results, nil
}

func (s *MemoryStatusStore) FullStatus(_ context.Context, foID string) ([]StatusRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.statusRows[foID]
	clone := make([]StatusRow, len(rows))
	copy(clone, rows)
	return clone, nil
}

// patternNeedle reverses the LIKE encoding applied by the search layer so
// the in-memory matcher treats wildcards as the literals the user typed.
func patternNeedle(pattern string) string {
	trimmed := strings.TrimPrefix(pattern, "%")
	trimmed = strings.TrimSuffix(trimmed, "%")
	replacer := strings.NewReplacer(`\%`, "%", `\_`, "_", `\\`, `\`)
	return replacer.Replace(trimmed)
}

func containsFold(value, needle string) bool {
	if value == "" {
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
