package hunter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ruimartins/status-hunter-back/internal/cache"
	"github.com/ruimartins/status-hunter-back/internal/domain"
	"github.com/ruimartins/status-hunter-back/internal/repository"
)

type fakeStore struct {
	lastScope   repository.WorkOrderScope
	lastPattern string
	searchCalls int

	workOrders []repository.WorkOrderRow
	items      []repository.ItemRow
	guias      []repository.GuiaRow
	err        error
}

func (s *fakeStore) SearchWorkOrders(
	_ context.Context,
	scope repository.WorkOrderScope,
	pattern string,
) ([]repository.WorkOrderRow, error) {
	s.searchCalls++
	s.lastScope = scope
	s.lastPattern = pattern
	return s.workOrders, s.err
}

func (s *fakeStore) SearchItems(_ context.Context, pattern string) ([]repository.ItemRow, error) {
	s.searchCalls++
	s.lastPattern = pattern
	return s.items, s.err
}

func (s *fakeStore) SearchGuias(_ context.Context, pattern string) ([]repository.GuiaRow, error) {
	s.searchCalls++
	s.lastPattern = pattern
	return s.guias, s.err
}

func (s *fakeStore) FullStatus(_ context.Context, _ string) ([]repository.StatusRow, error) {
	return nil, s.err
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"12345":     "%12345%",
		"50%":       `%50\%%`,
		"a_b":       `%a\_b%`,
		`c\d`:       `%c\\d%`,
		" spaced ":  "%spaced%",
		"100%_done": `%100\%\_done%`,
	}
	for input, expected := range cases {
		if got := LikePattern(input); got != expected {
			t.Fatalf("LikePattern(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestSearchSendsEscapedPatternForEveryType(t *testing.T) {
	store := &fakeStore{}
	h := New(store, nil, 0)

	for _, searchType := range domain.SearchTypes {
		if _, err := h.Search(context.Background(), searchType, "50%_off"); err != nil {
			t.Fatalf("search %s failed: %v", searchType, err)
		}
		if store.lastPattern != `%50\%\_off%` {
			t.Fatalf("search %s sent pattern %q, expected escaped wildcards", searchType, store.lastPattern)
		}
	}
}

func TestSearchDispatchesWorkOrderScopes(t *testing.T) {
	store := &fakeStore{}
	h := New(store, nil, 0)

	scopes := map[domain.SearchType]repository.WorkOrderScope{
		domain.SearchTypeFO:       repository.ScopeFO,
		domain.SearchTypeORC:      repository.ScopeORC,
		domain.SearchTypeCliente:  repository.ScopeCliente,
		domain.SearchTypeCampanha: repository.ScopeCampanha,
	}
	for searchType, scope := range scopes {
		if _, err := h.Search(context.Background(), searchType, "abc"); err != nil {
			t.Fatalf("search %s failed: %v", searchType, err)
		}
		if store.lastScope != scope {
			t.Fatalf("search %s used scope %q, expected %q", searchType, store.lastScope, scope)
		}
	}
}

func TestSearchBuildsLabelsWithFallbacks(t *testing.T) {
	store := &fakeStore{
		workOrders: []repository.WorkOrderRow{
			{ID: "fo-1", FONumber: "12345", Cliente: strPtr("Tipografia Central"), TotalItems: intPtr(3)},
		},
		items: []repository.ItemRow{
			{ID: "fo-2", FONumber: strPtr("777")},
		},
		guias: []repository.GuiaRow{
			{ID: "fo-3"},
		},
	}
	h := New(store, nil, 0)

	foMatches, err := h.Search(context.Background(), domain.SearchTypeFO, "123")
	if err != nil {
		t.Fatalf("fo search failed: %v", err)
	}
	if len(foMatches) != 1 || foMatches[0].Label != "FO 12345" {
		t.Fatalf("unexpected fo matches: %+v", foMatches)
	}
	if foMatches[0].Type != domain.SearchTypeFO || foMatches[0].Meta.TotalItems != 3 {
		t.Fatalf("unexpected fo match metadata: %+v", foMatches[0])
	}

	itemMatches, err := h.Search(context.Background(), domain.SearchTypeItem, "x")
	if err != nil {
		t.Fatalf("item search failed: %v", err)
	}
	if itemMatches[0].Label != "(desconhecido)" {
		t.Fatalf("expected unknown label for item without description, got %q", itemMatches[0].Label)
	}

	guiaMatches, err := h.Search(context.Background(), domain.SearchTypeGuia, "x")
	if err != nil {
		t.Fatalf("guia search failed: %v", err)
	}
	if guiaMatches[0].Label != "(desconhecido)" {
		t.Fatalf("expected unknown label for guia without number, got %q", guiaMatches[0].Label)
	}
}

func TestSearchTranslatesBackendErrors(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused to db.internal:5432")}
	h := New(store, nil, 0)

	_, err := h.Search(context.Background(), domain.SearchTypeFO, "123")
	if err == nil {
		t.Fatalf("expected error from failing store")
	}

	var backendErr *domain.BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %T: %v", err, err)
	}
	if backendErr.Message != "Não foi possível concluir a pesquisa por FO" {
		t.Fatalf("unexpected user message: %q", backendErr.Message)
	}
	if message := domain.UserMessage(err); message != backendErr.Message {
		t.Fatalf("UserMessage leaked infrastructure detail: %q", message)
	}
}

func TestSearchRejectsUnknownType(t *testing.T) {
	h := New(&fakeStore{}, nil, 0)

	_, err := h.Search(context.Background(), domain.SearchType("faturas"), "123")
	if !errors.Is(err, domain.ErrInvalidSearchType) {
		t.Fatalf("expected ErrInvalidSearchType, got %v", err)
	}
}

func TestSearchUsesCacheForRepeatedQueries(t *testing.T) {
	store := &fakeStore{
		workOrders: []repository.WorkOrderRow{{ID: "fo-1", FONumber: "12345"}},
	}
	searchCache := cache.NewSearchCache(cache.Config{TTL: time.Minute, MaxEntries: 10})
	h := New(store, searchCache, 0)

	for i := 0; i < 3; i++ {
		matches, err := h.Search(context.Background(), domain.SearchTypeFO, "123")
		if err != nil {
			t.Fatalf("search %d failed: %v", i, err)
		}
		if len(matches) != 1 {
			t.Fatalf("search %d returned %d matches", i, len(matches))
		}
	}
	if store.searchCalls != 1 {
		t.Fatalf("expected one store call with warm cache, got %d", store.searchCalls)
	}
}
