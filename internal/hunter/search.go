package hunter

import (
	"context"
	"strings"
	"time"

	"github.com/ruimartins/status-hunter-back/internal/cache"
	"github.com/ruimartins/status-hunter-back/internal/domain"
	"github.com/ruimartins/status-hunter-back/internal/repository"
)

const unknownLabel = "(desconhecido)"

// Hunter runs the guided-search operations on top of the remote store.
// It owns no state beyond an optional search-result cache.
type Hunter struct {
	store   repository.StatusStore
	cache   *cache.SearchCache
	timeout time.Duration
}

func New(store repository.StatusStore, searchCache *cache.SearchCache, timeout time.Duration) *Hunter {
	return &Hunter{
		store:   store,
		cache:   searchCache,
		timeout: timeout,
	}
}

// workOrderSearch binds the four header-scoped search types to their store
// scope and user-facing failure message.
type workOrderSearch struct {
	scope      repository.WorkOrderScope
	errMessage string
}

var workOrderSearches = map[domain.SearchType]workOrderSearch{
	domain.SearchTypeFO:       {repository.ScopeFO, "Não foi possível concluir a pesquisa por FO"},
	domain.SearchTypeORC:      {repository.ScopeORC, "Não foi possível concluir a pesquisa por ORC"},
	domain.SearchTypeCliente:  {repository.ScopeCliente, "Não foi possível concluir a pesquisa por cliente"},
	domain.SearchTypeCampanha: {repository.ScopeCampanha, "Não foi possível concluir a pesquisa por campanha"},
}

// Search dispatches one typed search and maps the rowset to matches.
func (h *Hunter) Search(
	ctx context.Context,
	searchType domain.SearchType,
	value string,
) ([]domain.Match, error) {
	pattern := LikePattern(value)

	if h.cache != nil {
		if matches, ok := h.cache.Get(string(searchType), pattern); ok {
			return matches, nil
		}
	}

	ctx, cancel := h.callContext(ctx)
	defer cancel()

	var (
		matches []domain.Match
		err     error
	)
	switch searchType {
	case domain.SearchTypeFO, domain.SearchTypeORC, domain.SearchTypeCliente, domain.SearchTypeCampanha:
		matches, err = h.searchWorkOrders(ctx, searchType, pattern)
	case domain.SearchTypeItem:
		matches, err = h.searchItems(ctx, pattern)
	case domain.SearchTypeGuia:
		matches, err = h.searchGuias(ctx, pattern)
	default:
		return nil, domain.ErrInvalidSearchType
	}
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		h.cache.Set(string(searchType), pattern, matches)
	}
	return matches, nil
}

func (h *Hunter) searchWorkOrders(
	ctx context.Context,
	searchType domain.SearchType,
	pattern string,
) ([]domain.Match, error) {
	search := workOrderSearches[searchType]
	rows, err := h.store.SearchWorkOrders(ctx, search.scope, pattern)
	if err != nil {
		return nil, domain.NewBackendError(search.errMessage, err)
	}

	matches := make([]domain.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, domain.Match{
			Type:  searchType,
			ID:    row.ID,
			Label: workOrderLabel(searchType, row),
			Meta: domain.MatchMeta{
				Cliente:    stringValue(row.Cliente),
				Campanha:   stringValue(row.Campanha),
				FONumber:   row.FONumber,
				NumeroORC:  stringValue(row.NumeroORC),
				TotalItems: intValue(row.TotalItems),
			},
		})
	}
	return matches, nil
}

func (h *Hunter) searchItems(ctx context.Context, pattern string) ([]domain.Match, error) {
	rows, err := h.store.SearchItems(ctx, pattern)
	if err != nil {
		return nil, domain.NewBackendError("Não foi possível concluir a pesquisa por item", err)
	}

	matches := make([]domain.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, domain.Match{
			Type:  domain.SearchTypeItem,
			ID:    row.ID,
			Label: fallback(stringValue(row.Descricao), unknownLabel),
			Meta: domain.MatchMeta{
				Cliente:  stringValue(row.Cliente),
				FONumber: stringValue(row.FONumber),
			},
		})
	}
	return matches, nil
}

func (h *Hunter) searchGuias(ctx context.Context, pattern string) ([]domain.Match, error) {
	rows, err := h.store.SearchGuias(ctx, pattern)
	if err != nil {
		return nil, domain.NewBackendError("Não foi possível concluir a pesquisa por guia", err)
	}

	matches := make([]domain.Match, 0, len(rows))
	for _, row := range rows {
		label := unknownLabel
		if guia := stringValue(row.Guia); guia != "" {
			label = "Guia " + guia
		}
		matches = append(matches, domain.Match{
			Type:  domain.SearchTypeGuia,
			ID:    row.ID,
			Label: label,
			Meta: domain.MatchMeta{
				Cliente:  stringValue(row.Cliente),
				FONumber: stringValue(row.FONumber),
			},
		})
	}
	return matches, nil
}

func workOrderLabel(searchType domain.SearchType, row repository.WorkOrderRow) string {
	switch searchType {
	case domain.SearchTypeFO:
		return "FO " + fallback(row.FONumber, unknownLabel)
	case domain.SearchTypeORC:
		return "ORC " + fallback(stringValue(row.NumeroORC), unknownLabel)
	case domain.SearchTypeCliente:
		return fallback(stringValue(row.Cliente), unknownLabel)
	default:
		return fallback(stringValue(row.Campanha), unknownLabel)
	}
}

// LikePattern escapes the LIKE metacharacters in the user's text and wraps
// it for case-insensitive substring matching. Literal % and _ must reach
// the remote procedures escaped, never as wildcards.
func LikePattern(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(value)) + "%"
}

func (h *Hunter) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}

func fallback(value, alt string) string {
	if strings.TrimSpace(value) == "" {
		return alt
	}
	return value
}
