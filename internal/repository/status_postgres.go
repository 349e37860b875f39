package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStatusStore calls the remote aggregation procedures. Schemas and
// SQL live on the database side; this layer only binds parameters and
// scans rowsets.
type PostgresStatusStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStatusStore(ctx context.Context, databaseURL string) (*PostgresStatusStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pg pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pg: %w", err)
	}
	return &PostgresStatusStore{pool: pool}, nil
}

func (s *PostgresStatusStore) Close() {
	s.pool.Close()
}

var workOrderProcs = map[WorkOrderScope]string{
	ScopeFO:       "search_fo",
	ScopeORC:      "search_orc",
	ScopeCliente:  "search_cliente",
	ScopeCampanha: "search_campanha",
}

func (s *PostgresStatusStore) SearchWorkOrders(
	ctx context.Context,
	scope WorkOrderScope,
	pattern string,
) ([]WorkOrderRow, error) {
	proc, ok := workOrderProcs[scope]
	if !ok {
		return nil, fmt.Errorf("unknown work order scope %q", scope)
	}

	query := fmt.Sprintf(`
		SELECT id, fo_number, numero_orc, cliente, campanha, created_at, total_items
		FROM %s($1)
	`, proc)
	rows, err := s.pool.Query(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", proc, err)
	}
	defer rows.Close()

	results := make([]WorkOrderRow, 0)
	for rows.Next() {
		var row WorkOrderRow
		if err := rows.Scan(
			&row.ID,
			&row.FONumber,
			&row.NumeroORC,
			&row.Cliente,
			&row.Campanha,
			&row.CreatedAt,
			&row.TotalItems,
		); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", proc, err)
		}
		results = append(results, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", proc, rows.Err())
	}
	return results, nil
}

func (s *PostgresStatusStore) SearchItems(ctx context.Context, pattern string) ([]ItemRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, descricao, codigo, quantidade, fo_number, cliente
		FROM search_item($1)
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("query search_item: %w", err)
	}
	defer rows.Close()

	results := make([]ItemRow, 0)
	for rows.Next() {
		var row ItemRow
		if err := rows.Scan(
			&row.ID,
			&row.Descricao,
			&row.Codigo,
			&row.Quantidade,
			&row.FONumber,
			&row.Cliente,
		); err != nil {
			return nil, fmt.Errorf("scan search_item row: %w", err)
		}
		results = append(results, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate search_item rows: %w", rows.Err())
	}
	return results, nil
}

func (s *PostgresStatusStore) SearchGuias(ctx context.Context, pattern string) ([]GuiaRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, guia, transportadora, local_entrega, saiu, data_saida, item, fo_number, cliente
		FROM search_guia($1)
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("query search_guia: %w", err)
	}
	defer rows.Close()

	results := make([]GuiaRow, 0)
	for rows.Next() {
		var row GuiaRow
		if err := rows.Scan(
			&row.ID,
			&row.Guia,
			&row.Transportadora,
			&row.LocalEntrega,
			&row.Saiu,
			&row.DataSaida,
			&row.Item,
			&row.FONumber,
			&row.Cliente,
		); err != nil {
			return nil, fmt.Errorf("scan search_guia row: %w", err)
		}
		results = append(results, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate search_guia rows: %w", rows.Err())
	}
	return results, nil
}

func (s *PostgresStatusStore) FullStatus(ctx context.Context, foID string) ([]StatusRow, error) {
	rows, err := s.pool.Query(ctx, fullStatusQuery(), foID)
	if err != nil {
		return nil, fmt.Errorf("query full_status: %w", err)
	}
	defer rows.Close()

	results := make([]StatusRow, 0)
	for rows.Next() {
		var row StatusRow
		dests := []any{
			&row.FOID,
			&row.FONumber,
			&row.NumeroORC,
			&row.Cliente,
			&row.Campanha,
			&row.CreatedAt,
			&row.ItemID,
			&row.Descricao,
			&row.Quantidade,
			&row.Designer,
		}
		for i := range row.Rounds {
			round := &row.Rounds[i]
			dests = append(dests,
				&round.Maquete, &round.MaqueteDate,
				&round.Aprovada, &round.AprovadaDate,
				&round.Rejeitada, &round.RejeitadaDate,
			)
		}
		dests = append(dests,
			&row.Paginacao,
			&row.PaginacaoDate,
			&row.LogisticsID,
			&row.Concluido,
			&row.Guia,
			&row.Transportadora,
			&row.LocalEntrega,
			&row.QuantidadeEnviada,
			&row.DataSaida,
			&row.DiasProducao,
		)
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scan full_status row: %w", err)
		}
		results = append(results, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate full_status rows: %w", rows.Err())
	}
	return results, nil
}

// fullStatusQuery lists the denormalized full_status columns explicitly so
// scan order never depends on the procedure's column order.
func fullStatusQuery() string {
	var columns strings.Builder
	columns.WriteString("fo_id, fo_number, numero_orc, cliente, campanha, created_at, ")
	columns.WriteString("item_id, descricao, quantidade, designer, ")
	for n := 1; n <= 6; n++ {
		fmt.Fprintf(&columns, "m%d, data_m%d, a%d, data_a%d, r%d, data_r%d, ", n, n, n, n, n, n)
	}
	columns.WriteString("paginacao, data_paginacao, ")
	columns.WriteString("logistics_id, concluido, guia, transportadora, local_entrega, ")
	columns.WriteString("quantidade_enviada, data_saida, dias_producao")

	return "SELECT " + columns.String() + " FROM full_status($1)"
}
