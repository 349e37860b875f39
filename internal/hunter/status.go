package hunter

import (
	"context"
	"time"

	"github.com/ruimartins/status-hunter-back/internal/domain"
	"github.com/ruimartins/status-hunter-back/internal/repository"
)

// FullStatus resolves the complete production status of one FO. A nil
// result means the FO does not exist; only remote failures are errors.
func (h *Hunter) FullStatus(ctx context.Context, foID string) (*domain.FOStatus, error) {
	ctx, cancel := h.callContext(ctx)
	defer cancel()

	rows, err := h.store.FullStatus(ctx, foID)
	if err != nil {
		return nil, domain.NewBackendError("Não foi possível obter o status completo da FO", err)
	}
	return buildFullStatus(rows), nil
}

// buildFullStatus folds the flat (item, logistics) rowset into the nested
// status tree. Items keep first-seen row order; logistics entries are
// deduplicated by id, and rows with a nil logistics id only establish the
// item.
func buildFullStatus(rows []repository.StatusRow) *domain.FOStatus {
	if len(rows) == 0 {
		return nil
	}

	header := rows[0]
	status := &domain.FOStatus{
		ID:        header.FOID,
		FONumber:  header.FONumber,
		NumeroORC: stringValue(header.NumeroORC),
		Cliente:   stringValue(header.Cliente),
		Campanha:  stringValue(header.Campanha),
		CreatedAt: header.CreatedAt,
		Items:     make([]domain.ItemStatus, 0),
	}

	itemIndex := make(map[string]int)
	seenLogistics := make(map[string]map[string]struct{})

	for _, row := range rows {
		index, ok := itemIndex[row.ItemID]
		if !ok {
			index = len(status.Items)
			itemIndex[row.ItemID] = index
			seenLogistics[row.ItemID] = make(map[string]struct{})
			status.Items = append(status.Items, domain.ItemStatus{
				ID:         row.ItemID,
				Descricao:  stringValue(row.Descricao),
				Quantidade: intValue(row.Quantidade),
				Designer:   buildDesignerStatus(row),
				Logistics:  make([]domain.LogisticsEntry, 0),
			})
		}

		if row.LogisticsID == nil {
			continue
		}
		if _, duplicate := seenLogistics[row.ItemID][*row.LogisticsID]; duplicate {
			continue
		}
		seenLogistics[row.ItemID][*row.LogisticsID] = struct{}{}

		status.Items[index].Logistics = append(status.Items[index].Logistics, domain.LogisticsEntry{
			ID:             *row.LogisticsID,
			Concluido:      boolValue(row.Concluido),
			Guia:           stringValue(row.Guia),
			Transportadora: stringValue(row.Transportadora),
			LocalEntrega:   stringValue(row.LocalEntrega),
			Quantidade:     intValue(row.QuantidadeEnviada),
			DataSaida:      row.DataSaida,
			DiasProducao:   intValue(row.DiasProducao),
		})
	}

	return status
}

// buildDesignerStatus reads the row-invariant designer columns of one item
// row. Any row of the item bucket works, they all repeat the same values.
func buildDesignerStatus(row repository.StatusRow) domain.DesignerStatus {
	steps := make(map[string]*time.Time, 18)
	for i, round := range row.Rounds {
		n := i + 1
		steps[stepKey("m", n)] = round.MaqueteDate
		steps[stepKey("a", n)] = round.AprovadaDate
		steps[stepKey("r", n)] = round.RejeitadaDate
	}

	return domain.DesignerStatus{
		Designer:      stringValue(row.Designer),
		Stage:         DeriveStage(row.Designer, row.Rounds, row.Paginacao),
		Steps:         steps,
		Paginacao:     row.Paginacao,
		PaginacaoDate: row.PaginacaoDate,
	}
}

func stepKey(prefix string, n int) string {
	return prefix + string(rune('0'+n))
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func intValue(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func boolValue(value *bool) bool {
	if value == nil {
		return false
	}
	return *value
}
