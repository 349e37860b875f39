package hunter

import (
	"fmt"
	"strings"

	"github.com/ruimartins/status-hunter-back/internal/repository"
)

// DeriveStage computes the human-readable design stage from the round
// flags. Rounds are scanned newest first (6 down to 1) because a rejection
// at round n may already have a round n+1 maquete in flight, and earlier
// rounds keep stale sent flags from previous cycles. Within a round,
// approval wins over rejection, rejection over a pending maquete.
func DeriveStage(designer *string, rounds [6]repository.DesignRound, paginacao bool) string {
	for i := len(rounds) - 1; i >= 0; i-- {
		round := rounds[i]
		n := i + 1

		if round.Aprovada {
			if paginacao {
				return fmt.Sprintf("Aprovada e paginada (A%d)", n)
			}
			return fmt.Sprintf("Aprovação A%d recebida, aguarda paginação", n)
		}
		if round.Rejeitada {
			if i+1 < len(rounds) && rounds[i+1].Maquete {
				return fmt.Sprintf("Rejeitada (R%d), M%d enviada", n, n+1)
			}
			return fmt.Sprintf("Rejeitada (R%d), aguarda nova maquete", n)
		}
		// A maquete answering the previous round's rejection is reported
		// from that rejection's perspective one iteration later.
		if round.Maquete && (i == 0 || !rounds[i-1].Rejeitada) {
			return fmt.Sprintf("Maquete M%d enviada, aguarda aprovação", n)
		}
	}

	if designer == nil || strings.TrimSpace(*designer) == "" {
		return "Sem designer atribuído"
	}
	return "Em preparação de maquete"
}
