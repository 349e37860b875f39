package chat

import (
	"time"

	"github.com/ruimartins/status-hunter-back/internal/domain"
)

type Phase string

const (
	PhaseAskType     Phase = "ask_type"
	PhaseAskValue    Phase = "ask_value"
	PhaseSearching   Phase = "searching"
	PhaseChooseMatch Phase = "choose_match"
	PhaseShowStatus  Phase = "show_status"
	PhaseError       Phase = "error"
)

// State is the discriminated record of one conversation turn. Exactly one
// phase is active; only the fields of that phase are populated.
type State struct {
	Phase      Phase             `json:"phase"`
	SearchType domain.SearchType `json:"search_type,omitempty"`
	Value      string            `json:"value,omitempty"`
	Matches    []domain.Match    `json:"matches,omitempty"`
	Status     *domain.FOStatus  `json:"status,omitempty"`
	Message    string            `json:"message,omitempty"`
}

// Session is the single piece of state the conversational layer owns.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		State:     State{Phase: PhaseAskType},
		UpdatedAt: time.Now().UTC(),
	}
}
