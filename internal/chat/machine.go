package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ruimartins/status-hunter-back/internal/domain"
	"github.com/ruimartins/status-hunter-back/internal/hunter"
)

var (
	ErrInvalidTransition = errors.New("ação não permitida no estado atual")
	ErrInvalidChoice     = errors.New("opção de resultado inválida")
	ErrEmptyValue        = errors.New("indique um valor para pesquisar")
)

const (
	msgNoResults  = "Nenhum resultado encontrado"
	msgFONotFound = "FO não encontrada"
)

// Machine applies the guided-search transitions to a session. Transition
// errors mean the caller issued an action the current phase does not
// accept; backend failures never surface as errors here, they land the
// session in the error phase with a user-facing message.
type Machine struct {
	hunter      *hunter.Hunter
	autoAdvance bool
}

// NewMachine builds a machine. autoAdvance jumps straight to show_status
// when a search returns exactly one match.
func NewMachine(h *hunter.Hunter, autoAdvance bool) *Machine {
	return &Machine{hunter: h, autoAdvance: autoAdvance}
}

// ChooseType moves ask_type → ask_value.
func (m *Machine) ChooseType(session *Session, searchType domain.SearchType) error {
	if session.State.Phase != PhaseAskType {
		return ErrInvalidTransition
	}
	if _, ok := domain.ParseSearchType(string(searchType)); !ok {
		return domain.ErrInvalidSearchType
	}

	session.State = State{Phase: PhaseAskValue, SearchType: searchType}
	touch(session)
	return nil
}

// SubmitValue moves ask_value → searching and resolves the search outcome
// in the same call: choose_match, show_status (single match with
// auto-advance on) or error.
func (m *Machine) SubmitValue(ctx context.Context, session *Session, value string) error {
	if session.State.Phase != PhaseAskValue {
		return ErrInvalidTransition
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ErrEmptyValue
	}

	searchType := session.State.SearchType
	session.State = State{Phase: PhaseSearching, SearchType: searchType, Value: trimmed}

	matches, err := m.hunter.Search(ctx, searchType, trimmed)
	if err != nil {
		m.fail(session, domain.UserMessage(err))
		return nil
	}
	if len(matches) == 0 {
		m.fail(session, msgNoResults)
		return nil
	}
	if len(matches) == 1 && m.autoAdvance {
		m.resolveStatus(ctx, session, matches[0])
		return nil
	}

	session.State = State{
		Phase:      PhaseChooseMatch,
		SearchType: searchType,
		Value:      trimmed,
		Matches:    matches,
	}
	touch(session)
	return nil
}

// ChooseMatch moves choose_match → show_status or error.
func (m *Machine) ChooseMatch(ctx context.Context, session *Session, index int) error {
	if session.State.Phase != PhaseChooseMatch {
		return ErrInvalidTransition
	}
	if index < 0 || index >= len(session.State.Matches) {
		return ErrInvalidChoice
	}

	m.resolveStatus(ctx, session, session.State.Matches[index])
	return nil
}

// Restart returns a terminal session (show_status or error) to ask_type,
// dropping every residual match and status payload.
func (m *Machine) Restart(session *Session) error {
	if session.State.Phase != PhaseShowStatus && session.State.Phase != PhaseError {
		return ErrInvalidTransition
	}
	session.State = State{Phase: PhaseAskType}
	touch(session)
	return nil
}

func (m *Machine) resolveStatus(ctx context.Context, session *Session, match domain.Match) {
	status, err := m.hunter.FullStatus(ctx, match.ID)
	if err != nil {
		m.fail(session, domain.UserMessage(err))
		return
	}
	if status == nil {
		m.fail(session, msgFONotFound)
		return
	}

	session.State = State{Phase: PhaseShowStatus, Status: status}
	touch(session)
}

func (m *Machine) fail(session *Session, message string) {
	session.State = State{Phase: PhaseError, Message: message}
	touch(session)
}

func touch(session *Session) {
	session.UpdatedAt = time.Now().UTC()
}
