package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/ruimartins/status-hunter-back/internal/domain"
	"github.com/ruimartins/status-hunter-back/internal/hunter"
	"github.com/ruimartins/status-hunter-back/internal/repository"
)

func strPtr(value string) *string {
	return &value
}

func seededStore() *repository.MemoryStatusStore {
	store := repository.NewMemoryStatusStore()
	store.AddWorkOrder(repository.WorkOrderRow{
		ID:       "fo-1",
		FONumber: "12345",
		Cliente:  strPtr("Tipografia Central"),
	})
	store.AddWorkOrder(repository.WorkOrderRow{
		ID:       "fo-2",
		FONumber: "12399",
		Cliente:  strPtr("Tipografia Central"),
	})
	store.AddStatusRows("fo-1", []repository.StatusRow{{
		FOID:      "fo-1",
		FONumber:  "12345",
		Cliente:   strPtr("Tipografia Central"),
		ItemID:    "item-1",
		Descricao: strPtr("Cartaz A2"),
		Designer:  strPtr("Marta"),
	}})
	return store
}

func newTestMachine(store repository.StatusStore, autoAdvance bool) *Machine {
	return NewMachine(hunter.New(store, nil, 0), autoAdvance)
}

type failingStore struct{}

func (failingStore) SearchWorkOrders(
	_ context.Context,
	_ repository.WorkOrderScope,
	_ string,
) ([]repository.WorkOrderRow, error) {
	return nil, errors.New("timeout dialing db.internal:5432")
}

func (failingStore) SearchItems(_ context.Context, _ string) ([]repository.ItemRow, error) {
	return nil, errors.New("timeout dialing db.internal:5432")
}

func (failingStore) SearchGuias(_ context.Context, _ string) ([]repository.GuiaRow, error) {
	return nil, errors.New("timeout dialing db.internal:5432")
}

func (failingStore) FullStatus(_ context.Context, _ string) ([]repository.StatusRow, error) {
	return nil, errors.New("timeout dialing db.internal:5432")
}

func TestMachineZeroResultsLandsInErrorPhase(t *testing.T) {
	machine := newTestMachine(seededStore(), false)
	session := NewSession("s1")

	if err := machine.ChooseType(session, domain.SearchTypeFO); err != nil {
		t.Fatalf("choose type failed: %v", err)
	}
	if err := machine.SubmitValue(context.Background(), session, "99999"); err != nil {
		t.Fatalf("submit value failed: %v", err)
	}

	if session.State.Phase != PhaseError {
		t.Fatalf("expected error phase for zero results, got %q", session.State.Phase)
	}
	if session.State.Message != msgNoResults {
		t.Fatalf("unexpected message: %q", session.State.Message)
	}
	if len(session.State.Matches) != 0 {
		t.Fatalf("expected no matches in error state, got %d", len(session.State.Matches))
	}
}

func TestMachineGuidedSearchHappyPath(t *testing.T) {
	machine := newTestMachine(seededStore(), false)
	session := NewSession("s1")

	if err := machine.ChooseType(session, domain.SearchTypeFO); err != nil {
		t.Fatalf("choose type failed: %v", err)
	}
	if session.State.Phase != PhaseAskValue || session.State.SearchType != domain.SearchTypeFO {
		t.Fatalf("unexpected state after choose type: %+v", session.State)
	}

	if err := machine.SubmitValue(context.Background(), session, "123"); err != nil {
		t.Fatalf("submit value failed: %v", err)
	}
	if session.State.Phase != PhaseChooseMatch {
		t.Fatalf("expected choose_match, got %q", session.State.Phase)
	}
	if len(session.State.Matches) != 2 {
		t.Fatalf("expected two matches, got %d", len(session.State.Matches))
	}

	if err := machine.ChooseMatch(context.Background(), session, 0); err != nil {
		t.Fatalf("choose match failed: %v", err)
	}
	if session.State.Phase != PhaseShowStatus {
		t.Fatalf("expected show_status, got %q", session.State.Phase)
	}
	if session.State.Status == nil || session.State.Status.FONumber != "12345" {
		t.Fatalf("unexpected status payload: %+v", session.State.Status)
	}
}

func TestMachineAutoAdvanceOnSingleMatch(t *testing.T) {
	machine := newTestMachine(seededStore(), true)
	session := NewSession("s1")

	if err := machine.ChooseType(session, domain.SearchTypeFO); err != nil {
		t.Fatalf("choose type failed: %v", err)
	}
	if err := machine.SubmitValue(context.Background(), session, "12345"); err != nil {
		t.Fatalf("submit value failed: %v", err)
	}

	if session.State.Phase != PhaseShowStatus {
		t.Fatalf("expected auto-advance to show_status, got %q", session.State.Phase)
	}
	if session.State.Status == nil || session.State.Status.ID != "fo-1" {
		t.Fatalf("unexpected status payload: %+v", session.State.Status)
	}
}

func TestMachineChosenMatchWithoutStatusRows(t *testing.T) {
	machine := newTestMachine(seededStore(), false)
	session := NewSession("s1")

	if err := machine.ChooseType(session, domain.SearchTypeFO); err != nil {
		t.Fatalf("choose type failed: %v", err)
	}
	if err := machine.SubmitValue(context.Background(), session, "123"); err != nil {
		t.Fatalf("submit value failed: %v", err)
	}
	// fo-2 has matches but no full-status rows.
	if err := machine.ChooseMatch(context.Background(), session, 1); err != nil {
		t.Fatalf("choose match failed: %v", err)
	}

	if session.State.Phase != PhaseError {
		t.Fatalf("expected error phase, got %q", session.State.Phase)
	}
	if session.State.Message != msgFONotFound {
		t.Fatalf("unexpected message: %q", session.State.Message)
	}
}

func TestMachineBackendFailureBecomesErrorState(t *testing.T) {
	machine := newTestMachine(failingStore{}, false)
	session := NewSession("s1")

	if err := machine.ChooseType(session, domain.SearchTypeFO); err != nil {
		t.Fatalf("choose type failed: %v", err)
	}
	if err := machine.SubmitValue(context.Background(), session, "123"); err != nil {
		t.Fatalf("submit value should capture backend failure in state, got: %v", err)
	}

	if session.State.Phase != PhaseError {
		t.Fatalf("expected error phase, got %q", session.State.Phase)
	}
	if session.State.Message != "Não foi possível concluir a pesquisa por FO" {
		t.Fatalf("expected translated message, got %q", session.State.Message)
	}
}

func TestMachineRestartClearsResidualState(t *testing.T) {
	machine := newTestMachine(seededStore(), true)
	session := NewSession("s1")

	if err := machine.ChooseType(session, domain.SearchTypeFO); err != nil {
		t.Fatalf("choose type failed: %v", err)
	}
	if err := machine.SubmitValue(context.Background(), session, "12345"); err != nil {
		t.Fatalf("submit value failed: %v", err)
	}
	if session.State.Phase != PhaseShowStatus {
		t.Fatalf("expected show_status before restart, got %q", session.State.Phase)
	}

	if err := machine.Restart(session); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if session.State.Phase != PhaseAskType {
		t.Fatalf("expected ask_type after restart, got %q", session.State.Phase)
	}
	if session.State.Status != nil || session.State.Matches != nil ||
		session.State.Value != "" || session.State.SearchType != "" {
		t.Fatalf("expected residual data cleared, got %+v", session.State)
	}
}

func TestMachineRestartFromErrorPhase(t *testing.T) {
	machine := newTestMachine(seededStore(), false)
	session := NewSession("s1")

	if err := machine.ChooseType(session, domain.SearchTypeFO); err != nil {
		t.Fatalf("choose type failed: %v", err)
	}
	if err := machine.SubmitValue(context.Background(), session, "99999"); err != nil {
		t.Fatalf("submit value failed: %v", err)
	}
	if session.State.Phase != PhaseError {
		t.Fatalf("expected error phase, got %q", session.State.Phase)
	}

	if err := machine.Restart(session); err != nil {
		t.Fatalf("restart from error failed: %v", err)
	}
	if session.State.Phase != PhaseAskType || session.State.Message != "" {
		t.Fatalf("expected clean ask_type state, got %+v", session.State)
	}
}

func TestMachineRejectsOutOfOrderActions(t *testing.T) {
	machine := newTestMachine(seededStore(), false)
	session := NewSession("s1")

	if err := machine.SubmitValue(context.Background(), session, "123"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for submit at ask_type, got %v", err)
	}
	if err := machine.ChooseMatch(context.Background(), session, 0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for choose at ask_type, got %v", err)
	}
	if err := machine.Restart(session); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for restart at ask_type, got %v", err)
	}

	if err := machine.ChooseType(session, domain.SearchTypeFO); err != nil {
		t.Fatalf("choose type failed: %v", err)
	}
	if err := machine.ChooseType(session, domain.SearchTypeORC); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for double choose type, got %v", err)
	}
	if err := machine.SubmitValue(context.Background(), session, "   "); !errors.Is(err, ErrEmptyValue) {
		t.Fatalf("expected ErrEmptyValue, got %v", err)
	}
	if session.State.Phase != PhaseAskValue {
		t.Fatalf("expected to remain in ask_value after empty value, got %q", session.State.Phase)
	}
}

func TestMachineRejectsOutOfRangeChoice(t *testing.T) {
	machine := newTestMachine(seededStore(), false)
	session := NewSession("s1")

	if err := machine.ChooseType(session, domain.SearchTypeFO); err != nil {
		t.Fatalf("choose type failed: %v", err)
	}
	if err := machine.SubmitValue(context.Background(), session, "123"); err != nil {
		t.Fatalf("submit value failed: %v", err)
	}

	if err := machine.ChooseMatch(context.Background(), session, 5); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
	if err := machine.ChooseMatch(context.Background(), session, -1); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice for negative index, got %v", err)
	}
	if session.State.Phase != PhaseChooseMatch {
		t.Fatalf("expected to remain in choose_match, got %q", session.State.Phase)
	}
}
