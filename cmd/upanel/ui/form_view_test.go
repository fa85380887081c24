package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"upanel/internal/api"
	"upanel/internal/form"
	"upanel/internal/model"
)

func newTestRecordForm(t *testing.T) RecordForm {
	t.Helper()
	deps := testDeps(t)
	submit := func(ctx context.Context, record model.User) error { return nil }
	return NewRecordForm(form.New(submit), submit, deps, NewStyles(LightTheme()))
}

func fieldIndex(t *testing.T, target form.Field) int {
	t.Helper()
	for i, f := range form.Fields {
		if f == target {
			return i
		}
	}
	t.Fatalf("unknown field %v", target)
	return -1
}

func TestSubmitWithEmptyNameFocusesAndToasts(t *testing.T) {
	f := newTestRecordForm(t)

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if f.Saving() {
		t.Fatalf("expected no submission with an invalid form")
	}
	if cmd == nil {
		t.Fatalf("expected a toast command")
	}
	toast, ok := cmd().(showToastMsg)
	if !ok || !strings.Contains(toast.text, "O campo NOME é obrigatório!") {
		t.Fatalf("expected required-name notice, got %#v", cmd())
	}
	if form.Fields[f.focus] != form.FieldNome {
		t.Fatalf("expected focus moved to the name field")
	}
	if _, ok := f.wf.FieldError(form.FieldNome); !ok {
		t.Fatalf("expected inline error on the name field")
	}
}

func TestTypingMirrorsIntoWorkflow(t *testing.T) {
	f := newTestRecordForm(t)

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Maria")})

	if got := f.wf.Value(form.FieldNome); got != "Maria" {
		t.Fatalf("expected workflow to track the input, got %q", got)
	}
}

func TestCreateSuccessResetsForm(t *testing.T) {
	f := newTestRecordForm(t)
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Maria")})
	f.saving = true

	f, cmd := f.Update(saveResultMsg{editing: false})

	if f.Saving() {
		t.Fatalf("expected saving cleared after success")
	}
	if cmd == nil {
		t.Fatalf("expected success toast and saved notification")
	}
	if got := f.inputs[fieldIndex(t, form.FieldNome)].Value(); got != "" {
		t.Fatalf("expected inputs blanked after create, got %q", got)
	}
	if got := f.wf.Value(form.FieldNome); got != "" {
		t.Fatalf("expected workflow blanked after create, got %q", got)
	}
}

func TestSaveFailureClearsSavingAndKeepsValues(t *testing.T) {
	f := newTestRecordForm(t)
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Maria")})
	f.saving = true

	f, cmd := f.Update(saveResultMsg{editing: false, err: errors.New("500")})

	if f.Saving() {
		t.Fatalf("expected saving cleared after failure")
	}
	if got := f.wf.Value(form.FieldNome); got != "Maria" {
		t.Fatalf("expected values kept after failure, got %q", got)
	}
	toast, ok := cmd().(showToastMsg)
	if !ok || !strings.Contains(toast.text, "Não foi possível cadastrar") {
		t.Fatalf("expected create failure toast, got %#v", cmd())
	}
}

func TestUpdateFailureToastMentionsUpdate(t *testing.T) {
	f := newTestRecordForm(t)
	f.saving = true

	_, cmd := f.Update(saveResultMsg{editing: true, err: errors.New("500")})

	toast, ok := cmd().(showToastMsg)
	if !ok || !strings.Contains(toast.text, "Não foi possível atualizar") {
		t.Fatalf("expected update failure toast, got %#v", cmd())
	}
}

func TestKeysIgnoredWhileSaving(t *testing.T) {
	f := newTestRecordForm(t)
	f.saving = true

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	if got := f.inputs[0].Value(); got != "" {
		t.Fatalf("expected edits ignored while saving, got %q", got)
	}
}

func TestLookupFillsAddressAndFocusesNumero(t *testing.T) {
	f := newTestRecordForm(t)

	needLookup := f.wf.Set(form.FieldCEP, "04538-133")
	if !needLookup {
		t.Fatalf("expected a complete postal code to request a lookup")
	}
	rev := f.wf.Revision()

	addr := api.Address{
		CEP:    "04538-133",
		Rua:    "Av. Brigadeiro Faria Lima",
		Bairro: "Itaim Bibi",
		Cidade: "São Paulo",
	}
	f, _ = f.Update(cepLookupMsg{addr: addr, rev: rev})

	if f.cepLoading {
		t.Fatalf("expected lookup spinner cleared")
	}
	if got := f.inputs[fieldIndex(t, form.FieldCidade)].Value(); got != "São Paulo" {
		t.Fatalf("expected cidade autofilled, got %q", got)
	}
	if got := f.inputs[fieldIndex(t, form.FieldRua)].Value(); got != "Av. Brigadeiro Faria Lima" {
		t.Fatalf("expected rua autofilled, got %q", got)
	}
	if form.Fields[f.focus] != form.FieldNumero {
		t.Fatalf("expected focus on número after autofill")
	}
}

func TestStaleLookupDoesNotOverwriteEdits(t *testing.T) {
	f := newTestRecordForm(t)

	f.wf.Set(form.FieldCEP, "04538133")
	rev := f.wf.Revision()

	// The user edits the street while the lookup is still in flight.
	ruaIdx := fieldIndex(t, form.FieldRua)
	f.wf.Set(form.FieldRua, "Rua digitada à mão")
	f.inputs[ruaIdx].SetValue("Rua digitada à mão")

	addr := api.Address{Rua: "Rua do serviço", Bairro: "B", Cidade: "C"}
	f, _ = f.Update(cepLookupMsg{addr: addr, rev: rev})

	if got := f.inputs[ruaIdx].Value(); got != "Rua digitada à mão" {
		t.Fatalf("expected the manual edit to win, got %q", got)
	}
	if got := f.wf.Value(form.FieldRua); got != "Rua digitada à mão" {
		t.Fatalf("expected workflow untouched by the stale lookup, got %q", got)
	}
}

func TestLookupNotFoundWarns(t *testing.T) {
	f := newTestRecordForm(t)
	f.cepLoading = true

	f, cmd := f.Update(cepLookupMsg{err: api.ErrCEPNotFound})

	if f.cepLoading {
		t.Fatalf("expected lookup spinner cleared on failure")
	}
	toast, ok := cmd().(showToastMsg)
	if !ok || toast.level != ToastWarn {
		t.Fatalf("expected a warning toast, got %#v", cmd())
	}
	if !strings.Contains(toast.text, "Não foi encontrado uma rua válida com este CEP") {
		t.Fatalf("unexpected toast text %q", toast.text)
	}
}

func TestEnterOnNumeroSubmits(t *testing.T) {
	f := newTestRecordForm(t)
	f.FocusField(form.FieldNumero)

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// The empty form fails validation, which proves enter reached submit.
	if cmd == nil {
		t.Fatalf("expected enter on número to trigger submission")
	}
	if _, ok := cmd().(showToastMsg); !ok {
		t.Fatalf("expected a validation toast, got %#v", cmd())
	}
	if form.Fields[f.focus] != form.FieldNome {
		t.Fatalf("expected focus on the first invalid field")
	}
}
