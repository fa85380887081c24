package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"upanel/internal/api"
	"upanel/internal/form"
	"upanel/internal/sanitize"
)

// fieldLabels are the visible labels, in form.Fields order.
var fieldLabels = map[form.Field]string{
	form.FieldNome:   "Nome",
	form.FieldEmail:  "Email",
	form.FieldCPF:    "CPF",
	form.FieldCEP:    "CEP",
	form.FieldCidade: "Cidade",
	form.FieldBairro: "Bairro",
	form.FieldRua:    "Rua",
	form.FieldNumero: "Número",
}

var fieldPlaceholders = map[form.Field]string{
	form.FieldNome:   "Insira um nome aqui...",
	form.FieldEmail:  "Insira um email aqui...",
	form.FieldCPF:    "999.999.999-99",
	form.FieldCEP:    "99999-999",
	form.FieldCidade: "Insira uma cidade aqui...",
	form.FieldBairro: "Insira um bairro aqui...",
	form.FieldRua:    "Insira uma rua aqui...",
	form.FieldNumero: "Insira um número aqui...",
}

// RecordForm is the record editing component shared by the add page and
// the update modal. It renders a form.Workflow and drives its validation,
// CEP autofill and submission.
type RecordForm struct {
	wf     *form.Workflow
	submit form.SubmitFunc
	deps   *Deps
	styles Styles

	inputs []textinput.Model // parallel to form.Fields
	focus  int

	saving     bool
	cepLoading bool
	spin       spinner.Model
}

// NewRecordForm builds the component around an existing workflow. The
// submit function must be the same one the workflow was created with.
func NewRecordForm(wf *form.Workflow, submit form.SubmitFunc, deps *Deps, styles Styles) RecordForm {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	inputs := make([]textinput.Model, len(form.Fields))
	for i, f := range form.Fields {
		ti := textinput.New()
		ti.Placeholder = fieldPlaceholders[f]
		ti.Width = 40
		ti.CharLimit = 120
		switch f {
		case form.FieldCPF:
			ti.CharLimit = 14
		case form.FieldCEP:
			ti.CharLimit = 9
		case form.FieldNumero:
			ti.CharLimit = 8
		}
		ti.SetValue(wf.Value(f))
		inputs[i] = ti
	}
	inputs[0].Focus()

	return RecordForm{
		wf:     wf,
		submit: submit,
		deps:   deps,
		styles: styles,
		inputs: inputs,
		spin:   sp,
	}
}

// Init starts the spinner.
func (f RecordForm) Init() tea.Cmd {
	return f.spin.Tick
}

// Saving reports whether a submission is in flight.
func (f RecordForm) Saving() bool {
	return f.saving
}

// Update handles editing, focus movement, autofill and submission.
func (f RecordForm) Update(msg tea.Msg) (RecordForm, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if f.saving {
			// Submission in flight; ignore edits until it settles.
			return f, nil
		}
		switch msg.String() {
		case "tab", "down":
			f.moveFocus(1)
			return f, nil
		case "shift+tab", "up":
			f.moveFocus(-1)
			return f, nil
		case "ctrl+s":
			return f.startSubmit()
		case "enter":
			// Enter on the número field submits, same as the button.
			if form.Fields[f.focus] == form.FieldNumero {
				return f.startSubmit()
			}
			f.moveFocus(1)
			return f, nil
		}

		// Feed the key to the focused input and mirror the edit into the
		// workflow. The raw text update always lands, whatever a pending
		// lookup later decides.
		field := form.Fields[f.focus]
		before := f.inputs[f.focus].Value()
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		cmds = append(cmds, cmd)

		if after := f.inputs[f.focus].Value(); after != before {
			if needLookup := f.wf.Set(field, after); needLookup {
				f.cepLoading = true
				cmds = append(cmds, f.lookupCmd(sanitize.CEP(after), f.wf.Revision()))
			}
		}
		return f, tea.Batch(cmds...)

	case cepLookupMsg:
		return f.handleLookup(msg)

	case saveResultMsg:
		return f.handleSaveResult(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		f.spin, cmd = f.spin.Update(msg)
		return f, cmd
	}

	return f, nil
}

func (f *RecordForm) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// FocusField moves focus to the input of the given field.
func (f *RecordForm) FocusField(target form.Field) {
	for i, field := range form.Fields {
		if field == target {
			f.inputs[f.focus].Blur()
			f.focus = i
			f.inputs[i].Focus()
			return
		}
	}
}

// lookupCmd queries the postal-code service asynchronously.
func (f RecordForm) lookupCmd(cep string, rev uint64) tea.Cmd {
	deps := f.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
		defer cancel()
		addr, err := deps.ViaCEP.Lookup(ctx, cep)
		return cepLookupMsg{addr: addr, rev: rev, err: err}
	}
}

func (f RecordForm) handleLookup(msg cepLookupMsg) (RecordForm, tea.Cmd) {
	f.cepLoading = false

	if msg.err != nil {
		if errors.Is(msg.err, api.ErrCEPNotFound) {
			return f, toastCmd(ToastWarn, "Não foi encontrado uma rua válida com este CEP. Tente novamente.")
		}
		f.deps.Logger.Warn("cep lookup failed: " + msg.err.Error())
		return f, toastCmd(ToastError, "Erro! Não foi possível consultar o CEP. Tente novamente.")
	}

	if !f.wf.ApplyLookup(msg.addr, msg.rev) {
		// The user edited an address field while the lookup was in
		// flight; their text wins.
		return f, nil
	}

	for i, field := range form.Fields {
		switch field {
		case form.FieldCEP, form.FieldRua, form.FieldBairro, form.FieldCidade:
			f.inputs[i].SetValue(f.wf.Value(field))
		}
	}
	f.FocusField(form.FieldNumero)
	return f, nil
}

// startSubmit runs the ordered validation; on the first failure it toasts,
// marks the field and moves focus there. When everything passes the record
// is sent to the backend.
func (f RecordForm) startSubmit() (RecordForm, tea.Cmd) {
	if verr := f.wf.Validate(); verr != nil {
		f.FocusField(verr.Field)
		return f, toastCmd(ToastError, verr.Notice)
	}

	u, err := f.wf.BuildUser()
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			f.FocusField(verr.Field)
			return f, toastCmd(ToastError, verr.Notice)
		}
		return f, toastCmd(ToastError, err.Error())
	}

	f.saving = true
	deps := f.deps
	submit := f.submit
	editing := f.wf.Editing()
	return f, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
		defer cancel()
		return saveResultMsg{editing: editing, err: submit(ctx, u)}
	}
}

func (f RecordForm) handleSaveResult(msg saveResultMsg) (RecordForm, tea.Cmd) {
	// Loading state clears on every exit path, success or failure.
	f.saving = false

	if msg.err != nil {
		f.deps.Logger.Warn("save failed: " + msg.err.Error())
		text := "Erro! Não foi possível atualizar o usuário. Atualize a página."
		if !msg.editing {
			text = "Erro! Não foi possível cadastrar o usuário. Atualize a página."
		}
		return f, toastCmd(ToastError, text)
	}

	var cmds []tea.Cmd
	if !msg.editing {
		cmds = append(cmds, toastCmd(ToastSuccess, "Usuário cadastrado com sucesso!"))
		f.ResetFields()
	}
	cmds = append(cmds, func() tea.Msg { return formSavedMsg{editing: msg.editing} })
	return f, tea.Batch(cmds...)
}

// ResetFields blanks the workflow and every input, refocusing the first.
func (f *RecordForm) ResetFields() {
	f.wf.Reset()
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.inputs[0].Focus()
}

// View renders the labeled inputs with their inline errors.
func (f RecordForm) View() string {
	var sb strings.Builder

	for i, field := range form.Fields {
		label := f.styles.Label.Render(fieldLabels[field])
		if field == form.FieldCEP && f.cepLoading {
			label += " " + f.spin.View()
		}
		sb.WriteString(label + "\n")
		sb.WriteString(f.inputs[i].View() + "\n")
		if msg, ok := f.wf.FieldError(field); ok {
			sb.WriteString(f.styles.FieldError.Render(msg) + "\n")
		}
		if field == form.FieldCPF {
			// Divider between person and address fields.
			sb.WriteString(f.styles.RenderDivider(44) + "\n")
		}
	}

	if f.saving {
		sb.WriteString("\n" + f.spin.View() + f.styles.Muted.Render(" salvando..."))
	} else {
		action := "adicionar"
		if f.wf.Editing() {
			action = "salvar"
		}
		sb.WriteString("\n" + f.styles.Footer.Render(fmt.Sprintf("[enter no número / ctrl+s] %s", action)))
	}

	return sb.String()
}
