package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"upanel/internal/form"
	"upanel/internal/model"
)

// UpdateModal wraps the shared record form, seeded from an existing
// record. On success the listing closes it and refetches.
type UpdateModal struct {
	styles Styles
	form   RecordForm
}

// NewUpdateModal builds the modal for editing u.
func NewUpdateModal(u model.User, deps *Deps, styles Styles) UpdateModal {
	submit := func(ctx context.Context, record model.User) error {
		return deps.API.UpdateUser(ctx, record)
	}
	wf := form.NewFromUser(u, submit)
	return UpdateModal{
		styles: styles,
		form:   NewRecordForm(wf, submit, deps, styles),
	}
}

// Init starts the wrapped form.
func (m UpdateModal) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards everything to the wrapped form.
func (m UpdateModal) Update(msg tea.Msg) (UpdateModal, tea.Cmd) {
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// View renders the form inside the modal frame.
func (m UpdateModal) View() string {
	title := m.styles.Title.Render("Atualizar usuário") + "\n"
	hint := "\n" + m.styles.Footer.Render("[esc] cancelar")
	return m.styles.Modal.Render(title + m.form.View() + hint)
}
