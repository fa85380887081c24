package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"upanel/internal/model"
)

// DeleteModal asks for confirmation before removing a record.
type DeleteModal struct {
	deps   *Deps
	styles Styles
	user   model.User

	loading bool
	spin    spinner.Model
}

// NewDeleteModal builds the confirmation for the given record.
func NewDeleteModal(u model.User, deps *Deps, styles Styles) DeleteModal {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner
	return DeleteModal{deps: deps, styles: styles, user: u, spin: sp}
}

// Update handles confirmation keys. closed reports that the modal was
// dismissed without deleting.
func (m DeleteModal) Update(msg tea.Msg) (DeleteModal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil, false
		}
		switch msg.String() {
		case "esc", "n":
			return m, nil, true
		case "enter", "y", "s":
			m.loading = true
			deps := m.deps
			id := m.user.ID
			return m, tea.Batch(m.spin.Tick, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
				defer cancel()
				return deleteResultMsg{err: deps.API.DeleteUser(ctx, id)}
			}), false
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd, false
		}
	}
	return m, nil, false
}

// View renders the confirmation prompt with the record's name.
func (m DeleteModal) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Excluir este usuário") + "\n")
	sb.WriteString(m.styles.Body.Render("Você tem certeza que deseja excluir o usuário "))
	sb.WriteString(m.styles.Bold.Render(m.user.Nome))
	sb.WriteString(m.styles.Body.Render("?") + "\n\n")

	if m.loading {
		sb.WriteString(m.spin.View() + m.styles.Muted.Render(" excluindo..."))
	} else {
		sb.WriteString(m.styles.Error.Render("[s/enter] Sim, excluir este usuário"))
		sb.WriteString("   ")
		sb.WriteString(m.styles.Muted.Render("[n/esc] Cancelar"))
	}

	return m.styles.Modal.Render(sb.String())
}
