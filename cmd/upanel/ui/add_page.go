package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"upanel/internal/form"
	"upanel/internal/model"
)

// AddPage hosts the record creation form. A successful submission resets
// the form (inside RecordForm) so the operator can keep adding records.
type AddPage struct {
	styles Styles
	form   RecordForm
}

// NewAddPage builds a blank creation form.
func NewAddPage(deps *Deps, styles Styles) AddPage {
	submit := func(ctx context.Context, record model.User) error {
		return deps.API.CreateUser(ctx, record)
	}
	wf := form.New(submit)
	return AddPage{
		styles: styles,
		form:   NewRecordForm(wf, submit, deps, styles),
	}
}

// Init starts the wrapped form.
func (p AddPage) Init() tea.Cmd {
	return p.form.Init()
}

// Update forwards to the form; esc returns to the listing.
func (p AddPage) Update(msg tea.Msg) (AddPage, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			if !p.form.Saving() {
				return p, func() tea.Msg { return backToListMsg{} }
			}
		case "ctrl+r":
			p.form.ResetFields()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.form, cmd = p.form.Update(msg)
	return p, cmd
}

// View renders the creation page.
func (p AddPage) View() string {
	title := p.styles.Title.Render("Adicionar usuário") + "\n"
	hint := "\n" + p.styles.Footer.Render("[esc] listar os usuários  [ctrl+r] limpar")
	return p.styles.Content.Render(title + p.form.View() + hint)
}
