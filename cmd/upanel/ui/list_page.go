package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"upanel/internal/model"
)

// sortOptions cycle with the "s" key; positions match orderOptions below.
var sortOptions = []struct {
	value string
	label string
}{
	{model.SortNone, "sem organização"},
	{model.SortNome, "Nome"},
	{model.SortEmail, "Email"},
	{model.SortCidade, "Cidade"},
}

var orderOptions = []struct {
	value string
	label string
}{
	{model.OrderNone, "sem ordem"},
	{model.OrderAsc, "A-Z"},
	{model.OrderDesc, "Z-A"},
}

// skeletonRows is how many placeholder rows stand in for the table while a
// fetch is in flight.
const skeletonRows = 3

// ListPage shows the paginated, filterable record listing and hosts the
// update and delete modals.
type ListPage struct {
	deps   *Deps
	styles Styles

	table table.Model
	users []model.User

	page     int
	maxPage  int
	total    int
	query    string
	sortIdx  int
	orderIdx int

	search      textinput.Model
	searchFocus bool

	loading bool
	spin    spinner.Model

	deleteModal *DeleteModal
	updateModal *UpdateModal

	width  int
	height int
}

// NewListPage builds the listing with an initial fetch pending.
func NewListPage(deps *Deps, styles Styles) ListPage {
	t := table.New(
		table.WithColumns(listColumns()),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	search := textinput.New()
	search.Placeholder = "Pesquisar por nome, email, cidade..."
	search.Width = 44

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return ListPage{
		deps:    deps,
		styles:  styles,
		table:   t,
		search:  search,
		page:    1,
		loading: true,
		spin:    sp,
	}
}

func listColumns() []table.Column {
	return []table.Column{
		{Title: "Nome", Width: 24},
		{Title: "CPF", Width: 16},
		{Title: "Email", Width: 28},
		{Title: "Cidade", Width: 18},
	}
}

// Init fires the first fetch.
func (p ListPage) Init() tea.Cmd {
	return tea.Batch(p.spin.Tick, p.fetchCmd())
}

// Filters returns the currently selected sort/order pair.
func (p ListPage) Filters() model.Filters {
	return model.Filters{
		Sort:  sortOptions[p.sortIdx].value,
		Order: orderOptions[p.orderIdx].value,
	}
}

// fetchCmd requests the current page from the backend.
func (p ListPage) fetchCmd() tea.Cmd {
	deps := p.deps
	page, query, filters := p.page, p.query, p.Filters()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
		defer cancel()
		users, total, err := deps.API.ListUsers(ctx, page, query, filters)
		if err != nil {
			return usersLoadFailedMsg{err: err}
		}
		return usersLoadedMsg{users: users, total: total}
	}
}

// refetch puts the page into loading state and requests fresh data.
func (p ListPage) refetch() (ListPage, tea.Cmd) {
	p.loading = true
	return p, tea.Batch(p.spin.Tick, p.fetchCmd())
}

// Update handles listing interaction and routes messages to open modals.
func (p ListPage) Update(msg tea.Msg) (ListPage, tea.Cmd) {
	// An open modal gets everything first.
	if p.deleteModal != nil {
		return p.updateDeleteModal(msg)
	}
	if p.updateModal != nil {
		return p.updateUpdateModal(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)

	case usersLoadedMsg:
		p.loading = false
		p.users = msg.users
		p.total = msg.total
		p.maxPage = (msg.total + p.deps.Config.PageSize - 1) / p.deps.Config.PageSize
		// A shrunken result set must not leave the cursor past the end.
		if p.maxPage == 1 {
			p.page = 1
		}
		rows := make([]table.Row, len(msg.users))
		for i, u := range msg.users {
			rows[i] = table.Row{u.Nome, u.CPF, u.Email, u.Endereco.Cidade}
		}
		p.table.SetRows(rows)
		return p, nil

	case usersLoadFailedMsg:
		p.loading = false
		p.deps.Logger.Warn("listing fetch failed: " + msg.err.Error())
		return p, toastCmd(ToastError, "Erro! Não foi possível carregar os usuários. Tente novamente.")

	case spinner.TickMsg:
		if p.loading {
			var cmd tea.Cmd
			p.spin, cmd = p.spin.Update(msg)
			return p, cmd
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

func (p ListPage) handleKey(msg tea.KeyMsg) (ListPage, tea.Cmd) {
	if p.searchFocus {
		switch msg.String() {
		case "enter":
			p.searchFocus = false
			p.search.Blur()
			p.query = p.search.Value()
			p.page = 1
			return p.refetch()
		case "esc":
			p.searchFocus = false
			p.search.Blur()
			return p, nil
		}
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		return p, cmd
	}

	switch msg.String() {
	case "/":
		p.searchFocus = true
		p.search.Focus()
		return p, nil
	case "s":
		p.sortIdx = (p.sortIdx + 1) % len(sortOptions)
		return p.refetch()
	case "o":
		p.orderIdx = (p.orderIdx + 1) % len(orderOptions)
		return p.refetch()
	case "r":
		p.query = ""
		p.search.SetValue("")
		p.sortIdx = 0
		p.orderIdx = 0
		p.page = 1
		return p.refetch()
	case "left", "h":
		if p.page > 1 {
			p.page--
			return p.refetch()
		}
		return p, nil
	case "right", "l":
		if p.page < p.maxPage {
			p.page++
			return p.refetch()
		}
		return p, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= p.maxPage && n != p.page {
			p.page = n
			return p.refetch()
		}
		return p, nil
	case "a":
		return p, func() tea.Msg { return openAddPageMsg{} }
	case "e", "enter":
		if u, ok := p.selectedUser(); ok {
			p.openUpdateModal(u)
		}
		return p, nil
	case "d", "delete", "backspace":
		if u, ok := p.selectedUser(); ok {
			m := NewDeleteModal(u, p.deps, p.styles)
			p.deleteModal = &m
		}
		return p, nil
	case "ctrl+l":
		return p, func() tea.Msg { return logoutMsg{} }
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

func (p ListPage) selectedUser() (model.User, bool) {
	if p.loading || len(p.users) == 0 {
		return model.User{}, false
	}
	idx := p.table.Cursor()
	if idx < 0 || idx >= len(p.users) {
		return model.User{}, false
	}
	return p.users[idx], true
}

func (p *ListPage) openUpdateModal(u model.User) {
	m := NewUpdateModal(u, p.deps, p.styles)
	p.updateModal = &m
}

func (p ListPage) updateDeleteModal(msg tea.Msg) (ListPage, tea.Cmd) {
	switch msg := msg.(type) {
	case deleteResultMsg:
		if msg.err != nil {
			p.deleteModal.loading = false
			p.deps.Logger.Warn("delete failed: " + msg.err.Error())
			return p, toastCmd(ToastError, "Erro! Não foi possível excluir o usuário. Atualize a página.")
		}
		p.deleteModal = nil
		return p.refetch()

	case tea.KeyMsg:
		m, cmd, closed := p.deleteModal.Update(msg)
		if closed {
			p.deleteModal = nil
			return p, nil
		}
		p.deleteModal = &m
		return p, cmd

	case spinner.TickMsg:
		m, cmd, _ := p.deleteModal.Update(msg)
		p.deleteModal = &m
		return p, cmd
	}
	return p, nil
}

func (p ListPage) updateUpdateModal(msg tea.Msg) (ListPage, tea.Cmd) {
	switch msg := msg.(type) {
	case formSavedMsg:
		// Update saved: close the modal and reload the listing.
		p.updateModal = nil
		return p.refetch()

	case tea.KeyMsg:
		if msg.String() == "esc" && !p.updateModal.form.Saving() {
			p.updateModal = nil
			return p, nil
		}
	}

	m, cmd := p.updateModal.Update(msg)
	p.updateModal = &m
	return p, cmd
}

// SetSize adjusts the layout to the terminal.
func (p *ListPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.table.SetWidth(w - 6)
	if h > 18 {
		p.table.SetHeight(h - 14)
	}
}

// View renders the listing, or whichever modal is open on top of it.
func (p ListPage) View() string {
	if p.deleteModal != nil {
		return p.deleteModal.View()
	}
	if p.updateModal != nil {
		return p.updateModal.View()
	}

	var sb strings.Builder

	shown := len(p.users)
	if p.loading {
		sb.WriteString(p.styles.Title.Render("Usuários") + " " + p.spin.View() + "\n")
	} else {
		sb.WriteString(p.styles.Title.Render(fmt.Sprintf("Usuários (exibindo %d de %d)", shown, p.total)) + "\n")
	}

	// Filter bar.
	sb.WriteString(p.renderFilterBar() + "\n")

	if p.loading {
		sb.WriteString(p.renderSkeleton())
	} else {
		sb.WriteString(p.table.View() + "\n")
	}

	sb.WriteString("\n" + p.renderPageSelector() + "\n")
	sb.WriteString(p.styles.Footer.Render(
		"[/] pesquisar  [s] organizar  [o] ordenar  [r] resetar  [←/→] páginas  [a] adicionar  [e] editar  [d] excluir  [?] ajuda"))

	return sb.String()
}

func (p ListPage) renderFilterBar() string {
	searchView := p.search.View()
	if p.searchFocus {
		searchView = p.styles.Bold.Render(searchView)
	}
	sortLabel := fmt.Sprintf("Organizar: %s", sortOptions[p.sortIdx].label)
	orderLabel := fmt.Sprintf("Ordenar: %s", orderOptions[p.orderIdx].label)
	return searchView + "\n" +
		p.styles.Info.Render(sortLabel) + "  " + p.styles.Info.Render(orderLabel)
}

// renderSkeleton stands in for the table while records load.
func (p ListPage) renderSkeleton() string {
	var sb strings.Builder
	widths := []int{24, 16, 28, 18}
	header := []string{"Nome", "CPF", "Email", "Cidade"}
	for i, h := range header {
		sb.WriteString(p.styles.Bold.Render(fmt.Sprintf("%-*s", widths[i], h)))
	}
	sb.WriteString("\n")
	for i := 0; i < skeletonRows; i++ {
		for _, w := range widths {
			sb.WriteString(p.styles.Skeleton.Render(strings.Repeat("▒", w-4)) + "    ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderPageSelector draws one numbered button per page.
func (p ListPage) renderPageSelector() string {
	if p.maxPage <= 0 {
		return ""
	}
	parts := make([]string, 0, p.maxPage+1)
	parts = append(parts, p.styles.Muted.Render("Páginas:"))
	for i := 1; i <= p.maxPage; i++ {
		label := fmt.Sprintf("[%d]", i)
		if i == p.page {
			parts = append(parts, p.styles.PageActive.Render(label))
		} else {
			parts = append(parts, p.styles.PageIdle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
