package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"upanel/internal/api"
	"upanel/internal/config"
	"upanel/internal/session"
)

// Deps bundles the collaborators every page needs. They are constructed
// once in main and threaded down explicitly.
type Deps struct {
	Config  config.Config
	API     *api.Client
	ViaCEP  *api.ViaCEP
	Session *session.Store
	Logger  *zap.Logger
}

// page selects the screen currently shown.
type page int

const (
	pageLogin page = iota
	pageList
	pageAdd
)

// App is the root model: it routes messages to the current page, owns the
// toast stack and switches pages on navigation messages.
type App struct {
	deps   *Deps
	styles Styles

	page  page
	login LoginPage
	list  ListPage
	add   AddPage

	toasts   ToastStack
	showHelp bool
	helpView string

	width  int
	height int
}

// NewApp wires the root model. The login page is shown first.
func NewApp(deps *Deps) App {
	styles := NewStyles(ThemeByName(deps.Config.Theme))
	return App{
		deps:   deps,
		styles: styles,
		page:   pageLogin,
		login:  NewLoginPage(deps, styles),
		toasts: NewToastStack(styles),
	}
}

// Init starts the login page.
func (a App) Init() tea.Cmd {
	return a.login.Init()
}

// Update routes messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "?":
			// Help toggles everywhere except while typing into a field.
			if a.page == pageList && !a.list.searchFocus &&
				a.list.updateModal == nil && a.list.deleteModal == nil {
				a.showHelp = !a.showHelp
				if a.showHelp && a.helpView == "" {
					a.helpView = RenderHelp(a.styles.Theme)
				}
				return a, nil
			}
		case "esc":
			if a.showHelp {
				a.showHelp = false
				return a, nil
			}
		case "q":
			if a.showHelp {
				a.showHelp = false
				return a, nil
			}
			if a.page == pageList && !a.list.searchFocus &&
				a.list.updateModal == nil && a.list.deleteModal == nil {
				a.deps.Session.Logout()
				return a, tea.Quit
			}
		}
		if a.showHelp {
			return a, nil
		}

	case showToastMsg:
		return a, a.toasts.Push(msg.level, msg.text)

	case toastTickMsg:
		return a, a.toasts.Update(msg)

	case authResultMsg:
		// The login page clears its loading state and toasts failures;
		// success swaps to the listing.
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if msg.err == nil {
			a.page = pageList
			a.list = NewListPage(a.deps, a.styles)
			a.list.SetSize(a.width, a.height)
			return a, tea.Batch(cmd, a.list.Init())
		}
		return a, cmd

	case openAddPageMsg:
		a.page = pageAdd
		a.add = NewAddPage(a.deps, a.styles)
		return a, a.add.Init()

	case backToListMsg:
		a.page = pageList
		return a, a.list.Init()

	case logoutMsg:
		a.deps.Session.Logout()
		a.page = pageLogin
		a.login = NewLoginPage(a.deps, a.styles)
		return a, a.login.Init()
	}

	return a.updatePage(msg)
}

func (a App) updatePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.page {
	case pageLogin:
		a.login, cmd = a.login.Update(msg)
	case pageList:
		a.list, cmd = a.list.Update(msg)
	case pageAdd:
		a.add, cmd = a.add.Update(msg)
	}
	return a, cmd
}

// View renders the current page under the toast stack.
func (a App) View() string {
	if a.showHelp {
		return a.helpView
	}

	var body string
	switch a.page {
	case pageLogin:
		body = a.login.View()
	case pageList:
		body = a.list.View()
	case pageAdd:
		body = a.add.View()
	}

	if toasts := a.toasts.View(); toasts != "" {
		return toasts + "\n" + body
	}
	return body
}
