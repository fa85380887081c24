package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
)

var loginValidate = validator.New()

// loginFocus cycles email -> password -> remember-me.
const (
	loginFocusEmail = iota
	loginFocusPassword
	loginFocusRemember
)

// LoginPage authenticates the operator before anything else is shown.
type LoginPage struct {
	deps   *Deps
	styles Styles

	email    textinput.Model
	password textinput.Model
	remember bool
	focus    int

	emailErr    string
	passwordErr string

	loading bool
	spin    spinner.Model
}

// NewLoginPage builds the login form, pre-filled from a remembered login
// when one was persisted.
func NewLoginPage(deps *Deps, styles Styles) LoginPage {
	email := textinput.New()
	email.Placeholder = "Email"
	email.Width = 36
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Senha"
	password.Width = 36
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	p := LoginPage{
		deps:     deps,
		styles:   styles,
		email:    email,
		password: password,
		spin:     sp,
	}

	if login, ok := deps.Session.RememberedLogin(); ok {
		p.email.SetValue(login.Email)
		p.password.SetValue(login.Password)
		p.remember = true
	}
	return p
}

// Init starts the spinner.
func (p LoginPage) Init() tea.Cmd {
	return p.spin.Tick
}

// Update handles the login form interaction.
func (p LoginPage) Update(msg tea.Msg) (LoginPage, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.loading {
			return p, nil
		}
		switch msg.String() {
		case "tab", "down":
			p.moveFocus(1)
			return p, nil
		case "shift+tab", "up":
			p.moveFocus(-1)
			return p, nil
		case " ":
			if p.focus == loginFocusRemember {
				p.remember = !p.remember
				return p, nil
			}
		case "enter":
			return p.submit()
		}

		var cmd tea.Cmd
		switch p.focus {
		case loginFocusEmail:
			before := p.email.Value()
			p.email, cmd = p.email.Update(msg)
			if p.email.Value() != before {
				p.emailErr = ""
			}
		case loginFocusPassword:
			before := p.password.Value()
			p.password, cmd = p.password.Update(msg)
			if p.password.Value() != before {
				p.passwordErr = ""
			}
		}
		return p, cmd

	case authResultMsg:
		// Loading clears on both paths; failure stays on this page.
		p.loading = false
		if msg.err != nil {
			p.deps.Logger.Warn("authentication failed: " + msg.err.Error())
			return p, toastCmd(ToastError, "Erro! Não foi possível fazer o login. Tente novamente.")
		}
		return p, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		return p, cmd
	}

	return p, nil
}

func (p *LoginPage) moveFocus(delta int) {
	p.email.Blur()
	p.password.Blur()
	p.focus = (p.focus + delta + 3) % 3
	switch p.focus {
	case loginFocusEmail:
		p.email.Focus()
	case loginFocusPassword:
		p.password.Focus()
	}
}

// submit validates locally, persists or clears the remembered login, then
// authenticates through the session store.
func (p LoginPage) submit() (LoginPage, tea.Cmd) {
	email := p.email.Value()
	password := p.password.Value()

	if err := loginValidate.Var(email, "required,email"); err != nil {
		p.emailErr = "Por favor, insira um email válido!"
		p.focus = loginFocusEmail
		p.email.Focus()
		p.password.Blur()
		return p, toastCmd(ToastError, "Erro de autenticação: Email inválido.")
	}

	if len(password) < 5 {
		p.passwordErr = "Por favor, insira uma senha maior que 4 caracteres!"
		p.focus = loginFocusPassword
		p.password.Focus()
		p.email.Blur()
		return p, toastCmd(ToastError, "Erro de autenticação: Senha inválida.")
	}

	if p.remember {
		if err := p.deps.Session.RememberLogin(email, password); err != nil {
			p.deps.Logger.Warn("failed to remember login: " + err.Error())
		}
	} else {
		if err := p.deps.Session.ForgetLogin(); err != nil {
			p.deps.Logger.Warn("failed to forget login: " + err.Error())
		}
	}

	p.loading = true
	deps := p.deps
	return p, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
		defer cancel()
		return authResultMsg{err: deps.Session.Authenticate(ctx, email, password)}
	}
}

// View renders the login card.
func (p LoginPage) View() string {
	var sb strings.Builder

	sb.WriteString(Logo(p.styles) + "\n")
	sb.WriteString(p.styles.Subtitle.Render("Controle de usuários") + "\n\n")

	sb.WriteString(p.email.View() + "\n")
	if p.emailErr != "" {
		sb.WriteString(p.styles.FieldError.Render(p.emailErr) + "\n")
	}
	sb.WriteString(p.password.View() + "\n")
	if p.passwordErr != "" {
		sb.WriteString(p.styles.FieldError.Render(p.passwordErr) + "\n")
	}

	check := "[ ]"
	if p.remember {
		check = "[x]"
	}
	checkStyle := p.styles.Muted
	if p.focus == loginFocusRemember {
		checkStyle = p.styles.Bold
	}
	sb.WriteString("\n" + checkStyle.Render(check+" Lembrar de mim") + "\n\n")

	if p.loading {
		sb.WriteString(p.spin.View() + p.styles.Muted.Render(" entrando..."))
	} else {
		sb.WriteString(p.styles.Footer.Render("[enter] entrar  [tab] próximo campo  [espaço] marcar"))
	}

	return p.styles.Panel.Render(sb.String())
}
