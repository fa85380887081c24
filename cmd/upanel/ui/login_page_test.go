package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLoginRejectsInvalidEmail(t *testing.T) {
	deps := testDeps(t)
	p := NewLoginPage(deps, NewStyles(LightTheme()))
	p.email.SetValue("a@b")
	p.password.SetValue("password")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if p.loading {
		t.Fatalf("expected no authentication attempt with a bad email")
	}
	if p.emailErr != "Por favor, insira um email válido!" {
		t.Fatalf("unexpected inline error %q", p.emailErr)
	}
	toast, ok := cmd().(showToastMsg)
	if !ok || !strings.Contains(toast.text, "Email inválido") {
		t.Fatalf("expected email toast, got %#v", cmd())
	}
}

func TestLoginRejectsShortPassword(t *testing.T) {
	deps := testDeps(t)
	p := NewLoginPage(deps, NewStyles(LightTheme()))
	p.email.SetValue("admin@example.com")
	p.password.SetValue("1234")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if p.loading {
		t.Fatalf("expected no authentication attempt with a short password")
	}
	if p.passwordErr != "Por favor, insira uma senha maior que 4 caracteres!" {
		t.Fatalf("unexpected inline error %q", p.passwordErr)
	}
	toast, ok := cmd().(showToastMsg)
	if !ok || !strings.Contains(toast.text, "Senha inválida") {
		t.Fatalf("expected password toast, got %#v", cmd())
	}
}

func TestLoginEditClearsInlineError(t *testing.T) {
	deps := testDeps(t)
	p := NewLoginPage(deps, NewStyles(LightTheme()))
	p.email.SetValue("a@b")
	p.password.SetValue("password")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.emailErr == "" {
		t.Fatalf("expected inline error before the edit")
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(".c")})

	if p.emailErr != "" {
		t.Fatalf("expected editing the email to clear its error")
	}
}

func TestLoginFailureClearsLoadingAndToasts(t *testing.T) {
	deps := testDeps(t)
	p := NewLoginPage(deps, NewStyles(LightTheme()))
	p.loading = true

	p, cmd := p.Update(authResultMsg{err: errors.New("401")})

	if p.loading {
		t.Fatalf("expected loading cleared after a failed sign-in")
	}
	toast, ok := cmd().(showToastMsg)
	if !ok || !strings.Contains(toast.text, "Não foi possível fazer o login") {
		t.Fatalf("expected sign-in failure toast, got %#v", cmd())
	}
}

func TestLoginPrefillsRememberedCredentials(t *testing.T) {
	deps := testDeps(t)
	if err := deps.Session.RememberLogin("admin@example.com", "secret"); err != nil {
		t.Fatalf("failed to remember login: %v", err)
	}

	p := NewLoginPage(deps, NewStyles(LightTheme()))

	if got := p.email.Value(); got != "admin@example.com" {
		t.Fatalf("expected email prefilled, got %q", got)
	}
	if got := p.password.Value(); got != "secret" {
		t.Fatalf("expected password prefilled, got %q", got)
	}
	if !p.remember {
		t.Fatalf("expected remember-me checked")
	}
}

func TestLoginRememberToggle(t *testing.T) {
	deps := testDeps(t)
	p := NewLoginPage(deps, NewStyles(LightTheme()))

	// Two tabs land on the remember-me checkbox, space toggles it.
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")})

	if !p.remember {
		t.Fatalf("expected remember-me toggled on")
	}
	if !strings.Contains(p.View(), "[x] Lembrar de mim") {
		t.Fatalf("expected checked checkbox in view")
	}
}
