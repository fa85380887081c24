package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastLevel classifies a transient notification.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarn
	ToastError
)

// toastTTL is how long a notification stays on screen.
const toastTTL = 4 * time.Second

// Toast is one transient notification.
type Toast struct {
	Level   ToastLevel
	Text    string
	expires time.Time
}

// toastTickMsg drives expiry of visible toasts.
type toastTickMsg time.Time

// ToastStack renders transient notifications at the top of the screen.
type ToastStack struct {
	toasts []Toast
	styles Styles
	now    func() time.Time
}

// NewToastStack creates an empty stack.
func NewToastStack(styles Styles) ToastStack {
	return ToastStack{styles: styles, now: time.Now}
}

// Push adds a notification and returns the command that keeps the stack
// ticking until it expires.
func (t *ToastStack) Push(level ToastLevel, text string) tea.Cmd {
	t.toasts = append(t.toasts, Toast{
		Level:   level,
		Text:    text,
		expires: t.now().Add(toastTTL),
	})
	return t.tick()
}

func (t *ToastStack) tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(at time.Time) tea.Msg {
		return toastTickMsg(at)
	})
}

// Update drops expired toasts and keeps ticking while any remain.
func (t *ToastStack) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(toastTickMsg); !ok {
		return nil
	}

	now := t.now()
	kept := t.toasts[:0]
	for _, toast := range t.toasts {
		if toast.expires.After(now) {
			kept = append(kept, toast)
		}
	}
	t.toasts = kept

	if len(t.toasts) > 0 {
		return t.tick()
	}
	return nil
}

// Len returns the number of visible toasts.
func (t *ToastStack) Len() int {
	return len(t.toasts)
}

// View renders the visible notifications, newest last.
func (t *ToastStack) View() string {
	if len(t.toasts) == 0 {
		return ""
	}

	out := ""
	for _, toast := range t.toasts {
		var style = t.styles.Info
		var prefix = "ℹ"
		switch toast.Level {
		case ToastSuccess:
			style, prefix = t.styles.Success, "✓"
		case ToastWarn:
			style, prefix = t.styles.Warning, "!"
		case ToastError:
			style, prefix = t.styles.Error, "✗"
		}
		out += style.Render(prefix+" "+toast.Text) + "\n"
	}
	return out
}
