package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"upanel/internal/api"
	"upanel/internal/model"
)

// showToastMsg asks the app model to display a transient notification.
type showToastMsg struct {
	level ToastLevel
	text  string
}

// toastCmd emits a notification from anywhere in the page tree.
func toastCmd(level ToastLevel, text string) tea.Cmd {
	return func() tea.Msg {
		return showToastMsg{level: level, text: text}
	}
}

// authResultMsg carries the outcome of a sign-in attempt.
type authResultMsg struct {
	err error
}

// usersLoadedMsg carries one page of records plus the backend's total count.
type usersLoadedMsg struct {
	users []model.User
	total int
}

// usersLoadFailedMsg reports a failed listing fetch.
type usersLoadFailedMsg struct {
	err error
}

// cepLookupMsg carries a postal-code lookup outcome. rev is the form
// revision the lookup was issued against.
type cepLookupMsg struct {
	addr api.Address
	rev  uint64
	err  error
}

// saveResultMsg carries the outcome of a create or update submission.
type saveResultMsg struct {
	editing bool
	err     error
}

// formSavedMsg bubbles up after a successful submission was fully handled
// by the form (toast/reset); parents react by closing modals or refetching.
type formSavedMsg struct {
	editing bool
}

// deleteResultMsg carries the outcome of a delete-by-identifier call.
type deleteResultMsg struct {
	err error
}

// openAddPageMsg asks the app to show the record creation page.
type openAddPageMsg struct{}

// backToListMsg asks the app to return to the listing page.
type backToListMsg struct{}

// logoutMsg asks the app to clear the session and show the login page.
type logoutMsg struct{}
