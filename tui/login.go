package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel is the sign-in form: identifier and password inputs, an error
// line for rejected credentials or an unreachable server.
type loginModel struct {
	inputs  []textinput.Model
	focused int
	loading bool
	errMsg  string
}

func newLoginModel() loginModel {
	identifier := textinput.New()
	identifier.Placeholder = "username or email"
	identifier.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return loginModel{inputs: []textinput.Model{identifier, password}}
}

func (m loginModel) focusCmd() tea.Cmd {
	return m.inputs[0].Focus()
}

func (a App) updateLogin(message tea.Msg) (tea.Model, tea.Cmd) {
	msg, ok := message.(tea.KeyMsg)
	if !ok {
		return a.passToInputs(message)
	}
	if a.login.loading {
		return a, nil
	}

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		a.login.inputs[a.login.focused].Blur()
		if msg.String() == "shift+tab" || msg.String() == "up" {
			a.login.focused--
		} else {
			a.login.focused++
		}
		if a.login.focused < 0 {
			a.login.focused = len(a.login.inputs) - 1
		}
		a.login.focused %= len(a.login.inputs)
		return a, a.login.inputs[a.login.focused].Focus()

	case "enter":
		identifier := strings.TrimSpace(a.login.inputs[0].Value())
		secret := a.login.inputs[1].Value()
		if identifier == "" || secret == "" {
			a.login.errMsg = "Enter a username or email and a password."
			return a, nil
		}
		a.login.loading = true
		a.login.errMsg = ""
		return a, a.loginCmd(identifier, secret)

	case "esc":
		return a, tea.Quit
	}

	return a.passToInputs(message)
}

func (a App) passToInputs(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.login.inputs[a.login.focused], cmd = a.login.inputs[a.login.focused].Update(message)
	return a, cmd
}

func (m loginModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("IoT Connect"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Sign in to view your broker connections"))
	b.WriteString("\n\n")
	for _, input := range m.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	if m.loading {
		b.WriteString("\nSigning in...\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter sign in · tab switch field · esc quit"))
	return b.String()
}
