package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	inputURL = iota
	inputUsername
	inputPassword
)

var roles = []string{"student", "instructor"}

type loginResultMsg struct{ err error }

type LoginModel struct {
	Session  *Session
	Inputs   []textinput.Model
	FocusIdx int
	RoleIdx  int
	Err      error
	pending  bool
}

func NewLoginModel(s *Session, baseURL string) LoginModel {
	inputs := make([]textinput.Model, 3)

	inputs[inputURL] = textinput.New()
	inputs[inputURL].Placeholder = "http://127.0.0.1:8000"
	inputs[inputURL].Prompt = "Server:   "
	inputs[inputURL].SetValue(baseURL)
	inputs[inputURL].Focus()

	inputs[inputUsername] = textinput.New()
	inputs[inputUsername].Placeholder = "username"
	inputs[inputUsername].Prompt = "Username: "

	inputs[inputPassword] = textinput.New()
	inputs[inputPassword].Placeholder = "password"
	inputs[inputPassword].EchoMode = textinput.EchoPassword
	inputs[inputPassword].Prompt = "Password: "

	return LoginModel{Session: s, Inputs: inputs}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Role() string { return roles[m.RoleIdx] }

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.pending = false
		m.Err = msg.err
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if m.FocusIdx == len(m.Inputs)-1 {
				if m.pending {
					return m, nil
				}
				m.pending = true
				m.Err = nil
				return m, m.loginCmd()
			}
			m.nextInput()
		case tea.KeyTab, tea.KeyDown:
			m.nextInput()
		case tea.KeyShiftTab, tea.KeyUp:
			m.prevInput()
		case tea.KeyCtrlR:
			m.RoleIdx = (m.RoleIdx + 1) % len(roles)
			return m, nil
		}
	}

	cmds := make([]tea.Cmd, len(m.Inputs))
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *LoginModel) nextInput() {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx = (m.FocusIdx + 1) % len(m.Inputs)
	m.Inputs[m.FocusIdx].Focus()
}

func (m *LoginModel) prevInput() {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx--
	if m.FocusIdx < 0 {
		m.FocusIdx = len(m.Inputs) - 1
	}
	m.Inputs[m.FocusIdx].Focus()
}

func (m LoginModel) loginCmd() tea.Cmd {
	s := m.Session
	baseURL := strings.TrimSpace(m.Inputs[inputURL].Value())
	username := strings.TrimSpace(m.Inputs[inputUsername].Value())
	password := m.Inputs[inputPassword].Value()
	role := m.Role()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return loginResultMsg{err: s.Login(ctx, baseURL, role, username, password)}
	}
}

func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Gradebook - Login") + "\n\n")
	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View() + "\n")
	}

	b.WriteString("Role:     ")
	for i, r := range roles {
		if i > 0 {
			b.WriteString(" / ")
		}
		if i == m.RoleIdx {
			b.WriteString(activeStyle.Render(r))
		} else {
			b.WriteString(blurredStyle.Render(r))
		}
	}

	b.WriteString("\n\n")
	if m.pending {
		b.WriteString(blurredStyle.Render("Signing in...") + "\n")
	}
	b.WriteString(blurredStyle.Render("Tab to change fields, Ctrl+R to switch role, Enter to submit"))

	if m.Err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
