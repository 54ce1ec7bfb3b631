package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateLogin state = iota
	stateDashboard
)

type RootModel struct {
	State     state
	Session   *Session
	Login     LoginModel
	Dashboard DashboardModel
	Quitting  bool
	baseURL   string
	height    int
}

func NewRootModel(baseURL string) RootModel {
	s := NewSession()
	return RootModel{
		State:   stateLogin,
		Session: s,
		Login:   NewLoginModel(s, baseURL),
		baseURL: baseURL,
	}
}

func (m RootModel) Init() tea.Cmd {
	return m.Login.Init()
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		if m.State == stateDashboard {
			m.Dashboard.Table.SetHeight(tableHeight(msg.Height))
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			return m, tea.Quit
		}
	}

	switch m.State {
	case stateLogin:
		if res, ok := msg.(loginResultMsg); ok && res.err == nil {
			m.State = stateDashboard
			m.Dashboard = NewDashboardModel(m.Session, m.height)
			m.Login, _ = m.Login.Update(res)
			return m, m.Dashboard.Init()
		}
		var cmd tea.Cmd
		m.Login, cmd = m.Login.Update(msg)
		return m, cmd

	case stateDashboard:
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "q":
				m.Quitting = true
				return m, tea.Quit
			case "l":
				m.Session.Logout()
				m.State = stateLogin
				m.Login = NewLoginModel(m.Session, m.baseURL)
				return m, m.Login.Init()
			}
		}
		var cmd tea.Cmd
		m.Dashboard, cmd = m.Dashboard.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	switch m.State {
	case stateLogin:
		return docStyle.Render(m.Login.View())
	case stateDashboard:
		return docStyle.Render(m.Dashboard.View())
	}
	return "Unknown state"
}
