package ui

import (
	"context"
	"fmt"
	"gradebook/backend/app/dto"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewTop view = iota
	viewAll
	viewMine
)

type dataMsg struct {
	view view
	rows []table.Row
	err  error
}

// DashboardModel shows top students and all grades to instructors, and the
// student's own grades to students.
type DashboardModel struct {
	Session *Session
	Table   table.Model
	Current   view
	Err     error
}

func NewDashboardModel(s *Session, height int) DashboardModel {
	v := viewTop
	if s.Role == "student" {
		v = viewMine
	}
	t := table.New(
		table.WithColumns(columnsFor(v)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)
	t.SetStyles(tableStyles())
	return DashboardModel{Session: s, Table: t, Current: v}
}

func tableHeight(h int) int {
	if h-10 < 5 {
		return 10
	}
	return h - 10
}

func columnsFor(v view) []table.Column {
	switch v {
	case viewAll:
		return []table.Column{
			{Title: "ID", Width: 5},
			{Title: "Username", Width: 16},
			{Title: "Name", Width: 24},
			{Title: "Maths", Width: 6},
			{Title: "Chem", Width: 6},
			{Title: "Bio", Width: 6},
			{Title: "CS", Width: 6},
			{Title: "Phys", Width: 6},
		}
	case viewMine:
		return []table.Column{
			{Title: "Subject", Width: 20},
			{Title: "Grade", Width: 8},
		}
	default:
		return []table.Column{
			{Title: "#", Width: 3},
			{Title: "Username", Width: 16},
			{Title: "Name", Width: 24},
			{Title: "Average", Width: 8},
		}
	}
}

func topRows(list []dto.TopStudent) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for i, s := range list {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1), s.Username, s.FirstName + " " + s.LastName, fmt.Sprintf("%.2f", s.AverageMarks),
		})
	}
	return rows
}

func allRows(list []dto.StudentGrades) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for _, s := range list {
		g := s.Grades
		rows = append(rows, table.Row{
			strconv.FormatUint(uint64(s.ID), 10), s.Username, s.FirstName + " " + s.LastName,
			strconv.Itoa(g.PureMaths), strconv.Itoa(g.Chemistry), strconv.Itoa(g.Biology),
			strconv.Itoa(g.ComputerScience), strconv.Itoa(g.Physics),
		})
	}
	return rows
}

func mineRows(g dto.GradeResponse) []table.Row {
	return []table.Row{
		{"Pure maths", strconv.Itoa(g.PureMaths)},
		{"Chemistry", strconv.Itoa(g.Chemistry)},
		{"Biology", strconv.Itoa(g.Biology)},
		{"Computer science", strconv.Itoa(g.ComputerScience)},
		{"Physics", strconv.Itoa(g.Physics)},
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.fetch(m.Current)
}

func (m DashboardModel) fetch(v view) tea.Cmd {
	s := m.Session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		switch v {
		case viewAll:
			list, err := s.AllGrades(ctx)
			return dataMsg{view: v, rows: allRows(list), err: err}
		case viewMine:
			g, err := s.MyGrades(ctx)
			if err != nil {
				return dataMsg{view: v, err: err}
			}
			return dataMsg{view: v, rows: mineRows(g)}
		default:
			list, err := s.TopStudents(ctx)
			return dataMsg{view: v, rows: topRows(list), err: err}
		}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dataMsg:
		if msg.view != m.Current {
			return m, nil
		}
		m.Err = msg.err
		m.Table.SetRows(msg.rows)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.fetch(m.Current)
		case "1", "2":
			if m.Session.Role != "instructor" {
				return m, nil
			}
			v := viewTop
			if msg.String() == "2" {
				v = viewAll
			}
			if v != m.Current {
				m.Current = v
				m.Table.SetRows(nil)
				m.Table.SetColumns(columnsFor(v))
			}
			return m, m.fetch(v)
		}
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m DashboardModel) title() string {
	switch m.Current {
	case viewAll:
		return "All grades"
	case viewMine:
		return "My grades"
	default:
		return "Top students"
	}
}

func (m DashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Gradebook - %s (%s)", m.title(), m.Session.Username)) + "\n\n")
	b.WriteString(m.Table.View())
	b.WriteString("\n\n")
	help := "'r' refresh, 'l' logout, 'q' quit"
	if m.Session.Role == "instructor" {
		help = "'1' top students, '2' all grades, " + help
	}
	b.WriteString(blurredStyle.Render(help))

	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
