package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// Messages delivered by the async flows.
type tickMsg time.Time

type initDoneMsg struct{ err error }

type reloadDoneMsg struct{ err error }

type createDoneMsg struct{ err error }

type availDoneMsg struct{ up bool }

type discloseDoneMsg struct {
	id    string
	value uint64
	ok    bool
	err   error
}

// The toast and refresh indicator live outside the bubbletea loop, so a
// steady tick keeps the view in step with them.
func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick(), m.initCmd())
}

func (m model) initCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		if err := client.InitSubsystem(ctx); err != nil {
			return initDoneMsg{err}
		}
		return initDoneMsg{client.Reload(ctx)}
	}
}

func (m model) reloadCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return reloadDoneMsg{client.Reload(context.Background())}
	}
}

func (m model) createCmd(draft estate.Draft) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return createDoneMsg{client.Create(context.Background(), draft)}
	}
}

func (m model) discloseCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		v, ok, err := client.Disclose(context.Background(), id)
		return discloseDoneMsg{id: id, value: v, ok: ok, err: err}
	}
}

func (m model) availCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return availDoneMsg{client.CheckAvailability(context.Background())}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.refreshList()
		return m, tick()

	case initDoneMsg:
		m.initializing = false
		m.refreshList()
		return m, nil

	case reloadDoneMsg:
		m.refreshList()
		return m, nil

	case createDoneMsg:
		m.busy = false
		if msg.err == nil {
			m.mode = ""
			m.form = newCreateForm()
		}
		m.refreshList()
		return m, nil

	case discloseDoneMsg:
		m.busy = false
		m.refreshList()
		return m, nil

	case availDoneMsg:
		m.busy = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, whatever mode is active.
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case "search":
		return m.updateSearch(msg)
	case "create":
		return m.updateCreate(msg)
	case "detail":
		return m.updateDetail(msg)
	case "history":
		if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.History) || key.Matches(msg, m.keys.Quit) {
			m.mode = ""
		}
		return m, nil
	}

	return m.updateMain(msg)
}

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(estate.Page(m.filtered, m.page))-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.PrevPage), key.Matches(msg, m.keys.Left):
		if m.page > 1 {
			m.page--
			m.selected = 0
		}

	case key.Matches(msg, m.keys.NextPage), key.Matches(msg, m.keys.Right):
		if m.page < estate.PageCount(len(m.filtered)) {
			m.page++
			m.selected = 0
		}

	case key.Matches(msg, m.keys.New):
		m.mode = "create"
		m.form = m.focusField(m.form, 0)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Decrypt):
		if p, ok := m.selectedProperty(); ok && !m.busy {
			m.busy = true
			return m, m.discloseCmd(p.ID)
		}

	case key.Matches(msg, m.keys.Details):
		if p, ok := m.selectedProperty(); ok {
			prop := p
			m.detail = &prop
			m.mode = "detail"
		}

	case key.Matches(msg, m.keys.History):
		m.mode = "history"

	case key.Matches(msg, m.keys.Avail):
		if !m.busy {
			m.busy = true
			return m, m.availCmd()
		}

	case key.Matches(msg, m.keys.Copy):
		if p, ok := m.selectedProperty(); ok {
			copyToClipboard(p.ID)
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = "search"
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reloadCmd()
	}

	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		m.searchQuery = m.searchInput.Value()
		m.searchInput.Blur()
		m.mode = ""
		m.page = 1
		m.selected = 0
		m.refreshList()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.searchQuery = ""
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.mode = ""
		m.page = 1
		m.selected = 0
		m.refreshList()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		// Keep the draft so a rejected transaction can be retried.
		m.mode = ""
		return m, nil

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Down):
		m.form = m.focusField(m.form, (m.form.focus+1)%fieldCount)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Up):
		m.form = m.focusField(m.form, (m.form.focus+fieldCount-1)%fieldCount)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Enter):
		if m.form.focus < fieldCount-1 {
			m.form = m.focusField(m.form, m.form.focus+1)
			return m, textinput.Blink
		}
		if !m.form.complete() || m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.createCmd(m.form.draft())
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	if numericFields[m.form.focus] {
		in := &m.form.inputs[m.form.focus]
		if clean := sanitizeNumeric(in.Value()); clean != in.Value() {
			in.SetValue(clean)
			in.CursorEnd()
		}
	}
	return m, cmd
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.detail = nil
		m.mode = ""

	case key.Matches(msg, m.keys.Decrypt):
		if m.detail != nil && !m.busy {
			m.busy = true
			return m, m.discloseCmd(m.detail.ID)
		}

	case key.Matches(msg, m.keys.Copy):
		if m.detail != nil {
			copyToClipboard(m.detail.ID)
		}
	}
	return m, nil
}

func (m model) focusField(f createForm, idx int) createForm {
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	f.focus = idx
	return f
}
