package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// Create-form field order mirrors the tokenize dialog.
const (
	fieldName = iota
	fieldLocation
	fieldPrice
	fieldArea
	fieldRooms
	fieldDescription
	fieldCount
)

// numericFields only accept digits; everything else is stripped on input.
var numericFields = map[int]bool{fieldPrice: true, fieldArea: true, fieldRooms: true}

type createForm struct {
	inputs []textinput.Model
	focus  int
}

func newCreateForm() createForm {
	placeholders := [fieldCount]string{
		"Luxury Villa...",
		"New York, NY",
		"1000000",
		"2500",
		"4",
		"Describe the property features...",
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 120
		ti.Width = 44
		ti.PromptStyle = LabelStyle
		ti.TextStyle = BaseStyle
		inputs[i] = ti
	}
	inputs[fieldName].Focus()

	return createForm{inputs: inputs}
}

// draft converts the form contents into the flow input.
func (f createForm) draft() estate.Draft {
	return estate.Draft{
		Name:        f.inputs[fieldName].Value(),
		Location:    f.inputs[fieldLocation].Value(),
		Price:       f.inputs[fieldPrice].Value(),
		Area:        f.inputs[fieldArea].Value(),
		Rooms:       f.inputs[fieldRooms].Value(),
		Description: f.inputs[fieldDescription].Value(),
	}
}

func (f createForm) complete() bool {
	return f.inputs[fieldName].Value() != "" && f.inputs[fieldPrice].Value() != ""
}

type model struct {
	client *estate.Client
	keys   keyMap

	records  []estate.Property
	filtered []estate.Property

	mode        string // "", "search", "create", "detail", "history"
	searchQuery string
	searchInput textinput.Model
	form        createForm
	detail      *estate.Property

	page     int
	selected int

	spinner      spinner.Model
	initializing bool
	busy         bool
	quitting     bool

	width  int
	height int
}

func initialModel(client *estate.Client) model {
	si := textinput.New()
	si.Placeholder = "Search properties..."
	si.CharLimit = 80
	si.Width = 40
	si.PromptStyle = LabelStyle
	si.TextStyle = BaseStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(mauveColor))

	return model{
		client:       client,
		keys:         Keys,
		searchInput:  si,
		form:         newCreateForm(),
		spinner:      sp,
		initializing: true,
		page:         1,
		width:        100,
		height:       30,
	}
}

// refreshList pulls a fresh snapshot from the cache and recomputes the
// derived views. The cache itself is never mutated here.
func (m *model) refreshList() {
	m.records = m.client.Cache().Records()
	m.filtered = estate.Filter(m.records, m.searchQuery)

	pages := estate.PageCount(len(m.filtered))
	if pages == 0 {
		m.page = 1
	} else if m.page > pages {
		m.page = pages
	}

	visible := len(estate.Page(m.filtered, m.page))
	if m.selected >= visible {
		m.selected = visible - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}

	// Keep an open detail view current after a reload.
	if m.detail != nil {
		id := m.detail.ID
		m.detail = nil
		for i := range m.records {
			if m.records[i].ID == id {
				p := m.records[i]
				m.detail = &p
				break
			}
		}
	}
}

// selectedProperty returns the highlighted card, if any.
func (m *model) selectedProperty() (estate.Property, bool) {
	page := estate.Page(m.filtered, m.page)
	if m.selected < 0 || m.selected >= len(page) {
		return estate.Property{}, false
	}
	return page[m.selected], true
}

// sanitizeNumeric strips everything but digits from a numeric field.
func sanitizeNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
