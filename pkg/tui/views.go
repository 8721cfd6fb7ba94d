package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// Render properties in a multi-column grid layout
func (m model) renderPropertyGrid() string {
	page := estate.Page(m.filtered, m.page)
	if len(page) == 0 {
		emptyMessage := lipgloss.NewStyle().
			Foreground(lipgloss.Color(subtext1Color)).
			Italic(true).
			Padding(2, 0).
			Render("No properties found. Press 'n' to tokenize your first property.")
		return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, emptyMessage)
	}

	// Calculate optimal column layout based on terminal width
	cardWidth := 48
	maxCols := m.width / cardWidth
	if maxCols < 1 {
		maxCols = 1
	}
	if maxCols > 3 {
		maxCols = 3
	}

	actualCardWidth := m.width / maxCols

	var rows []string
	for i := 0; i < len(page); i += maxCols {
		var columns []string

		for col := 0; col < maxCols && i+col < len(page); col++ {
			idx := i + col
			p := page[idx]

			style := CardStyle
			if idx == m.selected {
				style = SelectedCardStyle
			}
			columns = append(columns, style.Width(actualCardWidth-2).Render(cardBody(p)))
		}

		for len(columns) < maxCols {
			columns = append(columns, lipgloss.NewStyle().Width(actualCardWidth-2).Render(""))
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// statusToast renders the live transaction status line, if any.
func (m model) statusToast() string {
	st := m.client.Status().Current()
	if !st.Visible || st.Phase == estate.PhaseIdle {
		return ""
	}
	switch st.Phase {
	case estate.PhasePending:
		return ToastPendingStyle.Render(m.spinner.View() + " " + st.Message)
	case estate.PhaseSuccess:
		return ToastSuccessStyle.Render("✅ " + st.Message)
	default:
		return ToastErrorStyle.Render("✖ " + st.Message)
	}
}

func (m model) renderCreateModal() string {
	labels := [fieldCount]string{
		"Property Name *", "Location", "Price (USD, encrypted) *",
		"Area (sqft)", "Rooms", "Description",
	}

	parts := []string{
		IconStyle.Render("🏠"),
		TitleStyle.Render("Tokenize Property with FHE"),
		"",
	}
	for i, in := range m.form.inputs {
		label := labels[i]
		if i == m.form.focus {
			parts = append(parts, WarningStyle.Render(label))
		} else {
			parts = append(parts, LabelStyle.Render(label))
		}
		parts = append(parts, in.View())
	}

	hint := "Tab • Next field | Enter • Submit | Esc • Cancel"
	if m.busy {
		hint = m.spinner.View() + " Submitting..."
	}
	parts = append(parts, "", MutedStyle.Render(hint))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	modal := ModalStyle.Width(64).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m model) renderDetailModal() string {
	p := *m.detail

	price := priceLabel(p)
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render("🏢 "+p.Name),
		"",
		statusBadge(p),
		"",
		BoxStyle.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			LabelStyle.Render("ID: ")+BaseStyle.Render(formatAddress(p.ID)),
			LabelStyle.Render("Description: ")+BaseStyle.Render(p.Description),
			LabelStyle.Render("Area: ")+BaseStyle.Render(fmt.Sprintf("%d sqft", p.PublicArea)),
			LabelStyle.Render("Rooms: ")+BaseStyle.Render(fmt.Sprintf("%d", p.PublicRooms)),
			LabelStyle.Render("Price: ")+AddressStyle.Render(price),
			LabelStyle.Render("Creator: ")+AddressStyle.Render(formatAddress(p.Creator)),
			LabelStyle.Render("Created: ")+BaseStyle.Render(humanizeTime(p.CreatedAt)),
		)),
		"",
		MutedStyle.Render("v • decrypt price | c • copy id | Esc • close"),
	)

	modal := ModalStyle.Width(70).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m model) renderHistoryPanel() string {
	entries := m.client.History().Entries()

	parts := []string{TitleStyle.Render("📜 Recent Activity"), ""}
	if len(entries) == 0 {
		parts = append(parts, MutedStyle.Render("No activity yet."))
	}
	for _, e := range entries {
		icon := "✨"
		if e.Action == estate.ActionVerify {
			icon = "🔓"
		}
		line := fmt.Sprintf("%s %s  %s  %s", icon, e.Action,
			BaseStyle.Render(e.AssetName), MutedStyle.Render(humanizeTime(e.Timestamp)))
		parts = append(parts, line)
	}
	parts = append(parts, "", MutedStyle.Render("Esc • close"))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	modal := ModalStyle.Width(70).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m model) View() string {
	if m.quitting {
		farewell := lipgloss.NewStyle().
			Foreground(lipgloss.Color(successColor)).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Render("👋 Your prices stay encrypted!")

		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, farewell)
	}

	if m.initializing || m.client.Loading() {
		loadingView := lipgloss.JoinVertical(
			lipgloss.Center,
			TitleStyle.Render("🏠 Confidential Real Estate"),
			"",
			m.spinner.View()+" Loading encrypted properties...",
		)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			ModalStyle.Render(loadingView))
	}

	switch m.mode {
	case "search":
		content := lipgloss.JoinVertical(
			lipgloss.Center,
			IconStyle.Render("🔍"),
			TitleStyle.Render("Search Properties"),
			"",
			m.searchInput.View(),
			"",
			MutedStyle.Render("Enter • Search | Esc • Clear"),
		)
		modal := ModalStyle.Width(60).Render(content)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)

	case "create":
		return m.renderCreateModal()

	case "detail":
		if m.detail != nil {
			return m.renderDetailModal()
		}

	case "history":
		return m.renderHistoryPanel()
	}

	// Compact sheet-style layout focused on the property grid
	var sections []string

	count := fmt.Sprintf("%d", len(m.records))
	if m.searchQuery != "" {
		count = fmt.Sprintf("🔍 %d/%d", len(m.filtered), len(m.records))
	}
	verified := fmt.Sprintf("✅ %d verified", m.client.Cache().VerifiedCount())

	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color(primaryColor)).Bold(true).Render("🏠 Confidential Real Estate"),
		lipgloss.NewStyle().Foreground(lipgloss.Color(subtext1Color)).Render(" • "),
		lipgloss.NewStyle().Foreground(lipgloss.Color(textColor)).Render(count),
		lipgloss.NewStyle().Foreground(lipgloss.Color(subtext1Color)).Render(" • "),
		lipgloss.NewStyle().Foreground(lipgloss.Color(textColor)).Render(verified),
		lipgloss.NewStyle().Foreground(lipgloss.Color(subtext1Color)).Render(" • "),
		lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColor)).Render("n•new v•decrypt ⏎•details H•history /•search r•refresh q•quit"),
	)
	if m.client.Refreshing() {
		headerContent = lipgloss.JoinHorizontal(
			lipgloss.Left,
			headerContent,
			lipgloss.NewStyle().Render(" • "),
			m.spinner.View(),
		)
	}

	compactHeader := lipgloss.NewStyle().
		Background(lipgloss.Color(mantleColor)).
		Foreground(lipgloss.Color(textColor)).
		Padding(0, 1).
		Width(m.width).
		Render(headerContent)
	sections = append(sections, compactHeader)

	if toast := m.statusToast(); toast != "" {
		sections = append(sections, toast)
	}

	sections = append(sections, m.renderPropertyGrid())

	if pages := estate.PageCount(len(m.filtered)); pages > 1 {
		footer := MutedStyle.Render(fmt.Sprintf("Page %d/%d  [ prev • ] next", m.page, pages))
		sections = append(sections, footer)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
