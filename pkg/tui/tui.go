package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// Run starts the TUI around an already wired estate client.
func Run(client *estate.Client) error {
	if err := initClipboard(); err != nil {
		// Non-fatal, copying just becomes a no-op.
		fmt.Printf("Warning: Clipboard not available: %v\n", err)
	}

	p := tea.NewProgram(
		initialModel(client),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
