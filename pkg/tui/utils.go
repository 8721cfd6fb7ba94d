package tui

import (
	"fmt"

	"golang.design/x/clipboard"
)

// Initialize clipboard
func initClipboard() error {
	err := clipboard.Init()
	if err != nil {
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	return nil
}

// Copy a property id to the clipboard. Ids are not sensitive, so no
// auto-clear is needed.
func copyToClipboard(text string) {
	clipboard.Write(clipboard.FmtText, []byte(text))
}
