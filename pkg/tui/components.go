package tui

import (
	"fmt"
	"time"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// Format an address or long id for display
func formatAddress(addr string) string {
	if len(addr) >= 16 {
		return addr[:8] + "..." + addr[len(addr)-4:]
	}
	return addr
}

// Humanize time display
func humanizeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d min ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// priceLabel renders the price cell of a card. The disclosed value is
// only shown through the verified accessor, never raw.
func priceLabel(p estate.Property) string {
	if v, ok := p.VerifiedValue(); ok {
		return fmt.Sprintf("$%dK", v)
	}
	return "🔒 FHE Encrypted"
}

// statusBadge renders the verification badge of a card.
func statusBadge(p estate.Property) string {
	if p.Verified {
		return VerifiedBadgeStyle.Render("✅ Verified")
	}
	return EncryptedBadgeStyle.Render("🔒 Encrypted")
}

// cardBody renders the text block of one property card.
func cardBody(p estate.Property) string {
	return fmt.Sprintf("🏢 %s  %s\n📐 %d sqft • 🚪 %d rooms\n💰 %s\n📅 %s",
		p.Name, statusBadge(p), p.PublicArea, p.PublicRooms, priceLabel(p), humanizeTime(p.CreatedAt))
}
