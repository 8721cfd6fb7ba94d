package estate

import (
	"sync"
	"time"
)

// ActivityAction labels one entry in the activity history.
type ActivityAction string

const (
	ActionCreate ActivityAction = "CREATE"
	ActionVerify ActivityAction = "VERIFY"
)

// historyLimit caps the activity log at the 10 most recent entries.
const historyLimit = 10

// ActivityEntry is one recorded user action.
type ActivityEntry struct {
	Action    ActivityAction
	AssetID   string
	AssetName string
	Actor     string
	Timestamp time.Time
}

// ActivityLog is a bounded, newest-first record of user actions.
// Entries are kept for the current session only.
type ActivityLog struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

// NewActivityLog returns an empty log.
func NewActivityLog() *ActivityLog {
	return &ActivityLog{}
}

// Record prepends an entry and truncates to the history limit.
func (l *ActivityLog) Record(action ActivityAction, assetID, assetName, actor string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := ActivityEntry{
		Action:    action,
		AssetID:   assetID,
		AssetName: assetName,
		Actor:     actor,
		Timestamp: time.Now(),
	}
	l.entries = append([]ActivityEntry{entry}, l.entries...)
	if len(l.entries) > historyLimit {
		l.entries = l.entries[:historyLimit]
	}
}

// Entries returns a copy of the log, newest first.
func (l *ActivityLog) Entries() []ActivityEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]ActivityEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
