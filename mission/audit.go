package mission

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// AuditEntry records a mission's terminal outcome for observability. The log
// is advisory: mission correctness never depends on it.
type AuditEntry struct {
	MissionID  string    `json:"mission_id"`
	Name       string    `json:"name"`
	RobotID    string    `json:"robot_id"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// AuditLog is an append-only log of terminal mission outcomes, capped to the
// most recent cap entries.
type AuditLog struct {
	path string
	cap  int

	mu      sync.Mutex
	entries []AuditEntry
}

func openAuditLog(path string, cap int) (*AuditLog, error) {
	if cap <= 0 {
		cap = 200
	}
	l := &AuditLog{path: path, cap: cap}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	if err := json.Unmarshal(data, &l.entries); err != nil {
		return nil, fmt.Errorf("parse audit log: %w", err)
	}
	return l, nil
}

// Append records an entry, trims to the cap and persists.
func (l *AuditLog) Append(e AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e.FinishedAt.IsZero() {
		e.FinishedAt = time.Now().UTC()
	}
	l.entries = append(l.entries, e)
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal audit log: %w", err)
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return os.Rename(tmp, l.path)
}

// Entries returns a copy of the recorded outcomes, oldest first.
func (l *AuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
