package mission

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the full mission list as one JSON file on local disk. The
// file is the durable source of truth: it is rewritten after every mutation so
// a process restart resumes from the first non-completed step of each active
// mission. s.mu guards the list itself and the file; mission field mutations
// are guarded by the queue manager, which therefore persists via Snapshot
// plus Write rather than marshaling the live structs.
type Store struct {
	path  string
	audit *AuditLog

	mu       sync.Mutex
	missions []*Mission
}

// Open loads (or initializes) the mission store under dir.
func Open(dir string, auditCap int) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	audit, err := openAuditLog(filepath.Join(dir, "mission_audit.json"), auditCap)
	if err != nil {
		return nil, err
	}
	s := &Store{
		path:  filepath.Join(dir, "missions.json"),
		audit: audit,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read missions: %w", err)
	}
	if err := json.Unmarshal(data, &s.missions); err != nil {
		return fmt.Errorf("parse missions: %w", err)
	}
	return nil
}

// Add registers a new mission in memory. The caller persists the list
// afterwards through Save or a snapshot write; Add itself never touches
// the disk.
func (s *Store) Add(m *Mission) {
	s.mu.Lock()
	s.missions = append(s.missions, m)
	s.mu.Unlock()
}

// Save persists the current mission list. Only safe without a concurrent
// mutator; the queue manager persists through Write with a snapshot taken
// under its own lock instead.
func (s *Store) Save() error {
	return s.Write(s.Snapshot())
}

// Snapshot returns deep copies of all missions. A caller that shares the
// missions with a concurrent mutator must hold that mutator's lock across
// the call.
func (s *Store) Snapshot() []*Mission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Mission, len(s.missions))
	for i, m := range s.missions {
		out[i] = m.Clone()
	}
	return out
}

// Write rewrites the mission file with the given snapshot. Writes go through
// a temp file and rename so a crash mid-write never truncates the list.
func (s *Store) Write(missions []*Mission) error {
	data, err := json.MarshalIndent(missions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal missions: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write missions: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename missions: %w", err)
	}
	return nil
}

// Get returns the mission with the given id, or nil.
func (s *Store) Get(id string) *Mission {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.missions {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// List returns all missions in creation order.
func (s *Store) List() []*Mission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Mission, len(s.missions))
	copy(out, s.missions)
	return out
}

// Active returns missions still pending or in progress, in creation order.
func (s *Store) Active() []*Mission {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Mission
	for _, m := range s.missions {
		if m.Active() {
			out = append(out, m)
		}
	}
	return out
}

// Audit returns the bounded terminal-outcome log.
func (s *Store) Audit() *AuditLog { return s.audit }
