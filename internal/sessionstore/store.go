// Package sessionstore holds reconciliation artifacts between the process
// call and a later delta call, keyed by an opaque session id with TTL
// expiry. It replaces the shared on-disk storage/ files an earlier revision
// used, which broke under concurrent requests.
package sessionstore

import (
	"log"
	"sync"
	"time"

	"PagRecon/internal/ebu"
	"PagRecon/internal/serviceiface"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Artifacts is what a process call can leave behind for a delta call: the
// reconciled PAG workbook bytes and the parsed EBU data (price source).
type Artifacts struct {
	UpdatedPAG []byte
	EBU        *ebu.Data
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Store is an in-memory session map swept by a cron janitor.
type Store struct {
	config map[string]interface{}

	mu       sync.Mutex
	sessions map[string]*Artifacts
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
}

// NewStore builds the store from its services.yaml config block.
func NewStore(cfg map[string]interface{}) *Store {
	s := &Store{
		config:   cfg,
		sessions: make(map[string]*Artifacts),
		ttl:      30 * time.Minute,
		schedule: "*/5 * * * *",
	}
	if cfg != nil {
		if v, ok := cfg["ttl_minutes"]; ok {
			if m := toInt(v); m > 0 {
				s.ttl = time.Duration(m) * time.Minute
			}
		}
		if v, ok := cfg["sweep_schedule"].(string); ok && v != "" {
			s.schedule = v
		}
	}
	return s
}

func toInt(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return 0
}

func (s *Store) Name() string {
	return "sessionstore"
}

// Start launches the expiry janitor.
func (s *Store) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[SessionStore] started, ttl=%s sweep=%q", s.ttl, s.schedule)
	return nil
}

func (s *Store) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}

// Put stores artifacts under a fresh session id and returns the id.
func (s *Store) Put(a *Artifacts) string {
	id := uuid.New().String()
	now := time.Now()
	a.CreatedAt = now
	a.ExpiresAt = now.Add(s.ttl)
	s.mu.Lock()
	s.sessions[id] = a
	s.mu.Unlock()
	return id
}

// Get returns the artifacts for id, or false when unknown or expired.
// Expired entries are removed on access rather than waiting for the sweep.
func (s *Store) Get(id string) (*Artifacts, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(a.ExpiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	return a, true
}

// Sweep drops every expired session.
func (s *Store) Sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.sessions {
		if now.After(a.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}

// Len reports the live session count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

var global *Store

// SetGlobal wires the store started by the app manager so HTTP handlers in
// the recon and report services can reach it.
func SetGlobal(s *Store) { global = s }

// Global returns the process-wide store, nil before startup.
func Global() *Store { return global }

var _ serviceiface.Service = (*Store)(nil)
