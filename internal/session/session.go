package session

import (
	"sync"
	"time"

	"bankbot/internal/domain"
)

// Stage identifies the step of an in-progress transaction conversation
type Stage string

const (
	StageIdle                 Stage = "idle"
	StageAwaitingLocale       Stage = "awaiting_locale"
	StageAwaitingAmount       Stage = "awaiting_amount"
	StageAwaitingMethodChoice Stage = "awaiting_method_choice"
	StageAwaitingMethodType   Stage = "awaiting_method_type"
	StageAwaitingCryptoKind   Stage = "awaiting_crypto_kind"
	StageAwaitingMethodDetail Stage = "awaiting_method_detail"
)

// MethodCategory is the top-level choice when creating a payment method
type MethodCategory string

const (
	CategoryBankTransfer MethodCategory = "bank_transfer"
	CategoryPayPal       MethodCategory = "paypal"
	CategoryCrypto       MethodCategory = "crypto"
)

// MethodDraft is the sub-state of an in-progress method creation.
// CryptoKind is only set after the crypto sub-type has been chosen.
type MethodDraft struct {
	Category   MethodCategory
	CryptoKind domain.MethodKind
}

// Data is the transient state of one in-progress transaction. It is
// lost on restart and cleared on completion, cancellation or a fatal
// error. SelectedMethod is -1 until a method has been picked.
type Data struct {
	Stage          Stage
	PendingAction  domain.TransactionKind
	PendingAmount  int64
	Draft          MethodDraft
	SelectedMethod int
	UpdatedAt      time.Time
}

// NewData returns an empty session at the given stage
func NewData(stage Stage) Data {
	return Data{Stage: stage, SelectedMethod: -1}
}

// Store keeps at most one session per user id. Values are copied in
// and out, so callers never share memory with the map; the engine
// serializes event processing per user on top of this.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Data
	now      func() time.Time
}

// NewStore creates an empty in-memory session store
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]Data),
		now:      time.Now,
	}
}

// Get returns the session for a user and whether one exists
func (s *Store) Get(userID int64) (Data, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.sessions[userID]
	return data, ok
}

// Put stores the session for a user, stamping its last activity time
func (s *Store) Put(userID int64, data Data) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data.UpdatedAt = s.now()
	s.sessions[userID] = data
}

// Clear removes the session for a user if present
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

// Len returns the number of active sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// PurgeExpired removes sessions idle for longer than ttl and returns
// how many were removed. Abandoned conversations would otherwise stay
// pending forever.
func (s *Store) PurgeExpired(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for userID, data := range s.sessions {
		if data.UpdatedAt.Before(cutoff) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}
