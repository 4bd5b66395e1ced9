package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/resortes-api/internal/application/dto"
	"github.com/jhoicas/resortes-api/internal/domain"
	"github.com/jhoicas/resortes-api/internal/domain/identifier"
	"github.com/jhoicas/resortes-api/internal/domain/scan"
)

// DefaultSessionTTL tiempo sin actividad tras el cual una sesión se descarta.
const DefaultSessionTTL = 12 * time.Hour

// Session estado de un puesto de escaneo (un operario con su escáner). mu serializa lecturas y
// consumos de la misma sesión, así una lectura produce a lo sumo un consumo.
type Session struct {
	ID string

	mu       sync.Mutex
	guard    scan.Guard
	last     *dto.ConsumeResult
	lastSeen time.Time
}

// Scan normaliza la lectura y la pasa al guard. Detected es true solo con un identificador nuevo.
func (s *Session) Scan(raw any) dto.ScanResponse {
	v := identifier.NormalizeScanPayload(raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	detected := s.guard.Scan(v)
	return dto.ScanResponse{PartID: s.guard.Current(), Detected: detected, State: s.guard.State().String()}
}

// Reset descarta la lectura actual.
func (s *Session) Reset() dto.ScanResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guard.Reset()
	return dto.ScanResponse{State: s.guard.State().String()}
}

// Status estado actual sin modificarlo.
func (s *Session) Status() dto.ScanResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dto.ScanResponse{PartID: s.guard.Current(), State: s.guard.State().String()}
}

// LastResult último consumo confirmado en la sesión, o nil.
func (s *Session) LastResult() *dto.ConsumeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// SessionRegistry sesiones abiertas por id.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRegistry construye el registro. ttl <= 0 usa DefaultSessionTTL.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open crea una sesión nueva y descarta las inactivas.
func (r *SessionRegistry) Open() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
		}
	}
	s := &Session{ID: uuid.New().String(), lastSeen: now}
	r.sessions[s.ID] = s
	return s
}

// Get devuelve la sesión o domain.ErrNotFound.
func (r *SessionRegistry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.lastSeen = r.now()
	return s, nil
}

// Close elimina la sesión.
func (r *SessionRegistry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len cantidad de sesiones abiertas.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// ConsumeScanned consume el resorte armado en la sesión. Con éxito el guard pasa a consumido
// (el escáner puede seguir reportando el mismo código sin efecto); con error queda armado para
// reintentar. in.ScanPayload se ignora.
func (uc *StockUseCase) ConsumeScanned(ctx context.Context, s *Session, in ConsumeInput) (*dto.ConsumeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.ScanPayload = s.guard.Current()
	res, err := uc.Consume(ctx, in)
	if err != nil {
		return nil, err
	}
	s.guard.Committed()
	s.last = res
	return res, nil
}
