package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/entities"
	domainrepos "tryon-studio/internal/domain/repositories"
)

var _ domainrepos.SessionRepository = (*MemorySessionRepository)(nil)

type MemorySessionRepository struct {
	sessions map[entities.SessionID]*entities.Session
	mu       sync.RWMutex
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[entities.SessionID]*entities.Session),
	}
}

func (r *MemorySessionRepository) Save(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID()] = session
	return nil
}

func (r *MemorySessionRepository) FindByID(ctx context.Context, id entities.SessionID) (*entities.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	return session, nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, id entities.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle drops sessions untouched for longer than ttl. Sessions with a
// generation in flight are kept.
func (r *MemorySessionRepository) EvictIdle(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, session := range r.sessions {
		snapshot := session.Snapshot()
		if snapshot.Processing || now.Sub(snapshot.UpdatedAt) <= ttl {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}
	return evicted
}

// StartJanitor sweeps idle sessions every interval until ctx is done. The
// returned channel closes once the sweeper has stopped.
func (r *MemorySessionRepository) StartJanitor(ctx context.Context, interval, ttl time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := r.EvictIdle(now, ttl); n > 0 {
					log.Info().
						Int("evicted", n).
						Int("remaining", r.Len()).
						Dur("ttl", ttl).
						Msg("idle sessions evicted")
				}
			}
		}
	}()
	return done
}
