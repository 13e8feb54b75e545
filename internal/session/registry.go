// Package session keeps many calculator engines addressable by ID, for
// adapters that serve more than one widget (the tool server, for instance).
// Each engine still has exactly one owner at a time: calls on the same
// session are serialised.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/production"
)

var ErrNotFound = errors.New("session not found")

// View is what callers see of a session after each operation.
type View struct {
	ID         string `json:"id"`
	Display    string `json:"display"`
	Expression string `json:"expression"`
	State      string `json:"state"`
	Error      string `json:"error,omitempty"`
}

type entry struct {
	mu     sync.Mutex
	engine *calcx.Engine
	// deleted is set under mu by Delete; callers that were waiting on mu
	// must not touch the engine or the store afterwards.
	deleted bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithPersister saves every session after each change and restores sessions
// not held in memory.
func WithPersister(p production.Persister) Option {
	return func(r *Registry) {
		r.persister = p
	}
}

// WithLogger sets the registry logger; engines share it.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// Registry owns the engines.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*entry
	persister production.Persister
	logger    *slog.Logger
	now       func() time.Time
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*entry),
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a new session in the initial state.
func (r *Registry) Create(ctx context.Context) (View, error) {
	id := uuid.New().String()
	ent := &entry{engine: r.newEngine(id)}

	r.mu.Lock()
	r.sessions[id] = ent
	r.mu.Unlock()

	ent.mu.Lock()
	defer ent.mu.Unlock()
	if err := r.save(ctx, id, ent.engine); err != nil {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return View{}, err
	}
	r.logger.Info("session created", slog.String("session", id))
	return view(id, ent.engine), nil
}

// Apply feeds inputs to a session in order. Inputs after a rejected one are
// not applied; the state reached so far is still saved.
func (r *Registry) Apply(ctx context.Context, id string, inputs ...calcx.Input) (View, error) {
	ent, err := r.lookup(ctx, id)
	if err != nil {
		return View{}, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()
	if ent.deleted {
		return View{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}

	var applyErr error
	for _, in := range inputs {
		if _, err := ent.engine.Apply(in); err != nil {
			applyErr = err
			break
		}
	}
	if err := r.save(ctx, id, ent.engine); err != nil {
		return view(id, ent.engine), err
	}
	return view(id, ent.engine), applyErr
}

// View returns the current state of a session.
func (r *Registry) View(ctx context.Context, id string) (View, error) {
	ent, err := r.lookup(ctx, id)
	if err != nil {
		return View{}, err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	if ent.deleted {
		return View{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return view(id, ent.engine), nil
}

// Delete forgets a session and removes its stored record. It waits for any
// call already working on the session, so nothing saves the session again
// once Delete returns.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	ent, inMemory := r.sessions[id]
	if !inMemory {
		// A tombstone keeps a concurrent restore from reviving the record
		// while it is being removed.
		ent = &entry{}
		r.sessions[id] = ent
	}
	r.mu.Unlock()

	ent.mu.Lock()
	ent.deleted = true
	err := r.deleteRecord(ctx, id)
	ent.mu.Unlock()

	r.mu.Lock()
	if r.sessions[id] == ent {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if err != nil {
		return err
	}
	if r.persister == nil && !inMemory {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	r.logger.Info("session deleted", slog.String("session", id))
	return nil
}

func (r *Registry) deleteRecord(ctx context.Context, id string) error {
	if r.persister == nil {
		return nil
	}
	if err := r.persister.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Len reports the number of sessions held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) newEngine(id string) *calcx.Engine {
	return calcx.New(calcx.WithLogger(r.logger.With(slog.String("session", id))))
}

// lookup returns the in-memory entry, restoring it from the persister when
// needed.
func (r *Registry) lookup(ctx context.Context, id string) (*entry, error) {
	r.mu.Lock()
	ent, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		return ent, nil
	}
	if r.persister == nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}

	rec, err := r.persister.Load(ctx, id)
	if err != nil {
		if errors.Is(err, production.ErrNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	engine := r.newEngine(id)
	if err := engine.Restore(rec.State); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another caller may have restored it meanwhile; keep the first.
	if existing, ok := r.sessions[id]; ok {
		return existing, nil
	}
	ent = &entry{engine: engine}
	r.sessions[id] = ent
	r.logger.Debug("session restored", slog.String("session", id))
	return ent, nil
}

func (r *Registry) save(ctx context.Context, id string, e *calcx.Engine) error {
	if r.persister == nil {
		return nil
	}
	rec := production.Record{SessionID: id, State: e.Snapshot(), Timestamp: r.now().UTC()}
	if err := r.persister.Save(ctx, rec); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func view(id string, e *calcx.Engine) View {
	v := View{
		ID:         id,
		Display:    e.Display(),
		Expression: e.Expression(),
		State:      e.State(),
	}
	if err := e.Err(); err != nil {
		v.Error = err.Error()
	}
	return v
}
