package hosting

import (
	"context"
	"log"
	"time"

	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/models"
	"github.com/bothost-dev/backend/internal/store"
)

// Delays configures how long each lifecycle action stays in its transient
// status before settling.
type Delays struct {
	Start   time.Duration
	Stop    time.Duration
	Restart time.Duration
}

// DefaultDelays mirrors the provisioning simulation: start 3s, stop 2s,
// restart 4s.
var DefaultDelays = Delays{
	Start:   3 * time.Second,
	Stop:    2 * time.Second,
	Restart: 4 * time.Second,
}

type transition struct {
	transient string
	terminal  string
}

var transitions = map[string]transition{
	"start":   {transient: models.StatusStarting, terminal: models.StatusOnline},
	"stop":    {transient: models.StatusStopping, terminal: models.StatusOffline},
	"restart": {transient: models.StatusRestarting, terminal: models.StatusOnline},
}

// Lifecycle simulates server state transitions. An action flips the record
// to its transient status immediately and schedules the settle to the
// terminal status after the configured delay. Each accepted action bumps
// the record's generation and the settle only lands while that generation
// is still current, so overlapping requests have a well-defined winner:
// the newest one.
type Lifecycle struct {
	resources store.ResourceStore
	delays    Delays
}

func NewLifecycle(resources store.ResourceStore, delays Delays) *Lifecycle {
	return &Lifecycle{resources: resources, delays: delays}
}

// Transition applies a lifecycle action to a server owned by ownerID and
// returns the record in its transient status without waiting for settle.
func (l *Lifecycle) Transition(ctx context.Context, id, ownerID, action string) (*models.Server, error) {
	tr, ok := transitions[action]
	if !ok {
		return nil, apperr.Validation("unknown action %q", action)
	}

	srv, err := l.resources.BeginTransition(ctx, id, ownerID, tr.transient)
	if err != nil {
		return nil, err
	}

	generation := srv.Generation
	time.AfterFunc(l.delay(action), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.resources.SettleStatus(ctx, id, generation, tr.terminal); err != nil {
			log.Printf("settle %s for server %s failed: %v", tr.terminal, id, err)
		}
	})
	return srv, nil
}

func (l *Lifecycle) delay(action string) time.Duration {
	switch action {
	case "stop":
		return l.delays.Stop
	case "restart":
		return l.delays.Restart
	default:
		return l.delays.Start
	}
}
