package flashd

import (
	"context"
	"log"
	"time"

	"github.com/hugo/flashd/internal/animator"
	"github.com/hugo/flashd/internal/config"
	"github.com/hugo/flashd/internal/database"
	"github.com/hugo/flashd/internal/dispatch"
	"github.com/hugo/flashd/internal/models"
	"github.com/hugo/flashd/pkg/compositor"
)

// Service owns the daemon's moving parts for one run: the animation engine,
// the event dispatcher and the flash-history repository. It is the engine's
// Recorder, persisting accepted flashes and failures the same way the
// daemon logs them.
type Service struct {
	cfg    *config.Config
	repo   *database.Repository
	comp   compositor.Compositor
	engine *animator.Engine
	disp   *dispatch.Dispatcher

	started time.Time
}

func NewService(cfg *config.Config, repo *database.Repository, comp compositor.Compositor) *Service {
	s := &Service{
		cfg:  cfg,
		repo: repo,
		comp: comp,
	}
	s.engine = animator.NewEngine(cfg, comp, s)
	s.disp = dispatch.New(s.engine, comp, cfg)
	return s
}

// Run binds the dispatcher, starts the sweep and pumps compositor events
// until ctx is cancelled. All sessions are torn down before it returns.
func (s *Service) Run(ctx context.Context) error {
	s.started = time.Now()
	s.disp.Bind()
	s.engine.StartSweep()
	defer s.engine.Shutdown()

	log.Printf("Flash service running (effect: %s, duration: %v)", s.cfg.Flash.Effect, s.cfg.Flash.Duration)
	return s.comp.Run(ctx)
}

// TriggerFocused flashes whichever window currently has focus.
func (s *Service) TriggerFocused() error {
	w, err := s.comp.FocusedWindow()
	if err != nil {
		return err
	}
	if w == nil {
		return nil
	}
	return s.disp.TriggerFor(*w)
}

// SetConfig merges a runtime flash-config change.
func (s *Service) SetConfig(p config.Partial) {
	s.engine.SetConfig(p)
}

// Uptime reports how long the service has been running.
func (s *Service) Uptime() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

// LiveSessions reports the number of flashes currently animating.
func (s *Service) LiveSessions() int {
	return s.engine.LiveSessions()
}

// FlashStarted implements animator.Recorder.
func (s *Service) FlashStarted(w compositor.Window, effect, easing string, duration time.Duration) {
	if s.repo == nil {
		return
	}

	event := &models.FlashEvent{
		Timestamp:   time.Now(),
		AppName:     w.AppName,
		WindowTitle: w.Title,
		WindowID:    uint32(w.ID),
		Effect:      effect,
		Easing:      easing,
		DurationMs:  duration.Milliseconds(),
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(event); err != nil {
		log.Printf("Failed to record flash: %v", err)
	}
}

// FlashFailed implements animator.Recorder.
func (s *Service) FlashFailed(w compositor.Window, err error) {
	if s.repo == nil {
		return
	}

	errorLog := &models.ErrorLog{
		Timestamp: time.Now(),
		AppName:   w.AppName,
		ErrorMsg:  err.Error(),
		CreatedAt: time.Now(),
	}

	if dbErr := s.repo.CreateErrorLog(errorLog); dbErr != nil {
		log.Printf("Failed to store error in database: %v (original error: %v)", dbErr, err)
	}
}
