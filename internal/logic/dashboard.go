package logic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/scoring"
)

// Config wires a Dashboard. Zero settle values fall back to the defaults below.
type Config struct {
	Scoring  ScoringAPI
	Store    SessionStore
	Queue    ReconcileQueue
	Notifier Notifier
	Logger   *zap.Logger

	SettleDelay       time.Duration
	SettleMaxDelay    time.Duration
	SettleMaxAttempts int

	ReportHistoryLimit int

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Dashboard drives the screen machine of every session
type Dashboard struct {
	scoring  ScoringAPI
	store    SessionStore
	queue    ReconcileQueue
	notifier Notifier
	logger   *zap.SugaredLogger

	settleDelay       time.Duration
	settleMaxDelay    time.Duration
	settleMaxAttempts int
	reportLimit       int

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(cfg Config) *Dashboard {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 500 * time.Millisecond
	}
	if cfg.SettleMaxDelay < cfg.SettleDelay {
		cfg.SettleMaxDelay = 8 * cfg.SettleDelay
	}
	if cfg.SettleMaxAttempts < 1 {
		cfg.SettleMaxAttempts = 4
	}
	if cfg.ReportHistoryLimit <= 0 {
		cfg.ReportHistoryLimit = 50
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}

	return &Dashboard{
		scoring:           cfg.Scoring,
		store:             cfg.Store,
		queue:             cfg.Queue,
		notifier:          cfg.Notifier,
		logger:            cfg.Logger.Sugar(),
		settleDelay:       cfg.SettleDelay,
		settleMaxDelay:    cfg.SettleMaxDelay,
		settleMaxAttempts: cfg.SettleMaxAttempts,
		reportLimit:       cfg.ReportHistoryLimit,
		now:               cfg.Now,
		sleep:             cfg.Sleep,
	}
}

// AttachQueue sets the reconcile queue. The worker pool needs the dashboard to
// exist first, so it is attached after construction.
func (d *Dashboard) AttachQueue(q ReconcileQueue) {
	d.queue = q
}

func sleepContext(ctx context.Context, dur time.Duration) error {
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NewSession creates a session on the home screen and runs the startup loads
func (d *Dashboard) NewSession(ctx context.Context) (*Session, error) {
	now := d.now()
	s := &Session{
		ID:        uuid.NewString(),
		Screen:    ScreenHome,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.store.Create(ctx, s); err != nil {
		return nil, err
	}
	d.logger.Infow("Session created", "session", s.ID)
	return d.Start(ctx, s.ID)
}

// Session returns the stored state of a session
func (d *Dashboard) Session(ctx context.Context, id string) (*Session, error) {
	return d.store.Get(ctx, id)
}

func (d *Dashboard) update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	return d.store.Update(ctx, id, func(s *Session) error {
		if err := fn(s); err != nil {
			return err
		}
		s.UpdatedAt = d.now()
		return nil
	})
}

func (d *Dashboard) publish(sessionID, eventType string, seq uint64) {
	if d.notifier == nil {
		return
	}
	d.notifier.Publish(sessionID, models.SessionEvent{Type: eventType, Seq: seq, Timestamp: d.now()})
}

// Start loads the model catalog and the global history. The two reads are
// independent: a catalog failure leaves an empty catalog and a visible error,
// a history failure is only logged.
func (d *Dashboard) Start(ctx context.Context, id string) (*Session, error) {
	if _, err := d.update(ctx, id, func(s *Session) error {
		s.CatalogLoading = true
		s.CatalogError = ""
		return nil
	}); err != nil {
		return nil, err
	}

	var (
		catalog    *models.Catalog
		catalogErr error
		history    []models.HistoryRecord
		historyErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		catalog, catalogErr = d.scoring.FetchModels(ctx)
		return nil
	})
	g.Go(func() error {
		history, historyErr = d.scoring.FetchHistory(ctx, scoring.HistoryQuery{})
		return nil
	})
	_ = g.Wait()

	if catalogErr != nil {
		d.logger.Errorw("Failed to load model catalog", "session", id, "error", catalogErr)
	}
	if historyErr != nil {
		d.logger.Warnw("Failed to load global history", "session", id, "error", historyErr)
	}

	s, err := d.update(ctx, id, func(s *Session) error {
		s.CatalogLoading = false
		if catalogErr != nil {
			s.CatalogError = MsgCatalogUnavailable
			s.Catalog = &models.Catalog{CategoricalFields: models.CategoricalFieldSet{}}
		} else {
			s.CatalogError = ""
			s.Catalog = catalog
		}
		if historyErr == nil {
			s.GlobalHistory = history
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.publish(id, models.EventCatalogLoaded, s.Seq)
	return s, nil
}

// Continue leaves the home screen for the model picker
func (d *Dashboard) Continue(ctx context.Context, id string) (*Session, error) {
	return d.update(ctx, id, func(s *Session) error {
		if s.Screen != ScreenHome {
			return ErrInvalidTransition
		}
		s.Screen = ScreenModelPicker
		return nil
	})
}

// PickModel opens the prediction form for key. It requires a loaded catalog
// that contains key; otherwise the screen stays on the picker.
func (d *Dashboard) PickModel(ctx context.Context, id, key string) (*Session, error) {
	var pickErr error
	s, err := d.update(ctx, id, func(s *Session) error {
		if s.Screen != ScreenModelPicker {
			return ErrInvalidTransition
		}
		if s.CatalogLoading || s.CatalogError != "" || s.Catalog.Empty() {
			return ErrCatalogUnavailable
		}
		desc, ok := s.Catalog.Lookup(key)
		if !ok {
			return ErrUnknownModel
		}

		form, err := NewForm(desc, s.Catalog)
		if err != nil {
			// keep the picker and show why this model cannot be used
			s.PickerError = err.Error()
			pickErr = err
			return nil
		}

		s.PickerError = ""
		s.SelectedModel = desc.Key
		s.Form = form
		s.clearPrediction()
		s.Screen = ScreenPredictionForm
		return nil
	})
	if err != nil {
		return nil, err
	}
	if pickErr != nil {
		d.logger.Errorw("Model has an unusable field definition", "session", id, "model", key, "error", pickErr)
		return s, pickErr
	}
	return s, nil
}

// ChangeModel returns to the picker and forgets the current model's results.
// Bumping the sequence fences any prediction or reconcile still in flight.
func (d *Dashboard) ChangeModel(ctx context.Context, id string) (*Session, error) {
	return d.update(ctx, id, func(s *Session) error {
		if s.Screen != ScreenPredictionForm {
			return ErrInvalidTransition
		}
		s.Issued++
		s.Seq = s.Issued
		s.clearPrediction()
		s.Form = nil
		s.SelectedModel = ""
		s.Screen = ScreenModelPicker
		return nil
	})
}

// ShowReport switches to the report screen from anywhere
func (d *Dashboard) ShowReport(ctx context.Context, id string) (*Session, error) {
	return d.update(ctx, id, func(s *Session) error {
		s.Screen = ScreenReport
		return nil
	})
}

// BackFromReport returns to the model picker
func (d *Dashboard) BackFromReport(ctx context.Context, id string) (*Session, error) {
	return d.update(ctx, id, func(s *Session) error {
		if s.Screen != ScreenReport {
			return ErrInvalidTransition
		}
		s.Screen = ScreenModelPicker
		return nil
	})
}

// EditForm applies edits without submitting: typed values plus an optional
// increment or decrement.
func (d *Dashboard) EditForm(ctx context.Context, id string, in FormInput) (*Session, error) {
	var editErr error
	s, err := d.update(ctx, id, func(s *Session) error {
		if s.Screen != ScreenPredictionForm || s.Form == nil {
			return ErrNoModelSelected
		}
		editErr = in.Apply(s.Form)
		if editErr != nil {
			s.FormError = editErr.Error()
		} else {
			s.FormError = ""
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, editErr
}

// TogglePlayerSeries shows or hides one stat series on the player chart
func (d *Dashboard) TogglePlayerSeries(ctx context.Context, id, key string) (*Session, error) {
	return d.update(ctx, id, func(s *Session) error {
		if key == "score" {
			return nil
		}
		if s.PlayerHidden == nil {
			s.PlayerHidden = make(map[string]bool)
		}
		s.PlayerHidden[key] = !s.PlayerHidden[key]
		return nil
	})
}

// Submit validates the form, sends the prediction and schedules the history
// reconciliation. A ValidationError never reaches the network. Prediction
// failures are recorded on the form and returned unchanged.
func (d *Dashboard) Submit(ctx context.Context, id string, in FormInput) (*Session, error) {
	var (
		payload  models.PredictionPayload
		seq      uint64
		baseline []time.Time
		rejected error
	)

	s, err := d.update(ctx, id, func(s *Session) error {
		if s.Screen != ScreenPredictionForm || s.Form == nil {
			return ErrNoModelSelected
		}

		if err := in.Apply(s.Form); err != nil {
			rejected = err
			s.FormError = err.Error()
			return nil
		}

		p, err := s.Form.Payload()
		if err == nil {
			if _, ok := s.Catalog.Lookup(p.ModelKey); !ok {
				err = &ValidationError{Field: "model_key", Message: MsgModelRequired}
			}
		}
		if err != nil {
			rejected = err
			s.FormError = err.Error()
			return nil
		}

		s.Issued++
		seq = s.Issued
		payload = p
		baseline = baselineFor(append(append([]models.HistoryRecord{}, s.GlobalHistory...), s.PlayerHistory...), p.PlayerName)
		s.FormError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejected != nil {
		validationFailures.Inc()
		return s, rejected
	}

	// The session's copy of the history may predate records other sessions
	// created for the same player.
	fresh, err := d.scoring.FetchHistory(ctx, scoring.HistoryQuery{PlayerName: payload.PlayerName})
	if err != nil {
		d.logger.Warnw("Baseline history unavailable", "session", id, "player", payload.PlayerName, "error", err)
	} else {
		baseline = append(baseline, baselineFor(fresh, payload.PlayerName)...)
	}

	submittedAt := d.now()
	result, predictErr := d.scoring.PredictPlayer(ctx, payload)

	var stale bool
	s, err = d.update(ctx, id, func(s *Session) error {
		if s.Issued != seq {
			stale = true
			return nil
		}
		if predictErr != nil {
			s.FormError = predictErr.Error()
			return nil
		}

		s.Seq = seq
		stats := make(map[string]any, len(payload.Stats)+1)
		for k, v := range payload.Stats {
			stats[k] = v
		}
		stats[PlayerNameField] = payload.PlayerName

		s.Current = &CurrentPrediction{
			Seq:         seq,
			PlayerName:  payload.PlayerName,
			ModelKey:    payload.ModelKey,
			Score:       result.Score,
			Stats:       stats,
			SubmittedAt: submittedAt,
		}
		s.PlayerHistory = nil
		s.RecordVisible = false
		s.HistoryPending = true
		s.FormError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stale {
		staleResults.WithLabelValues("predict").Inc()
		d.logger.Infow("Discarding stale prediction", "session", id, "seq", seq, "latest", s.Issued)
		if predictErr != nil {
			return s, predictErr
		}
		return s, nil
	}
	if predictErr != nil {
		return s, predictErr
	}

	job := models.ReconcileJob{
		SessionID:   id,
		Seq:         seq,
		PlayerName:  payload.PlayerName,
		ModelKey:    payload.ModelKey,
		Score:       result.Score,
		SubmittedAt: submittedAt,
		Baseline:    baseline,
		Record:      result.Record,
	}

	if d.queue != nil && d.queue.Enqueue(job) {
		return s, nil
	}

	d.logger.Warnw("Reconcile queue unavailable, reconciling inline", "session", id, "seq", seq)
	if err := d.Reconcile(ctx, job); err != nil {
		d.logger.Warnw("Inline reconcile incomplete", "session", id, "error", err)
	}
	latest, err := d.store.Get(ctx, id)
	if err != nil {
		return s, nil
	}
	return latest, nil
}
