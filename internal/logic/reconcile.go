package logic

import (
	"context"
	"errors"

	"github.com/mymatch/dashboard/internal/models"
	"github.com/mymatch/dashboard/internal/scoring"
)

var errStaleResult = errors.New("stale result")

// Reconcile brings a session's histories up to date after a prediction. The
// player history is read until the new record shows up (bounded backoff), the
// global history is read once, and both are applied only if job is still the
// session's latest submission.
func (d *Dashboard) Reconcile(ctx context.Context, job models.ReconcileJob) error {
	player, visible, playerErr := d.awaitPlayerHistory(ctx, job)
	if playerErr != nil {
		d.logger.Warnw("Player history unavailable", "session", job.SessionID, "player", job.PlayerName, "error", playerErr)
	}

	global, globalErr := d.scoring.FetchHistory(ctx, scoring.HistoryQuery{})
	if globalErr != nil {
		d.logger.Warnw("Global history unavailable", "session", job.SessionID, "error", globalErr)
	}

	s, err := d.update(ctx, job.SessionID, func(s *Session) error {
		if s.Seq != job.Seq {
			return errStaleResult
		}
		s.HistoryPending = false
		if playerErr == nil {
			s.PlayerHistory = player
			s.RecordVisible = visible
		}
		if globalErr == nil {
			s.GlobalHistory = global
		}
		return nil
	})
	switch {
	case errors.Is(err, errStaleResult):
		staleResults.WithLabelValues("reconcile").Inc()
		d.logger.Infow("Discarding stale reconcile", "session", job.SessionID, "seq", job.Seq)
		return nil
	case err != nil:
		return err
	}

	d.publish(job.SessionID, models.EventHistoryReconciled, s.Seq)
	return errors.Join(playerErr, globalErr)
}

// awaitPlayerHistory reads the full history and filters it to the player. When
// the prediction echoed its record one read is enough; otherwise reads are
// spaced SettleDelay, 2*SettleDelay, ... capped at SettleMaxDelay until the new
// record is visible or the attempts run out.
func (d *Dashboard) awaitPlayerHistory(ctx context.Context, job models.ReconcileJob) ([]models.HistoryRecord, bool, error) {
	if job.Record != nil {
		all, err := d.scoring.FetchHistory(ctx, scoring.HistoryQuery{})
		if err != nil {
			return nil, false, err
		}
		player := FilterByPlayer(all, job.PlayerName)
		return player, submissionVisible(player, job), nil
	}

	var (
		player  []models.HistoryRecord
		lastErr error
		loaded  bool
	)
	delay := d.settleDelay
	for attempt := 1; attempt <= d.settleMaxAttempts; attempt++ {
		if err := d.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}

		settleReads.Inc()
		all, err := d.scoring.FetchHistory(ctx, scoring.HistoryQuery{})
		if err != nil {
			lastErr = err
		} else {
			player = FilterByPlayer(all, job.PlayerName)
			loaded = true
			lastErr = nil
			if submissionVisible(player, job) {
				return player, true, nil
			}
		}

		delay *= 2
		if delay > d.settleMaxDelay {
			delay = d.settleMaxDelay
		}
	}

	if !loaded {
		return nil, false, lastErr
	}
	settleMisses.Inc()
	d.logger.Infow("New prediction not visible in history yet", "session", job.SessionID, "player", job.PlayerName, "attempts", d.settleMaxAttempts)
	return player, false, nil
}
