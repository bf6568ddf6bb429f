package ban

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/partydeck/mafia-server/internal/dependencies/clock"
	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/storage"
)

// Ledger records nickname bans. Records are checked lazily at connect
// time; there is no background sweep.
type Ledger struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewLedger creates a ban Ledger
func NewLedger(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Ledger {
	return &Ledger{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "ban")),
	}
}

// IsBanned returns the active ban record for a nickname, or nil when
// none is in force. A record found expired is purged as a side effect
// of the negative check.
func (l *Ledger) IsBanned(ctx context.Context, nickname model.Nickname) (*model.BanRecord, error) {
	record, err := l.storage.GetBan(ctx, nickname)
	if errors.Is(err, model.ErrBanNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if record.ActiveAt(l.clock.Now()) {
		return record, nil
	}

	// Lazy eviction of the stale record
	if err := l.storage.DeleteBan(ctx, nickname); err != nil {
		return nil, err
	}
	l.logger.Info("expired ban purged", slog.String("nickname", string(nickname)))
	return nil, nil
}

// Ban writes a ban record for the nickname, overwriting any existing
// one. durationHours <= 0 means the ban is permanent.
func (l *Ledger) Ban(ctx context.Context, nickname model.Nickname, reason string, durationHours int) (*model.BanRecord, error) {
	now := l.clock.Now()

	record := &model.BanRecord{
		Nickname:  nickname,
		Reason:    reason,
		CreatedAt: now,
	}
	if durationHours > 0 {
		until := now.Add(time.Duration(durationHours) * time.Hour)
		record.Until = &until
	}

	if err := l.storage.SaveBan(ctx, record); err != nil {
		return nil, err
	}

	l.logger.Info("nickname banned",
		slog.String("nickname", string(nickname)),
		slog.String("reason", reason),
		slog.Int("duration_hours", durationHours))
	return record, nil
}
