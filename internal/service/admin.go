package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
)

// SetBusinessHours replaces the weekly schedule entry for one weekday.
// Cached picklists for affected dates age out with the cache TTL.
func (s *Service) SetBusinessHours(ctx context.Context, weekday int, d model.DayHours) error {
	if err := s.store.UpdateBusinessHours(ctx, weekday, d); err != nil {
		return fmt.Errorf("persist business hours: %w", err)
	}
	s.log.Info().Int("weekday", weekday).Bool("open", d.Open).Msg("business hours updated")
	return nil
}

// BlockDate closes one specific date regardless of the weekly schedule.
func (s *Service) BlockDate(ctx context.Context, date time.Time, reason string) error {
	if err := s.store.BlockDate(ctx, date, reason); err != nil {
		return fmt.Errorf("persist blocked date: %w", err)
	}
	s.slots.InvalidateDate(ctx, date)
	s.log.Info().Str("date", date.Format(model.DateKey)).Str("reason", reason).Msg("date blocked")
	return nil
}

// UnblockDate reopens a previously blocked date.
func (s *Service) UnblockDate(ctx context.Context, date time.Time) error {
	if err := s.store.UnblockDate(ctx, date); err != nil {
		return fmt.Errorf("remove blocked date: %w", err)
	}
	s.slots.InvalidateDate(ctx, date)
	s.log.Info().Str("date", date.Format(model.DateKey)).Msg("date unblocked")
	return nil
}
