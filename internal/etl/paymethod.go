package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BartekS5/tanamao-migrate/pkg/models"
	"github.com/BartekS5/tanamao-migrate/pkg/utils"
	"github.com/juju/clock"
)

// TransformPaymethod maps a legacy payment method.
func TransformPaymethod(p *models.LegacyPaymethod, now time.Time) models.Paymethod {
	return models.Paymethod{
		ID:          utils.StableObjectID(p.ID.String()),
		Description: p.Description,
		IsOnline:    p.OnlineCash,
		IsLocal:     p.SpotCash,
		Code:        utils.NormalizeCode(p.Code),
		IsActive:    p.IsActive,
		Version:     utils.StringOr(p.Version, defaultVersion),
		CreatedAt:   utils.TimeOr(p.CreatedAt, now),
		UpdatedAt:   utils.TimeOr(p.UpdatedAt, now),
	}
}

// PaymethodMigrator writes payment methods matched on id or code.
type PaymethodMigrator struct {
	Paymethods Collection
	Clock      clock.Clock
}

func (m *PaymethodMigrator) Entity() string { return CollPaymethods }

func (m *PaymethodMigrator) Describe(p *models.LegacyPaymethod) string {
	return fmt.Sprintf("%s (%s)", p.Code, p.ID)
}

func (m *PaymethodMigrator) Migrate(ctx context.Context, p *models.LegacyPaymethod, _ *Stats) (Outcome, error) {
	doc := TransformPaymethod(p, m.Clock.Now())

	existing, err := m.Paymethods.FindID(ctx, AnyOf(Field{"_id", doc.ID}, Field{"code", doc.Code}))
	switch {
	case err == nil:
		doc.ID = existing
		if err := m.Paymethods.ReplaceByID(ctx, existing, &doc); err != nil {
			return Skipped, fmt.Errorf("update paymethod: %w", err)
		}
		return Updated, nil
	case errors.Is(err, ErrNotFound):
		if err := m.Paymethods.Insert(ctx, &doc); err != nil {
			return Skipped, fmt.Errorf("insert paymethod: %w", err)
		}
		return Inserted, nil
	default:
		return Skipped, fmt.Errorf("lookup paymethod: %w", err)
	}
}
