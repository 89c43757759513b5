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

const (
	dataRetentionDays = 365
	consentVersion    = "1.0"
	consentIP         = "127.0.0.1"
	consentAgent      = "Migration Script"
	defaultVersion    = "1.0.0"
)

// TransformUser maps a legacy user and applies the LGPD defaults.
func TransformUser(u *models.LegacyUser, now time.Time) models.User {
	created := utils.TimeOr(u.CreatedAt, now)
	updated := utils.TimeOr(u.UpdatedAt, now)

	user := models.User{
		ID:                        utils.StableObjectID(u.ID.String()),
		CompanyID:                 u.CompanyID,
		PdvID:                     u.CustomerID,
		Name:                      u.Name,
		Username:                  u.Username,
		Password:                  u.Password,
		IsActive:                  u.IsActive,
		IsAdmin:                   u.IsAdmin,
		IsConfirmed:               u.IsConfirmed,
		PhotoURL:                  u.PhotoURL,
		CPF:                       u.CPF,
		IsTemporary:               u.IsTemporary,
		Phone:                     u.Phone,
		ExpireAt:                  u.ExpireAt,
		SendWsNotification:        true,
		DashboardPushSubscription: u.DashboardPushSubscription,
		PushSubscription:          u.PushSubscription,
		Version:                   utils.StringOr(u.Version, defaultVersion),
		CreatedAt:                 created,
		UpdatedAt:                 updated,
		PrivacySettings: models.PrivacySettings{
			AllowDataCollection:   true,
			AllowMarketingEmails:  false,
			AllowLocationTracking: false,
			DataRetentionPeriod:   dataRetentionDays,
			ConsentGivenAt:        created,
			ConsentUpdatedAt:      &updated,
		},
		LGPDConsent: models.LGPDConsent{
			HasGivenConsent: true,
			ConsentDate:     now,
			ConsentVersion:  consentVersion,
			IPAddress:       consentIP,
			UserAgent:       consentAgent,
		},
	}

	for _, a := range u.Addresses {
		user.Addresses = append(user.Addresses, models.Address{
			Street:       a.Street,
			Number:       a.Number,
			Reference:    a.Reference,
			Complement:   a.Complement,
			City:         a.City,
			ZipCode:      a.Zipcode,
			Neighborhood: a.Neighborhood,
		})
	}
	return user
}

// UserMigrator writes users matched on id or username.
type UserMigrator struct {
	Users Collection
	Clock clock.Clock
}

func (m *UserMigrator) Entity() string { return CollUsers }

func (m *UserMigrator) Describe(u *models.LegacyUser) string {
	return fmt.Sprintf("%s (%s)", u.Username, u.ID)
}

func (m *UserMigrator) Migrate(ctx context.Context, u *models.LegacyUser, _ *Stats) (Outcome, error) {
	doc := TransformUser(u, m.Clock.Now())

	existing, err := m.Users.FindID(ctx, AnyOf(Field{"_id", doc.ID}, Field{"username", u.Username}))
	switch {
	case err == nil:
		doc.ID = existing
		if err := m.Users.ReplaceByID(ctx, existing, &doc); err != nil {
			return Skipped, fmt.Errorf("update user: %w", err)
		}
		return Updated, nil
	case errors.Is(err, ErrNotFound):
		if err := m.Users.Insert(ctx, &doc); err != nil {
			return Skipped, fmt.Errorf("insert user: %w", err)
		}
		return Inserted, nil
	default:
		return Skipped, fmt.Errorf("lookup user: %w", err)
	}
}
