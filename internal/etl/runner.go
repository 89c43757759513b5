package etl

import (
	"context"
	"errors"
	"fmt"

	"github.com/BartekS5/tanamao-migrate/internal/config"
	"github.com/BartekS5/tanamao-migrate/internal/crosswalk"
	"github.com/BartekS5/tanamao-migrate/internal/ledger"
	"github.com/BartekS5/tanamao-migrate/pkg/logger"
	"github.com/BartekS5/tanamao-migrate/pkg/models"
	"github.com/BartekS5/tanamao-migrate/pkg/utils"
	"github.com/juju/clock"
	"golang.org/x/time/rate"
)

// Runner wires stores and collaborators into entity migrations. Any error
// it returns comes from a setup step; per-record failures only show in the
// stats.
type Runner struct {
	Legacy   LegacySource
	Target   Target
	Geocoder Resolver
	// PaymethodRefs feed the paymethod crosswalk used by companies.
	LegacyPaymethodRefs crosswalk.Source
	TargetPaymethodRefs crosswalk.Source
	Profile             *config.Profile
	Clock               clock.Clock
	Ledger              ledger.Recorder
	RunID               string
}

func (r *Runner) media() utils.Media { return utils.NewMedia(r.Profile.MediaBaseURL) }

func (r *Runner) finish(ctx context.Context, stats *Stats) {
	stats.Log()
	if r.Ledger == nil {
		return
	}
	err := r.Ledger.Record(ctx, ledger.Summary{
		RunID:    r.RunID,
		Entity:   stats.Entity,
		Migrated: stats.Migrated,
		Updated:  stats.Updated,
		Skipped:  stats.Skipped,
		Errors:   stats.Errors,
		Total:    stats.Total,
		Extra:    stats.Extra,
		Started:  stats.Started,
		Finished: stats.Finished,
	})
	if err != nil {
		logger.Warnf("ledger: %v", err)
	}
}

// Users migrates non-temporary users updated since the profile cutoff.
func (r *Runner) Users(ctx context.Context) (*Stats, error) {
	records, err := r.Legacy.Users(ctx, r.Profile.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy users: %w", err)
	}
	p := NewPipeline[models.LegacyUser](r.Profile.Users.BatchSize, r.Profile.Users.RecordDelay(), r.Clock)
	stats := p.Run(ctx, records, &UserMigrator{Users: r.Target.Collection(CollUsers), Clock: r.Clock})
	r.finish(ctx, stats)
	return stats, nil
}

// Paymethods migrates every legacy payment method.
func (r *Runner) Paymethods(ctx context.Context) (*Stats, error) {
	records, err := r.Legacy.Paymethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy paymethods: %w", err)
	}
	p := NewPipeline[models.LegacyPaymethod](r.Profile.Paymethods.BatchSize, r.Profile.Paymethods.RecordDelay(), r.Clock)
	stats := p.Run(ctx, records, &PaymethodMigrator{Paymethods: r.Target.Collection(CollPaymethods), Clock: r.Clock})
	r.finish(ctx, stats)
	return stats, nil
}

// Companies migrates active companies updated since the profile cutoff
// with their delivery areas.
func (r *Runner) Companies(ctx context.Context) (*Stats, error) {
	cw, err := crosswalk.Build(ctx, r.LegacyPaymethodRefs, r.TargetPaymethodRefs)
	if err != nil {
		return nil, fmt.Errorf("failed to build paymethod crosswalk: %w", err)
	}
	legacyCodes, targetCodes := cw.Len()
	logger.Infof("Paymethod crosswalk ready: %d legacy ids, %d target codes", legacyCodes, targetCodes)

	records, err := r.Legacy.Companies(ctx, r.Profile.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy companies: %w", err)
	}

	limit := rate.Inf
	if pacing := r.Profile.Geocode.Pacing(); pacing > 0 {
		limit = rate.Every(pacing)
	}
	migrator := &CompanyMigrator{
		Companies: r.Target.Collection(CollCompanies),
		Areas:     r.Target.Collection(CollDeliveryAreas),
		Transformer: &CompanyTransformer{
			Geocoder:  r.Geocoder,
			Crosswalk: cw,
			Limiter:   rate.NewLimiter(limit, 1),
			Media:     r.media(),
			Clock:     r.Clock,
		},
	}
	p := NewPipeline[models.LegacyCompany](r.Profile.Companies.BatchSize, r.Profile.Companies.RecordDelay(), r.Clock)
	stats := p.Run(ctx, records, migrator)
	r.finish(ctx, stats)
	return stats, nil
}

// Products migrates the catalog of the company with the given legacy uri.
// The company must already be migrated; its products are attached to the
// target document matched on id, cnpj or uri.
func (r *Runner) Products(ctx context.Context, uri string) (*Stats, error) {
	company, err := r.Legacy.CompanyByURI(ctx, uri)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("company with uri %q not found in legacy store", uri)
	}
	if err != nil {
		return nil, err
	}

	companyID, err := r.Target.Collection(CollCompanies).FindID(ctx, AnyOf(
		Field{"_id", utils.StableObjectID(company.ID.String())},
		Field{"cnpj", company.CNPJ},
		Field{"uri", company.URI},
	))
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("company with uri %q not found in target store, migrate companies first", uri)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up target company: %w", err)
	}
	logger.Infof("Company %q: legacy id %s, target id %s", uri, company.ID, companyID.Hex())

	records, err := r.Legacy.Products(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy products: %w", err)
	}
	if len(records) == 0 {
		logger.Warnf("No products found for company %q", uri)
	}

	migrator := &ProductMigrator{
		CompanyID:  companyID,
		Source:     r.Legacy,
		Products:   r.Target.Collection(CollProducts),
		Categories: r.Target.Collection(CollCategories),
		Shortcuts:  r.Target.Collection(CollShortcuts),
		Media:      r.media(),
		Clock:      r.Clock,
	}
	p := NewPipeline[models.LegacyProduct](r.Profile.Products.BatchSize, r.Profile.Products.RecordDelay(), r.Clock)
	stats := p.Run(ctx, records, migrator)
	r.finish(ctx, stats)
	return stats, nil
}

// All runs users, paymethods and companies in that order. Companies need
// migrated paymethods for their crosswalk.
func (r *Runner) All(ctx context.Context) ([]*Stats, error) {
	steps := []func(context.Context) (*Stats, error){r.Users, r.Paymethods, r.Companies}
	var all []*Stats
	for _, step := range steps {
		stats, err := step(ctx)
		if err != nil {
			return all, err
		}
		all = append(all, stats)
		if ctx.Err() != nil {
			return all, ctx.Err()
		}
	}
	return all, nil
}
