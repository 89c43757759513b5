package etl

import (
	"context"
	"errors"
	"fmt"

	"github.com/BartekS5/tanamao-migrate/internal/catalog"
	"github.com/BartekS5/tanamao-migrate/pkg/models"
	"github.com/BartekS5/tanamao-migrate/pkg/utils"
	"github.com/juju/clock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductResult is a transformed product with its category and shortcuts.
type ProductResult struct {
	Product   models.Product
	Category  *models.Category
	Shortcuts []models.CatalogShortcut
}

// TransformProduct maps a product bundle onto the target company companyID.
// A bundle without settings or with an unknown type code fails with
// MissingDependencyError.
func TransformProduct(b *models.ProductBundle, companyID primitive.ObjectID, media utils.Media, clk clock.Clock) (*ProductResult, error) {
	id := b.Product.ID.Hex()
	if b.Settings == nil {
		return nil, &MissingDependencyError{Entity: "product", ID: id, Dependency: "product settings"}
	}

	now := clk.Now()
	product, err := catalog.BuildProduct(b, companyID, media, now)
	if err != nil {
		var unknown *catalog.UnknownTypeError
		if errors.As(err, &unknown) {
			return nil, &MissingDependencyError{Entity: "product", ID: id, Dependency: "product type mapping", Err: err}
		}
		return nil, err
	}

	res := &ProductResult{Product: product, Shortcuts: catalog.BuildShortcuts(&product, now)}
	if b.Product.Category != nil {
		c := catalog.BuildCategory(b.Product.Category, companyID, now)
		res.Category = &c
	}
	return res, nil
}

// ProductMigrator writes the catalog of one company. CompanyID is the
// company's id in the target store.
type ProductMigrator struct {
	CompanyID  primitive.ObjectID
	Source     LegacySource
	Products   Collection
	Categories Collection
	Shortcuts  Collection
	Media      utils.Media
	Clock      clock.Clock
}

func (m *ProductMigrator) Entity() string { return CollProducts }

func (m *ProductMigrator) Describe(p *models.LegacyProduct) string {
	return fmt.Sprintf("%s (%d)", p.Product, p.SunnyID)
}

func (m *ProductMigrator) Migrate(ctx context.Context, p *models.LegacyProduct, stats *Stats) (Outcome, error) {
	_, err := m.Products.FindID(ctx, Eq(Field{"_id", p.ID}))
	found := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Skipped, fmt.Errorf("lookup product: %w", err)
	}

	bundle, err := m.Source.Bundle(ctx, p)
	if err != nil {
		return Skipped, fmt.Errorf("load product bundle: %w", err)
	}
	res, err := TransformProduct(bundle, m.CompanyID, m.Media, m.Clock)
	if err != nil {
		return Skipped, err
	}

	if res.Category != nil {
		if err := m.ensureCategory(ctx, res.Category, stats); err != nil {
			return Skipped, err
		}
	}

	outcome := Inserted
	if found {
		if err := m.Products.ReplaceByID(ctx, p.ID, &res.Product); err != nil {
			return Skipped, fmt.Errorf("update product: %w", err)
		}
		if _, err := m.Shortcuts.DeleteMany(ctx, Eq(Field{"companyId", m.CompanyID}, Field{"productId", p.ID})); err != nil {
			return Skipped, fmt.Errorf("delete shortcuts: %w", err)
		}
		outcome = Updated
	} else if err := m.Products.Insert(ctx, &res.Product); err != nil {
		return Skipped, fmt.Errorf("insert product: %w", err)
	}

	if len(res.Shortcuts) > 0 {
		writes := make([]Upsert, 0, len(res.Shortcuts))
		for i := range res.Shortcuts {
			s := &res.Shortcuts[i]
			writes = append(writes, Upsert{
				Filter: Eq(Field{"companyId", s.CompanyID}, Field{"productId", s.ProductID}, Field{"categoryId", s.CategoryID}),
				Doc:    s,
			})
		}
		if err := m.Shortcuts.UpsertMany(ctx, writes); err != nil {
			return Skipped, fmt.Errorf("upsert shortcuts: %w", err)
		}
		stats.Add("shortcuts", len(writes))
	}
	return outcome, nil
}

func (m *ProductMigrator) ensureCategory(ctx context.Context, c *models.Category, stats *Stats) error {
	_, err := m.Categories.FindID(ctx, Eq(Field{"_id", c.ID}))
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("lookup category: %w", err)
	}
	if err := m.Categories.Insert(ctx, c); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	stats.Add("categories", 1)
	return nil
}
