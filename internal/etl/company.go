package etl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BartekS5/tanamao-migrate/internal/crosswalk"
	"github.com/BartekS5/tanamao-migrate/internal/geocode"
	"github.com/BartekS5/tanamao-migrate/pkg/logger"
	"github.com/BartekS5/tanamao-migrate/pkg/models"
	"github.com/BartekS5/tanamao-migrate/pkg/utils"
	"github.com/juju/clock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"
)

const (
	defaultTimezone        = "America/Sao_Paulo"
	defaultDeliveryTime    = 30
	defaultPickupTime      = 15
	defaultMaxDeliveryTime = 60
	areaVersion            = "2.0.0"
	surchargeBaseKm        = 5
	surchargePerKm         = 2
)

// Resolver resolves a free-text place; nil means not found.
type Resolver interface {
	Resolve(ctx context.Context, query string) *geocode.Result
}

// CompanyResult is a transformed company with its delivery areas.
type CompanyResult struct {
	Company  models.Company
	Areas    []models.DeliveryArea
	Warnings []*MappingWarning
}

// CompanyTransformer geocodes and maps legacy companies. Every geocode call
// waits on Limiter first.
type CompanyTransformer struct {
	Geocoder  Resolver
	Crosswalk *crosswalk.Map
	Limiter   *rate.Limiter
	Media     utils.Media
	Clock     clock.Clock
}

func (t *CompanyTransformer) resolve(ctx context.Context, query string) *geocode.Result {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(ctx); err != nil {
			return nil
		}
	}
	r := t.Geocoder.Resolve(ctx, query)
	if r == nil || !r.HasCoordinates {
		return nil
	}
	return r
}

func joinQuery(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// locate resolves the company address, first with its primary city and
// then alone. A company without a street address cannot be located.
func (t *CompanyTransformer) locate(ctx context.Context, c *models.LegacyCompany) (*models.GeoPoint, error) {
	address := geocode.SanitizeAddress(c.Location.Address)
	if address == "" {
		return nil, &NoLocationFoundError{Company: c.Name, Address: c.Location.Address}
	}

	full := address
	if len(c.Cities) > 0 {
		full = joinQuery(address, c.Cities[0].Name, c.Cities[0].UF)
	}
	if r := t.resolve(ctx, full); r != nil {
		return models.NewGeoPoint(r.Latitude, r.Longitude), nil
	}
	if full != address {
		logger.Debugf("company %s: retrying geocode with address only", c.Name)
		if r := t.resolve(ctx, address); r != nil {
			return models.NewGeoPoint(r.Latitude, r.Longitude), nil
		}
	}
	return nil, &NoLocationFoundError{Company: c.Name, Address: c.Location.Address}
}

func (t *CompanyTransformer) paymethods(c *models.LegacyCompany, record string) ([]primitive.ObjectID, []*MappingWarning) {
	ids := []primitive.ObjectID{}
	var warnings []*MappingWarning
	seen := map[primitive.ObjectID]bool{}

	for _, ref := range c.Paymethods {
		if t.Crosswalk == nil {
			warnings = append(warnings, &MappingWarning{Record: record, Reference: ref.String(), Reason: "no crosswalk"})
			continue
		}
		id, code, ok := t.Crosswalk.Resolve(ref.String())
		if !ok {
			warnings = append(warnings, &MappingWarning{Record: record, Reference: ref.String(), Reason: fmt.Sprintf("code %q has no target paymethod", code)})
			continue
		}
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			warnings = append(warnings, &MappingWarning{Record: record, Reference: ref.String(), Reason: fmt.Sprintf("invalid target id %q", id)})
			continue
		}
		if !seen[oid] {
			seen[oid] = true
			ids = append(ids, oid)
		}
	}
	return ids, warnings
}

// DeliveryConfigFor derives the default delivery policy of a company.
func DeliveryConfigFor(c *models.LegacyCompany) models.DeliveryConfig {
	cfg := models.DeliveryConfig{
		AllowDelivery:   c.IsDeliveryActive,
		DeliveryFee:     utils.Money(c.DeliveryFee),
		MinOrderValue:   utils.Money(c.MinValue),
		MaxDeliveryTime: utils.IntOr(c.AvgDelivery, defaultMaxDeliveryTime),
		IsActive:        c.IsDeliveryActive,
		SurchargeRules: models.SurchargeRules{
			DistanceSurcharge: models.DistanceSurcharge{
				BaseDistance:  surchargeBaseKm,
				ExtraFeePerKm: surchargePerKm,
			},
		},
	}
	if c.MinValue != 0 {
		free := utils.MultiplyMoney(c.MinValue, 2)
		cfg.FreeDeliveryMinValue = &free
	}
	return cfg
}

func areaName(city models.LegacyCity) string {
	name := strings.TrimSpace(city.Name)
	if uf := strings.TrimSpace(city.UF); uf != "" {
		name += " - " + uf
	}
	return name
}

// cities returns the cities that get a delivery area, once per name and UF.
func cities(c *models.LegacyCompany, record string) ([]models.LegacyCity, []*MappingWarning) {
	var out []models.LegacyCity
	var warnings []*MappingWarning
	seen := map[string]bool{}
	for _, city := range c.Cities {
		if strings.TrimSpace(city.Name) == "" {
			warnings = append(warnings, &MappingWarning{Record: record, Reference: city.ID.String(), Reason: "city without name"})
			continue
		}
		key := strings.ToLower(areaName(city))
		if seen[key] {
			warnings = append(warnings, &MappingWarning{Record: record, Reference: areaName(city), Reason: "duplicate city"})
			continue
		}
		seen[key] = true
		out = append(out, city)
	}
	return out, warnings
}

func (t *CompanyTransformer) area(ctx context.Context, companyID primitive.ObjectID, city models.LegacyCity, cfg models.DeliveryConfig, now time.Time) models.DeliveryArea {
	name := areaName(city)
	label := joinQuery(city.Name, city.UF)
	area := models.DeliveryArea{
		ID:        utils.StableObjectID(companyID.Hex() + ":" + name),
		AreaType:  models.DeliveryAreaCity,
		CompanyID: companyID,
		Name:      name,
		Priority:  1,
		Config:    cfg,
		IsActive:  true,
		Version:   areaVersion,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r := t.resolve(ctx, joinQuery(city.Name, city.UF, "Brazil"))
	if r == nil {
		area.Description = fmt.Sprintf("Área de entrega para %s (dados geográficos não encontrados)", label)
		return area
	}

	area.Description = fmt.Sprintf("Área de entrega para %s", label)
	area.Geometry = &models.AreaGeometry{
		Center:  *models.NewGeoPoint(r.Latitude, r.Longitude),
		Polygon: models.GeoPolygon{Type: "Polygon", Coordinates: r.Polygon},
		PlaceReference: &models.PlaceReference{
			PlaceID:  r.PlaceID,
			TimeZone: defaultTimezone,
			LastSync: now,
		},
	}
	return area
}

// Transform maps c to a target company with id and one delivery area per
// distinct named city.
func (t *CompanyTransformer) Transform(ctx context.Context, c *models.LegacyCompany, id primitive.ObjectID) (*CompanyResult, error) {
	now := t.Clock.Now()
	record := fmt.Sprintf("company %s", c.Name)

	center, err := t.locate(ctx, c)
	if err != nil {
		return nil, err
	}

	payMethods, warnings := t.paymethods(c, record)

	var categories []models.BusinessCategoryRef
	for _, ref := range c.BusinessCategoryIDs {
		if oid, ok := ref.ObjectID(); ok {
			categories = append(categories, models.BusinessCategoryRef{ID: oid})
		}
	}

	var banner string
	if c.Banner != nil && c.Banner.Path != "" {
		banner = t.Media.Original(c.Banner.Path)
	}
	var logo string
	if c.URILogo != "" {
		logo = t.Media.Thumbnail(c.URILogo)
	}

	location := models.CompanyLocation{
		Address:  c.Location.Address,
		Timezone: utils.StringOr(c.Location.UTCOffset, defaultTimezone),
		Center:   center,
	}

	company := models.Company{
		ID:                  id,
		Name:                c.Name,
		IsVisible:           c.IsVisible,
		Phone:               c.Phone,
		URI:                 c.URI,
		URLLogo:             logo,
		URLBanner:           banner,
		CNPJ:                c.CNPJ,
		MinValue:            utils.Money(c.MinValue),
		IsActive:            c.IsActive,
		Wildcards:           c.Wildcards,
		PayMethods:          payMethods,
		Location:            location,
		DeliveryTime:        utils.IntOr(c.AvgDelivery, defaultDeliveryTime),
		DeliveryFee:         utils.Money(c.DeliveryFee),
		PickupTime:          utils.IntOr(c.AvgLocal, defaultPickupTime),
		IsPickupActive:      c.IsLocalActive,
		AllowTemporaryUsers: c.AllowTemporaryUsers,
		UseMenu:             c.UseMenu,
		AdmPhone:            c.AdmPhone,
		UseLocalCash:        c.UseSpotCash,
		UseOnlineCash:       c.UseOnlineCash,
		IsDeliveryActive:    c.IsDeliveryActive,
		IsDeliveryPaused:    false,
		IsLocalActive:       c.IsLocalActive,
		BusinessHours:       c.BusinessHours,
		BusinessCategories:  categories,
		CatalogUpdatedAt:    c.UpdatedAt,
		CatalogIndex:        c.CatalogIndex,
		CatalogName:         c.CatalogName,
		PingExpireAt:        c.PingExpireAt,
		IsLocalReadonly:     c.IsLocalReadonly,
		UseIfood:            false,
		PixType:             c.PixType,
		PixKey:              c.PixKey,
		PixKeyType:          c.PixKeyType,
		PixContact:          c.PixContact,
		PixName:             c.PixName,
		Rating:              c.BusinessScore,
		ReviewCount:         0,
		CreatedAt:           utils.TimeOr(c.CreatedAt, now),
		UpdatedAt:           utils.TimeOr(c.UpdatedAt, now),
	}

	served, skipped := cities(c, record)
	warnings = append(warnings, skipped...)

	cfg := DeliveryConfigFor(c)
	areas := make([]models.DeliveryArea, 0, len(served))
	for _, city := range served {
		areas = append(areas, t.area(ctx, id, city, cfg, now))
	}

	return &CompanyResult{Company: company, Areas: areas, Warnings: warnings}, nil
}

// CompanyMigrator writes companies matched on id, cnpj or uri, replacing
// their delivery areas on every run.
type CompanyMigrator struct {
	Companies   Collection
	Areas       Collection
	Transformer *CompanyTransformer
}

func (m *CompanyMigrator) Entity() string { return CollCompanies }

func (m *CompanyMigrator) Describe(c *models.LegacyCompany) string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}

func (m *CompanyMigrator) Migrate(ctx context.Context, c *models.LegacyCompany, stats *Stats) (Outcome, error) {
	id := utils.StableObjectID(c.ID.String())
	existing, err := m.Companies.FindID(ctx, AnyOf(Field{"_id", id}, Field{"cnpj", c.CNPJ}, Field{"uri", c.URI}))
	found := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Skipped, fmt.Errorf("lookup company: %w", err)
	}
	if found {
		id = existing
	}

	res, err := m.Transformer.Transform(ctx, c, id)
	if err != nil {
		return Skipped, err
	}
	for _, w := range res.Warnings {
		stats.Warn(w)
	}

	areas := make([]interface{}, 0, len(res.Areas))
	for i := range res.Areas {
		areas = append(areas, &res.Areas[i])
	}

	outcome := Inserted
	if found {
		if err := m.Companies.ReplaceByID(ctx, id, &res.Company); err != nil {
			return Skipped, fmt.Errorf("update company: %w", err)
		}
		deleted, err := m.Areas.DeleteMany(ctx, Eq(Field{"companyId", id}))
		if err != nil {
			return Skipped, fmt.Errorf("delete delivery areas: %w", err)
		}
		logger.Debugf("company %s: replaced %d delivery areas", c.Name, deleted)
		outcome = Updated
	} else if err := m.Companies.Insert(ctx, &res.Company); err != nil {
		return Skipped, fmt.Errorf("insert company: %w", err)
	}

	if len(areas) > 0 {
		if err := m.Areas.Insert(ctx, areas...); err != nil {
			return Skipped, fmt.Errorf("insert delivery areas: %w", err)
		}
	}
	stats.Add("deliveryAreas", len(areas))
	return outcome, nil
}
