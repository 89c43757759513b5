package catalog

import (
	"strconv"
	"time"

	"github.com/BartekS5/tanamao-migrate/pkg/models"
	"github.com/BartekS5/tanamao-migrate/pkg/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProductVersion = "2.0.0"
	DefaultMaxQtd  = 100
)

// BuildCategory converts a legacy category of the target company companyID,
// prefixing the parent's name.
func BuildCategory(c *models.LegacyCategory, companyID primitive.ObjectID, now time.Time) models.Category {
	name := c.Name
	if c.Parent != nil {
		name = c.Parent.Name + " - " + c.Name
	}
	var pdvID string
	if c.SunnyID != 0 {
		pdvID = strconv.Itoa(c.SunnyID)
	}
	return models.Category{
		ID:               c.ID,
		CompanyID:        companyID,
		PdvID:            pdvID,
		Name:             name,
		Index:            c.Idx,
		URLIcon:          c.URIIcon,
		IsVisible:        c.IsVisible,
		CatalogIndex:     c.CatalogIndex,
		IsDeliveryActive: c.IsDeliveryActive,
		IsLocalActive:    c.IsLocalActive,
		CreatedAt:        utils.TimeOr(c.CreatedAt, now),
		UpdatedAt:        utils.TimeOr(c.UpdatedAt, now),
	}
}

// BuildProduct converts the product of b with its complements and attaches
// it to the target company companyID. Settings presence is checked by the
// caller.
func BuildProduct(b *models.ProductBundle, companyID primitive.ObjectID, media utils.Media, now time.Time) (models.Product, error) {
	p := &b.Product
	productType, err := ClassifyType(p, Roles{IsAdditional: b.IsAdditional, IsComponent: b.IsComponent})
	if err != nil {
		return models.Product{}, err
	}

	pdvID := p.Barcode
	if p.SunnyID != 0 {
		pdvID = strconv.Itoa(p.SunnyID)
	}

	var categoryIDs []primitive.ObjectID
	var catalogIndex *int
	seed := ""
	if !p.CategoryID.IsZero() {
		categoryIDs = append(categoryIDs, p.CategoryID)
		seed = p.CategoryID.Hex()
	}
	if p.Category != nil {
		idx := p.Category.CatalogIndex
		catalogIndex = &idx
	}

	complements := ComplementsFromComponents(b.Components, seed, media)
	complements = append(complements, ComplementsFromAdditionals(b.Additionals, companyID.Hex(), seed, media)...)

	wildcards := p.Wildcards
	if wildcards == nil {
		wildcards = []string{}
	}

	return models.Product{
		ID:               p.ID,
		CategoriesIDs:    categoryIDs,
		CompanyID:        companyID,
		PdvID:            pdvID,
		Product:          p.Product,
		Description:      p.Description,
		BarCode:          p.Barcode,
		Measure:          p.Measure,
		IsActive:         p.IsActive,
		Variations:       BuildVariation(p, ""),
		SupplyManagement: p.SupplyManagement,
		Images:           media.Images(p.Images),
		Thumbnails:       media.Thumbnails(p.Images),
		Wildcards:        wildcards,
		IsAvailable:      p.IsAvailable,
		IsDeliveryActive: p.IsDeliveryActive,
		IsLocalActive:    p.IsLocalActive,
		CatalogIndex:     catalogIndex,
		ProductType:      productType,
		MaxQtd:           DefaultMaxQtd,
		Complements:      complements,
		Version:          ProductVersion,
		CreatedAt:        utils.TimeOr(p.CreatedAt, now),
		UpdatedAt:        utils.TimeOr(p.UpdatedAt, now),
	}, nil
}

// BuildShortcuts lists p once per category. Products of unlisted types get none.
func BuildShortcuts(p *models.Product, now time.Time) []models.CatalogShortcut {
	if !HasShortcut(p.ProductType) {
		return nil
	}

	photo := ""
	if len(p.Thumbnails) > 0 {
		photo = p.Thumbnails[0]
	}
	prices := make([]float64, 0, len(p.Variations.Options))
	itemIDs := make([]string, 0, len(p.Variations.Options))
	for _, o := range p.Variations.Options {
		prices = append(prices, o.Price)
		itemIDs = append(itemIDs, o.VariationItemPdvID)
	}

	out := make([]models.CatalogShortcut, 0, len(p.CategoriesIDs))
	for _, categoryID := range p.CategoriesIDs {
		out = append(out, models.CatalogShortcut{
			CompanyID:           p.CompanyID,
			ProductID:           p.ID,
			CategoryID:          categoryID,
			Name:                p.Product,
			Photo:               photo,
			Description:         p.Description,
			Prices:              prices,
			ProductType:         p.ProductType,
			IsActive:            p.IsActive,
			IsAvailable:         p.IsAvailable,
			IsDeliveryActive:    p.IsDeliveryActive,
			IsLocalActive:       p.IsLocalActive,
			VariationID:         p.Variations.PdvID,
			VariationItemsPdvID: itemIDs,
			Wildcards:           p.Wildcards,
			UpdatedAt:           now,
		})
	}
	return out
}
