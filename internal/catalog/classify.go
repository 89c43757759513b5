// Package catalog turns legacy products, categories, additionals and
// components into the typed catalog: product types, variations, complement
// groups and listing shortcuts. Everything here is pure.
package catalog

import (
	"fmt"
	"regexp"

	"github.com/BartekS5/tanamao-migrate/pkg/models"
)

var pizzaPattern = regexp.MustCompile(`(?i)pizza`)

// Roles are the memberships of a product in other products' settings.
type Roles struct {
	IsAdditional bool
	IsComponent  bool
}

// UnknownTypeError reports a legacy type code with no catalog equivalent.
type UnknownTypeError struct {
	ProductID string
	Code      string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("product %s: unknown product type %q", e.ProductID, e.Code)
}

var legacyTypes = map[string]models.ProductType{
	"N": models.ProductNormal,
	"C": models.ProductNormal,
	"A": models.ProductAdditional,
	"I": models.ProductIngredient,
}

// ClassifyType infers the catalog type of p. Multi-selection categories win
// over roles, and roles win over the legacy code.
func ClassifyType(p *models.LegacyProduct, roles Roles) (models.ProductType, error) {
	if c := p.Category; c != nil && c.QtdSelection > 1 {
		if pizzaPattern.MatchString(c.Name) || (c.Parent != nil && pizzaPattern.MatchString(c.Parent.Name)) {
			return models.ProductPizza, nil
		}
		return models.ProductVariation, nil
	}
	if roles.IsAdditional {
		return models.ProductAdditional, nil
	}
	if roles.IsComponent {
		return models.ProductIngredient, nil
	}
	if t, ok := legacyTypes[p.ProductType]; ok {
		return t, nil
	}
	return 0, &UnknownTypeError{ProductID: p.ID.Hex(), Code: p.ProductType}
}

// HasShortcut reports whether products of type t are listed in the catalog.
func HasShortcut(t models.ProductType) bool {
	switch t {
	case models.ProductNormal, models.ProductVariation, models.ProductCombo, models.ProductPizza:
		return true
	}
	return false
}
