package catalog

import (
	"github.com/BartekS5/tanamao-migrate/pkg/models"
)

const (
	DefaultVariationName = "Padrão"
	SingleSizeOptionName = "Tamanho Único"
)

// BuildVariation derives the single variation of p. seed, when set, replaces
// the category or company id in the variation and variation-item ids so that
// nested items share their parent's ids.
func BuildVariation(p *models.LegacyProduct, seed string) models.Variation {
	price := p.Prices.CashPayment

	if c := p.Category; c != nil && c.QtdSelection > 1 {
		categoryID := c.ID.Hex()
		key := firstNonEmpty(seed, categoryID)
		return models.Variation{
			PdvID: "var-" + key,
			Name:  c.Name,
			Options: []models.VariationOption{{
				Name:                     c.Name,
				Price:                    price,
				PdvID:                    "opt-" + categoryID + "-" + p.ID.Hex(),
				VariationItemPdvID:       "varitem-" + key,
				QtdSelection:             c.QtdSelection,
				QtdSelectionChargeHigher: c.QtdSelChargeHigher,
			}},
		}
	}

	companyID := p.CompanyID.String()
	key := firstNonEmpty(seed, companyID)
	return models.Variation{
		PdvID: "var-" + key,
		Name:  DefaultVariationName,
		Options: []models.VariationOption{{
			Name:                     SingleSizeOptionName,
			Price:                    price,
			PdvID:                    "opt-" + companyID + "-" + p.ID.Hex(),
			VariationItemPdvID:       "varitem-" + key,
			QtdSelection:             1,
			QtdSelectionChargeHigher: 1,
		}},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
