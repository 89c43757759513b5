package catalog

import (
	"strconv"

	"github.com/BartekS5/tanamao-migrate/pkg/models"
	"github.com/BartekS5/tanamao-migrate/pkg/utils"
)

const (
	AdditionalsGroupName = "Adicionais"
	BordersGroupName     = "Bordas"
)

func complementItem(child *models.LegacyProduct, pdvID, seed string, media utils.Media, selected bool) models.ComplementItem {
	v := BuildVariation(child, seed)
	return models.ComplementItem{
		PdvID:       pdvID,
		Product:     child.Product,
		Description: child.Description,
		BarCode:     child.Barcode,
		Variations:  &v,
		Price:       0,
		Thumbnails:  media.Thumbnails(child.Images),
		Modifiers:   []string{},
		IsSelected:  selected,
	}
}

// ComplementsFromComponents converts selectable component groups. Items keep
// their position in the legacy group as pdvId; entries whose product no
// longer exists are dropped without shifting the others.
func ComplementsFromComponents(components []models.LegacyProductComponent, seed string, media utils.Media) []models.Complement {
	var out []models.Complement
	for _, c := range components {
		if c.Action != models.ComponentActionSelectable {
			continue
		}
		id := c.ID.Hex()
		group := models.Complement{
			PdvID:        id,
			Name:         c.Name,
			QtdSelection: c.QtdSelection,
			IsRequired:   true,
			GroupID:      id,
			Items:        []models.ComplementItem{},
		}
		for i, entry := range c.Data {
			if entry.Product == nil {
				continue
			}
			group.Items = append(group.Items, complementItem(entry.Product, strconv.Itoa(i), seed, media, c.Selected.Contains(i)))
		}
		out = append(out, group)
	}
	return out
}

// ComplementsFromAdditionals groups normal and quantity additionals into
// "Adicionais" and borders into "Bordas". The first group is always present.
func ComplementsFromAdditionals(additionals []models.LegacyProductAdditional, companyID, seed string, media utils.Media) []models.Complement {
	extras := models.Complement{
		PdvID:      "add-" + companyID,
		Name:       AdditionalsGroupName,
		IsRequired: false,
		GroupID:    "add-" + companyID,
		Items:      []models.ComplementItem{},
	}
	borders := models.Complement{
		PdvID:        "borders-" + companyID,
		Name:         BordersGroupName,
		QtdSelection: 1,
		IsRequired:   false,
		GroupID:      "borders-" + companyID,
		Items:        []models.ComplementItem{},
	}

	for _, a := range additionals {
		if a.Product == nil {
			continue
		}
		item := complementItem(a.Product, a.ID.Hex(), seed, media, false)
		switch a.AdditionalType {
		case models.AdditionalNormal, models.AdditionalQuantity:
			extras.Items = append(extras.Items, item)
		case models.AdditionalBorder:
			borders.Items = append(borders.Items, item)
		}
	}
	extras.QtdSelection = len(extras.Items)

	out := []models.Complement{extras}
	if len(borders.Items) > 0 {
		out = append(out, borders)
	}
	return out
}
