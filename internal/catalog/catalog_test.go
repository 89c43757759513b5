package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/BartekS5/tanamao-migrate/pkg/models"
	"github.com/BartekS5/tanamao-migrate/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	media     = utils.NewMedia("https://cdn.example.com")
	companyID = mustOID("64a000000000000000000001")
	now       = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func mustOID(hex string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return oid
}

func category(name string, qtd int) *models.LegacyCategory {
	return &models.LegacyCategory{
		ID:                 primitive.NewObjectID(),
		CompanyID:          models.LegacyID(companyID.Hex()),
		Name:               name,
		QtdSelection:       qtd,
		QtdSelChargeHigher: 1,
		CatalogIndex:       2,
	}
}

func product(name, code string, c *models.LegacyCategory) *models.LegacyProduct {
	p := &models.LegacyProduct{
		ID:          primitive.NewObjectID(),
		CompanyID:   models.LegacyID(companyID.Hex()),
		Product:     name,
		ProductType: code,
		Prices:      models.LegacyPrices{CashPayment: 39.9},
		Images:      []string{name + ".png"},
		Category:    c,
	}
	if c != nil {
		p.CategoryID = c.ID
	}
	return p
}

func TestClassifyType(t *testing.T) {
	parent := category("Pizzas Doces", 1)
	child := category("Grande", 2)
	child.Parent = parent

	cases := []struct {
		name  string
		p     *models.LegacyProduct
		roles Roles
		want  models.ProductType
	}{
		{"pizza category", product("Calabresa", "N", category("PIZZAS", 2)), Roles{}, models.ProductPizza},
		{"pizza parent", product("Chocolate", "N", child), Roles{}, models.ProductPizza},
		{"variation category", product("Açaí", "N", category("Açaí 500ml", 3)), Roles{}, models.ProductVariation},
		{"selection wins over roles", product("Meia", "A", category("Pizza Meio a Meio", 2)), Roles{IsAdditional: true, IsComponent: true}, models.ProductPizza},
		{"additional role", product("Bacon", "N", category("Extras", 1)), Roles{IsAdditional: true, IsComponent: true}, models.ProductAdditional},
		{"component role", product("Queijo", "N", category("Extras", 1)), Roles{IsComponent: true}, models.ProductIngredient},
		{"code N", product("X-Burger", "N", category("Lanches", 1)), Roles{}, models.ProductNormal},
		{"code C", product("Combo", "C", nil), Roles{}, models.ProductNormal},
		{"code A", product("Molho", "A", nil), Roles{}, models.ProductAdditional},
		{"code I", product("Tomate", "I", nil), Roles{}, models.ProductIngredient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ClassifyType(tc.p, tc.roles)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("unknown code", func(t *testing.T) {
		_, err := ClassifyType(product("Misterio", "Z", nil), Roles{})
		var unknown *UnknownTypeError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "Z", unknown.Code)
	})
}

func TestClassifyPizzaIgnoresCodeAndRoles(t *testing.T) {
	c := category("Pizza Tradicional", 2)
	for _, code := range []string{"N", "C", "A", "I", "Z", ""} {
		for _, roles := range []Roles{{}, {IsAdditional: true}, {IsComponent: true}, {IsAdditional: true, IsComponent: true}} {
			got, err := ClassifyType(product("Sabor", code, c), roles)
			require.NoError(t, err)
			assert.Equal(t, models.ProductPizza, got, "code %q roles %+v", code, roles)
		}
	}
}

func TestHasShortcut(t *testing.T) {
	for _, pt := range []models.ProductType{models.ProductNormal, models.ProductVariation, models.ProductCombo, models.ProductPizza} {
		assert.True(t, HasShortcut(pt), pt.String())
	}
	for _, pt := range []models.ProductType{models.ProductIngredient, models.ProductSubProduct, models.ProductAdditional, models.ProductBorder, models.ProductDough} {
		assert.False(t, HasShortcut(pt), pt.String())
	}
}

func TestBuildVariation(t *testing.T) {
	t.Run("multi selection category", func(t *testing.T) {
		c := category("Pizza Grande", 2)
		p := product("Portuguesa", "N", c)
		v := BuildVariation(p, "")

		assert.Equal(t, "var-"+c.ID.Hex(), v.PdvID)
		assert.Equal(t, "Pizza Grande", v.Name)
		require.Len(t, v.Options, 1)
		o := v.Options[0]
		assert.Equal(t, "Pizza Grande", o.Name)
		assert.Equal(t, 39.9, o.Price)
		assert.Equal(t, "opt-"+c.ID.Hex()+"-"+p.ID.Hex(), o.PdvID)
		assert.Equal(t, "varitem-"+c.ID.Hex(), o.VariationItemPdvID)
		assert.Equal(t, 2, o.QtdSelection)
		assert.Equal(t, 1, o.QtdSelectionChargeHigher)
	})

	t.Run("single size", func(t *testing.T) {
		p := product("Coca-Cola", "N", category("Bebidas", 1))
		v := BuildVariation(p, "")

		assert.Equal(t, "var-"+companyID.Hex(), v.PdvID)
		assert.Equal(t, DefaultVariationName, v.Name)
		require.Len(t, v.Options, 1)
		assert.Equal(t, SingleSizeOptionName, v.Options[0].Name)
		assert.Equal(t, 1, v.Options[0].QtdSelection)
		assert.Equal(t, "opt-"+companyID.Hex()+"-"+p.ID.Hex(), v.Options[0].PdvID)
	})

	t.Run("seed replaces the group id", func(t *testing.T) {
		v := BuildVariation(product("Borda", "N", nil), "seed42")
		assert.Equal(t, "var-seed42", v.PdvID)
		assert.Equal(t, "varitem-seed42", v.Options[0].VariationItemPdvID)
	})
}

func TestComplementsFromComponents(t *testing.T) {
	cheese := product("Queijo", "I", nil)
	ham := product("Presunto", "I", nil)
	components := []models.LegacyProductComponent{
		{
			ID:           primitive.NewObjectID(),
			Name:         "Recheio",
			QtdSelection: 2,
			Selected:     models.SelectionList{1},
			Action:       models.ComponentActionSelectable,
			Data: []models.LegacyComponentEntry{
				{ComponentID: cheese.ID, Product: cheese},
				{ComponentID: ham.ID, Product: ham},
				{ComponentID: primitive.NewObjectID()},
			},
		},
		{ID: primitive.NewObjectID(), Name: "Fixos", Action: "F", Data: []models.LegacyComponentEntry{{Product: cheese}}},
	}

	groups := ComplementsFromComponents(components, "cat1", media)
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "Recheio", g.Name)
	assert.True(t, g.IsRequired)
	assert.Equal(t, 2, g.QtdSelection)
	assert.Equal(t, components[0].ID.Hex(), g.GroupID)

	require.Len(t, g.Items, 2)
	assert.Equal(t, "0", g.Items[0].PdvID)
	assert.False(t, g.Items[0].IsSelected)
	assert.Equal(t, "1", g.Items[1].PdvID)
	assert.True(t, g.Items[1].IsSelected)
	assert.Equal(t, "var-cat1", g.Items[1].Variations.PdvID)
	assert.Equal(t, []string{"https://cdn.example.com/100x100/Presunto.png"}, g.Items[1].Thumbnails)
	assert.Zero(t, g.Items[1].Price)
}

func TestComplementsFromAdditionals(t *testing.T) {
	add := func(kind string, p *models.LegacyProduct) models.LegacyProductAdditional {
		return models.LegacyProductAdditional{ID: primitive.NewObjectID(), AdditionalID: p.ID, AdditionalType: kind, Product: p}
	}

	t.Run("normal quantity and border", func(t *testing.T) {
		additionals := []models.LegacyProductAdditional{
			add(models.AdditionalNormal, product("Bacon", "A", nil)),
			add(models.AdditionalQuantity, product("Ovo", "A", nil)),
			add(models.AdditionalBorder, product("Catupiry", "A", nil)),
		}
		groups := ComplementsFromAdditionals(additionals, companyID.Hex(), "cat1", media)
		require.Len(t, groups, 2)

		assert.Equal(t, AdditionalsGroupName, groups[0].Name)
		assert.Equal(t, "add-"+companyID.Hex(), groups[0].PdvID)
		assert.Equal(t, 2, groups[0].QtdSelection)
		assert.Len(t, groups[0].Items, 2)
		assert.Equal(t, additionals[0].ID.Hex(), groups[0].Items[0].PdvID)

		assert.Equal(t, BordersGroupName, groups[1].Name)
		assert.Equal(t, 1, groups[1].QtdSelection)
		assert.Len(t, groups[1].Items, 1)

		for _, g := range groups {
			assert.False(t, g.IsRequired)
			for _, it := range g.Items {
				assert.False(t, it.IsSelected)
			}
		}
	})

	t.Run("no borders means one group", func(t *testing.T) {
		groups := ComplementsFromAdditionals(nil, companyID.Hex(), "", media)
		require.Len(t, groups, 1)
		assert.Equal(t, AdditionalsGroupName, groups[0].Name)
		assert.Zero(t, groups[0].QtdSelection)
		assert.NotNil(t, groups[0].Items)
	})
}

func TestBuildCategory(t *testing.T) {
	parent := category("Pizzas", 1)
	c := category("Doces", 2)
	c.Parent = parent
	c.SunnyID = 17

	shop := primitive.NewObjectID()
	got := BuildCategory(c, shop, now)
	assert.Equal(t, "Pizzas - Doces", got.Name)
	assert.Equal(t, "17", got.PdvID)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, shop, got.CompanyID)
	assert.Equal(t, now, got.CreatedAt)

	assert.Equal(t, "Pizzas", BuildCategory(parent, shop, now).Name)
}

func TestBuildProductAndShortcuts(t *testing.T) {
	c := category("Lanches", 1)
	p := product("X-Salada", "N", c)
	p.SunnyID = 501
	bundle := &models.ProductBundle{Product: *p, Settings: &models.LegacyProductSettings{ID: primitive.NewObjectID()}}

	got, err := BuildProduct(bundle, companyID, media, now)
	require.NoError(t, err)
	assert.Equal(t, "501", got.PdvID)
	assert.Equal(t, models.ProductNormal, got.ProductType)
	assert.Equal(t, DefaultMaxQtd, got.MaxQtd)
	assert.Equal(t, ProductVersion, got.Version)
	assert.Equal(t, []primitive.ObjectID{c.ID}, got.CategoriesIDs)
	require.NotNil(t, got.CatalogIndex)
	assert.Equal(t, 2, *got.CatalogIndex)
	assert.Equal(t, []string{"https://cdn.example.com/380x380/X-Salada.png"}, got.Images)
	require.Len(t, got.Complements, 1, "the additionals group is always present")

	shortcuts := BuildShortcuts(&got, now)
	require.Len(t, shortcuts, 1)
	s := shortcuts[0]
	assert.Equal(t, companyID, s.CompanyID)
	assert.Equal(t, p.ID, s.ProductID)
	assert.Equal(t, c.ID, s.CategoryID)
	assert.Equal(t, []float64{39.9}, s.Prices)
	assert.Equal(t, got.Thumbnails[0], s.Photo)
	assert.Equal(t, got.Variations.PdvID, s.VariationID)
	assert.Equal(t, []string{got.Variations.Options[0].VariationItemPdvID}, s.VariationItemsPdvID)

	t.Run("barcode when no sunny id", func(t *testing.T) {
		b := *bundle
		b.Product.SunnyID = 0
		b.Product.Barcode = "7891234567890"
		got, err := BuildProduct(&b, companyID, media, now)
		require.NoError(t, err)
		assert.Equal(t, "7891234567890", got.PdvID)
	})

	t.Run("ingredients are not listed", func(t *testing.T) {
		b := *bundle
		b.IsComponent = true
		got, err := BuildProduct(&b, companyID, media, now)
		require.NoError(t, err)
		assert.Empty(t, BuildShortcuts(&got, now))
	})

	t.Run("attached to the given company", func(t *testing.T) {
		shop := primitive.NewObjectID()
		got, err := BuildProduct(bundle, shop, media, now)
		require.NoError(t, err)
		assert.Equal(t, shop, got.CompanyID)
		require.NotEmpty(t, got.Complements)
		assert.Equal(t, "add-"+shop.Hex(), got.Complements[len(got.Complements)-1].PdvID)
		for _, s := range BuildShortcuts(&got, now) {
			assert.Equal(t, shop, s.CompanyID)
		}
	})

	t.Run("unknown type code", func(t *testing.T) {
		b := *bundle
		b.Product.ProductType = "X"
		_, err := BuildProduct(&b, companyID, media, now)
		assert.Error(t, err)
	})
}
