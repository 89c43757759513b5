package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Records written to the target store.

// PrivacySettings holds LGPD privacy preferences.
type PrivacySettings struct {
	AllowDataCollection   bool       `bson:"allowDataCollection"`
	AllowMarketingEmails  bool       `bson:"allowMarketingEmails"`
	AllowLocationTracking bool       `bson:"allowLocationTracking"`
	DataRetentionPeriod   int        `bson:"dataRetentionPeriod"`
	ConsentGivenAt        time.Time  `bson:"consentGivenAt"`
	ConsentUpdatedAt      *time.Time `bson:"consentUpdatedAt,omitempty"`
}

// LGPDConsent records how consent was obtained.
type LGPDConsent struct {
	HasGivenConsent bool      `bson:"hasGivenConsent"`
	ConsentDate     time.Time `bson:"consentDate"`
	ConsentVersion  string    `bson:"consentVersion"`
	IPAddress       string    `bson:"ipAddress,omitempty"`
	UserAgent       string    `bson:"userAgent,omitempty"`
}

// Address is a user delivery address.
type Address struct {
	Street       string      `bson:"street"`
	Number       string      `bson:"number"`
	Reference    string      `bson:"reference"`
	Complement   string      `bson:"complement"`
	City         *LegacyCity `bson:"city,omitempty"`
	ZipCode      string      `bson:"zipCode"`
	Neighborhood string      `bson:"neighborhood"`
}

// User is a document of the target users collection.
type User struct {
	ID                        primitive.ObjectID `bson:"_id,omitempty"`
	CompanyID                 string             `bson:"companyId,omitempty"`
	PdvID                     string             `bson:"pdvId,omitempty"`
	Name                      string             `bson:"name"`
	Username                  string             `bson:"username"`
	Password                  string             `bson:"password"`
	IsActive                  bool               `bson:"isActive"`
	IsAdmin                   bool               `bson:"isAdmin"`
	IsConfirmed               bool               `bson:"isConfirmed"`
	PhotoURL                  string             `bson:"photoUrl,omitempty"`
	CPF                       string             `bson:"cpf,omitempty"`
	IsTemporary               bool               `bson:"isTemporary"`
	Phone                     string             `bson:"phone,omitempty"`
	ExpireAt                  *time.Time         `bson:"expireAt,omitempty"`
	SendWsNotification        bool               `bson:"sendWsNotification"`
	DashboardPushSubscription *PushSubscription  `bson:"dashboardPushSubscription,omitempty"`
	PushSubscription          []PushSubscription `bson:"pushSubscription,omitempty"`
	Addresses                 []Address          `bson:"addresses,omitempty"`
	PrivacySettings           PrivacySettings    `bson:"privacySettings"`
	LGPDConsent               LGPDConsent        `bson:"lgpdConsent"`
	Version                   string             `bson:"version"`
	CreatedAt                 time.Time          `bson:"createdAt"`
	UpdatedAt                 time.Time          `bson:"updatedAt"`
}

// Paymethod is a document of the target paymethods collection.
type Paymethod struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Description string             `bson:"description"`
	IsOnline    bool               `bson:"isOnline"`
	IsLocal     bool               `bson:"isLocal"`
	Code        string             `bson:"code"`
	IsActive    bool               `bson:"isActive"`
	Version     string             `bson:"version"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// GeoPoint is a GeoJSON point, [lon, lat].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a point from latitude and longitude.
func NewGeoPoint(lat, lon float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

// GeoPolygon is a GeoJSON polygon.
type GeoPolygon struct {
	Type        string        `bson:"type" json:"type"`
	Coordinates [][][]float64 `bson:"coordinates" json:"coordinates"`
}

// CompanyLocation is the resolved company location.
type CompanyLocation struct {
	Address  string    `bson:"address"`
	Timezone string    `bson:"timezone"`
	Center   *GeoPoint `bson:"center,omitempty"`
}

// BusinessCategoryRef references a business category.
type BusinessCategoryRef struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

// Company is a document of the target companies collection.
type Company struct {
	ID                  primitive.ObjectID    `bson:"_id,omitempty"`
	CpsID               string                `bson:"cpsId,omitempty"`
	Name                string                `bson:"name"`
	IsVisible           bool                  `bson:"isVisible"`
	Phone               string                `bson:"phone,omitempty"`
	URI                 string                `bson:"uri,omitempty"`
	URLLogo             string                `bson:"urlLogo,omitempty"`
	URLBanner           string                `bson:"urlBanner,omitempty"`
	CNPJ                string                `bson:"cnpj"`
	MinValue            float64               `bson:"minValue"`
	IsActive            bool                  `bson:"isActive"`
	Wildcards           []string              `bson:"wildcards,omitempty"`
	PayMethods          []primitive.ObjectID  `bson:"payMethods"`
	Location            CompanyLocation       `bson:"location"`
	DeliveryTime        int                   `bson:"deliveryTime"`
	DeliveryFee         float64               `bson:"deliveryFee"`
	PickupTime          int                   `bson:"pickupTime"`
	IsPickupActive      bool                  `bson:"isPickupActive"`
	AllowTemporaryUsers bool                  `bson:"allowTemporaryUsers"`
	UseMenu             bool                  `bson:"useMenu"`
	AdmPhone            string                `bson:"admPhone,omitempty"`
	UseLocalCash        bool                  `bson:"useLocalCash"`
	UseOnlineCash       bool                  `bson:"useOnlineCash"`
	IsDeliveryActive    bool                  `bson:"isDeliveryActive"`
	IsDeliveryPaused    bool                  `bson:"isDeliveryPaused"`
	IsLocalActive       bool                  `bson:"isLocalActive"`
	BusinessHours       string                `bson:"businessHours,omitempty"`
	BusinessCategories  []BusinessCategoryRef `bson:"businessCategories,omitempty"`
	CatalogUpdatedAt    *time.Time            `bson:"catalogUpdatedAt,omitempty"`
	CatalogIndex        int                   `bson:"catalogIndex"`
	CatalogName         string                `bson:"catalogName,omitempty"`
	PingExpireAt        *time.Time            `bson:"pingExpireAt,omitempty"`
	IsLocalReadonly     bool                  `bson:"isLocalReadonly"`
	MerchantID          string                `bson:"merchantId,omitempty"`
	UseIfood            bool                  `bson:"useIfood"`
	PixType             string                `bson:"pixType,omitempty"`
	PixKey              string                `bson:"pixKey,omitempty"`
	PixKeyType          string                `bson:"pixKeyType,omitempty"`
	PixContact          string                `bson:"pixContact,omitempty"`
	PixName             string                `bson:"pixName,omitempty"`
	Rating              float64               `bson:"rating"`
	ReviewCount         int                   `bson:"reviewCount"`
	CreatedAt           time.Time             `bson:"createdAt"`
	UpdatedAt           time.Time             `bson:"updatedAt"`
}

// DeliveryAreaType classifies delivery areas.
type DeliveryAreaType string

const (
	DeliveryAreaCity      DeliveryAreaType = "city"
	DeliveryAreaException DeliveryAreaType = "exception"
)

// DistanceSurcharge charges per km beyond a base distance.
type DistanceSurcharge struct {
	BaseDistance  float64 `bson:"baseDistance"`
	ExtraFeePerKm float64 `bson:"extraFeePerKm"`
}

// SurchargeRules are the optional surcharges of a delivery area.
type SurchargeRules struct {
	NightSurcharge    float64           `bson:"nightSurcharge"`
	WeekendSurcharge  float64           `bson:"weekendSurcharge"`
	DistanceSurcharge DistanceSurcharge `bson:"distanceSurcharge"`
}

// DeliveryConfig is the delivery policy of an area.
type DeliveryConfig struct {
	AllowDelivery        bool           `bson:"allowDelivery"`
	DeliveryFee          float64        `bson:"deliveryFee"`
	MinOrderValue        float64        `bson:"minOrderValue"`
	MaxDeliveryTime      int            `bson:"maxDeliveryTime"`
	IsActive             bool           `bson:"isActive"`
	FreeDeliveryMinValue *float64       `bson:"freeDeliveryMinValue,omitempty"`
	SurchargeRules       SurchargeRules `bson:"surchargeRules"`
}

// PlaceReference ties an area to the geocoder place it came from.
type PlaceReference struct {
	PlaceID  string    `bson:"placeId"`
	TimeZone string    `bson:"timeZone,omitempty"`
	LastSync time.Time `bson:"lastSync"`
}

// AreaGeometry is the geospatial part of a delivery area.
type AreaGeometry struct {
	Center         GeoPoint        `bson:"center"`
	Polygon        GeoPolygon      `bson:"polygon"`
	PlaceReference *PlaceReference `bson:"placeReference,omitempty"`
}

// DeliveryArea is a document of the target deliveryareas collection.
type DeliveryArea struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	AreaType    DeliveryAreaType   `bson:"areaType"`
	CompanyID   primitive.ObjectID `bson:"companyId"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Priority    int                `bson:"priority"`
	Geometry    *AreaGeometry      `bson:"geometry,omitempty"`
	Config      DeliveryConfig     `bson:"config"`
	IsActive    bool               `bson:"isActive"`
	Version     string             `bson:"version"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// ProductType is the target catalog entry type. Values are persisted as numbers.
type ProductType int

const (
	ProductNormal ProductType = iota
	ProductVariation
	ProductCombo
	ProductPizza
	ProductIngredient
	ProductSubProduct
	ProductAdditional
	ProductBorder
	ProductDough
)

var productTypeNames = [...]string{
	"NORMAL", "VARIATION", "COMBO", "PIZZA", "INGREDIENT",
	"SUB_PRODUCT", "ADDITIONAL", "BORDER", "DOUGH",
}

func (t ProductType) String() string {
	if t < 0 || int(t) >= len(productTypeNames) {
		return "UNKNOWN"
	}
	return productTypeNames[t]
}

// VariationOption is a priced option of a variation.
type VariationOption struct {
	Name                     string  `bson:"name"`
	Price                    float64 `bson:"price"`
	PdvID                    string  `bson:"pdvId"`
	VariationItemPdvID       string  `bson:"variationItemPdvId"`
	QtdSelection             int     `bson:"qtdSelection"`
	QtdSelectionChargeHigher int     `bson:"qtdSelectionChargeHigher"`
}

// Variation is a named configuration axis of a product.
type Variation struct {
	PdvID   string            `bson:"pdvId"`
	Name    string            `bson:"name"`
	Options []VariationOption `bson:"options"`
}

// ComplementItem is a selectable entry of a complement group.
type ComplementItem struct {
	PdvID       string     `bson:"pdvId"`
	Product     string     `bson:"product"`
	Description string     `bson:"description"`
	BarCode     string     `bson:"barCode,omitempty"`
	Variations  *Variation `bson:"variations,omitempty"`
	Price       float64    `bson:"price"`
	Thumbnails  []string   `bson:"thumbnails"`
	Modifiers   []string   `bson:"modifiers"`
	IsSelected  bool       `bson:"isSelected"`
}

// Complement is an orderable group of selectable items attached to a product.
type Complement struct {
	PdvID        string           `bson:"pdvId,omitempty"`
	Name         string           `bson:"name"`
	QtdSelection int              `bson:"qtdSelection"`
	IsRequired   bool             `bson:"isRequired"`
	GroupID      string           `bson:"groupId"`
	Items        []ComplementItem `bson:"items"`
}

// Category is a document of the target categories collection.
type Category struct {
	ID               primitive.ObjectID `bson:"_id"`
	CompanyID        primitive.ObjectID `bson:"companyId"`
	PdvID            string             `bson:"pdvId,omitempty"`
	Name             string             `bson:"name"`
	Index            int                `bson:"index"`
	URLIcon          string             `bson:"urlIcon,omitempty"`
	IsVisible        bool               `bson:"isVisible"`
	CatalogIndex     int                `bson:"catalogIndex"`
	IsDeliveryActive bool               `bson:"isDeliveryActive"`
	IsLocalActive    bool               `bson:"isLocalActive"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

// Product is a document of the target products collection.
type Product struct {
	ID               primitive.ObjectID   `bson:"_id"`
	CategoriesIDs    []primitive.ObjectID `bson:"categoriesIds"`
	CompanyID        primitive.ObjectID   `bson:"companyId"`
	PdvID            string               `bson:"pdvId"`
	Product          string               `bson:"product"`
	Description      string               `bson:"description"`
	BarCode          string               `bson:"barCode"`
	Measure          string               `bson:"measure"`
	IsActive         bool                 `bson:"isActive"`
	Variations       Variation            `bson:"variations"`
	SupplyManagement bool                 `bson:"supplyManagement"`
	Images           []string             `bson:"images"`
	Thumbnails       []string             `bson:"thumbnails"`
	Wildcards        []string             `bson:"wildcards"`
	IsAvailable      bool                 `bson:"isAvailable"`
	IsDeliveryActive bool                 `bson:"isDeliveryActive"`
	IsLocalActive    bool                 `bson:"isLocalActive"`
	CatalogIndex     *int                 `bson:"catalogIndex,omitempty"`
	ProductType      ProductType          `bson:"productType"`
	MaxQtd           int                  `bson:"maxQtd"`
	IfoodID          string               `bson:"ifoodId,omitempty"`
	Complements      []Complement         `bson:"complements"`
	Version          string               `bson:"version"`
	CreatedAt        time.Time            `bson:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt"`
}

// CatalogShortcut is a denormalised listing entry of a product in one category.
type CatalogShortcut struct {
	CompanyID           primitive.ObjectID `bson:"companyId"`
	ProductID           primitive.ObjectID `bson:"productId"`
	CategoryID          primitive.ObjectID `bson:"categoryId"`
	Name                string             `bson:"name"`
	Photo               string             `bson:"photo"`
	Description         string             `bson:"description"`
	Prices              []float64          `bson:"prices"`
	ProductType         ProductType        `bson:"productType"`
	IsActive            bool               `bson:"isActive"`
	IsAvailable         bool               `bson:"isAvailable"`
	IsDeliveryActive    bool               `bson:"isDeliveryActive"`
	IsLocalActive       bool               `bson:"isLocalActive"`
	VariationID         string             `bson:"variationId,omitempty"`
	VariationItemsPdvID []string           `bson:"variationItemsPdvId"`
	Wildcards           []string           `bson:"wildcards,omitempty"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}
