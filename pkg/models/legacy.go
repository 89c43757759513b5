package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Records read from the legacy store. Field names follow the legacy
// collections (all lower case); optional values are pointers or zero values
// and their defaults are applied once, by the transformers.

// LegacyCity is a city embedded in legacy users and companies.
type LegacyCity struct {
	ID        LegacyID `bson:"_id,omitempty"`
	CityID    int      `bson:"cityid"`
	IBGEID    string   `bson:"ibgeid"`
	Name      string   `bson:"name"`
	UF        string   `bson:"uf"`
	CountryID int      `bson:"countryid"`
	UTCOffset float64  `bson:"utcoffset,omitempty"`
}

// PushSubscription is a web push endpoint, identical in both schemas.
type PushSubscription struct {
	Endpoint       string     `bson:"endpoint" json:"endpoint"`
	ExpirationTime *time.Time `bson:"expirationTime,omitempty" json:"expirationTime,omitempty"`
	Keys           struct {
		P256dh string `bson:"p256dh" json:"p256dh"`
		Auth   string `bson:"auth" json:"auth"`
	} `bson:"keys" json:"keys"`
}

// LegacyAddress is a user delivery address.
type LegacyAddress struct {
	Street       string      `bson:"street"`
	Number       string      `bson:"number"`
	Reference    string      `bson:"reference"`
	Complement   string      `bson:"complement"`
	City         *LegacyCity `bson:"city,omitempty"`
	Zipcode      string      `bson:"zipcode"`
	Neighborhood string      `bson:"neighborhood"`
}

// LegacyUser is a document of the legacy users collection.
type LegacyUser struct {
	ID                        LegacyID           `bson:"_id" validate:"required"`
	CompanyID                 string             `bson:"companyid,omitempty"`
	CustomerID                string             `bson:"customerid,omitempty"`
	SunnyID                   int                `bson:"sunnyid,omitempty"`
	Name                      string             `bson:"name"`
	Username                  string             `bson:"username" validate:"required"`
	Password                  string             `bson:"password"`
	IsActive                  bool               `bson:"isactive"`
	IsAdmin                   bool               `bson:"isadmin"`
	IsConfirmed               bool               `bson:"isconfirmed"`
	Method                    string             `bson:"method"`
	PhotoURL                  string             `bson:"photourl,omitempty"`
	CPF                       string             `bson:"cpf,omitempty"`
	IsTemporary               bool               `bson:"istemporary"`
	Phone                     string             `bson:"phone,omitempty"`
	ExpireAt                  *time.Time         `bson:"expireat,omitempty"`
	DashboardPushSubscription *PushSubscription  `bson:"dashboardpushsubscription,omitempty"`
	PushSubscription          []PushSubscription `bson:"pushsubscription,omitempty"`
	Addresses                 []LegacyAddress    `bson:"addresses,omitempty"`
	Version                   string             `bson:"version"`
	CreatedAt                 *time.Time         `bson:"createdat,omitempty"`
	UpdatedAt                 *time.Time         `bson:"updatedat,omitempty"`
}

// LegacyGeoPoint is a GeoJSON point stored on legacy company locations.
type LegacyGeoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// LegacyLocation is the company street location.
type LegacyLocation struct {
	Address   string          `bson:"address"`
	UTCOffset string          `bson:"utcoffset"`
	Geo       *LegacyGeoPoint `bson:"geo,omitempty"`
}

// LegacyBanner references the uploaded company banner.
type LegacyBanner struct {
	ID   LegacyID `bson:"_id,omitempty"`
	Path string   `bson:"path"`
}

// LegacyCompany is a document of the legacy companies collection.
type LegacyCompany struct {
	ID                     LegacyID       `bson:"_id" validate:"required"`
	Name                   string         `bson:"name" validate:"required"`
	IsVisible              bool           `bson:"isvisible"`
	Cities                 []LegacyCity   `bson:"cities"`
	Phone                  string         `bson:"phone,omitempty"`
	URI                    string         `bson:"uri,omitempty"`
	URILogo                string         `bson:"urilogo,omitempty"`
	CNPJ                   string         `bson:"cnpj"`
	MinValue               float64        `bson:"minvalue" validate:"gte=0"`
	BusinessCategoryIDs    []LegacyID     `bson:"businesscategoryid,omitempty"`
	Version                string         `bson:"version"`
	DeliveryFee            float64        `bson:"deliveryfee" validate:"gte=0"`
	IsActive               bool           `bson:"isactive"`
	Wildcards              []string       `bson:"wildcards,omitempty"`
	Paymethods             []LegacyID     `bson:"paymethods,omitempty"`
	Location               LegacyLocation `bson:"location"`
	AvgDelivery            int            `bson:"avgdelivery"`
	IsDeliveryActive       bool           `bson:"isdeliveryactive"`
	IsLocalActive          bool           `bson:"islocalactive"`
	IsLocalReadonly        bool           `bson:"islocalreadonly"`
	AvgLocal               int            `bson:"avglocal"`
	UseSpotCash            bool           `bson:"usespotcash"`
	UseOnlineCash          bool           `bson:"useonlinecash"`
	IsClosed               bool           `bson:"isclosed"`
	StyleColor             string         `bson:"stylecolor,omitempty"`
	BusinessScore          float64        `bson:"businessscore,omitempty"`
	AdmPhone               string         `bson:"admphone,omitempty"`
	AllowTemporaryUsers    bool           `bson:"allowtemporaryusers"`
	AllowTempUsersDelivery bool           `bson:"allowtempusersdelivery"`
	Banner                 *LegacyBanner  `bson:"banner,omitempty"`
	PingExpireAt           *time.Time     `bson:"pingexpireat,omitempty"`
	CatalogIndex           int            `bson:"catalogindex"`
	CatalogName            string         `bson:"catalogname,omitempty"`
	CloseAt                *time.Time     `bson:"closeat,omitempty"`
	BusinessHours          string         `bson:"businesshours,omitempty"`
	UseMenu                bool           `bson:"usemenu"`
	PixType                string         `bson:"pixtype,omitempty"`
	PixKey                 string         `bson:"pixkey,omitempty"`
	PixKeyType             string         `bson:"pixkeytype,omitempty"`
	PixContact             string         `bson:"pixcontact,omitempty"`
	PixName                string         `bson:"pixname,omitempty"`
	CreatedAt              *time.Time     `bson:"createdat,omitempty"`
	UpdatedAt              *time.Time     `bson:"updatedat,omitempty"`
}

// LegacyPaymethod is a document of the legacy paymethods collection.
type LegacyPaymethod struct {
	ID          LegacyID   `bson:"_id" validate:"required"`
	Description string     `bson:"description" validate:"required"`
	OnlineCash  bool       `bson:"onlinecash"`
	SpotCash    bool       `bson:"spotcash"`
	Code        string     `bson:"code" validate:"required"`
	IsActive    bool       `bson:"isactive"`
	Version     string     `bson:"version"`
	CreatedAt   *time.Time `bson:"createdat,omitempty"`
	UpdatedAt   *time.Time `bson:"updatedat,omitempty"`
}

// LegacyCategory is a document of the legacy categories collection.
// Parent is populated by the source from ParentID.
type LegacyCategory struct {
	ID                 primitive.ObjectID  `bson:"_id"`
	CompanyID          LegacyID            `bson:"companyid"`
	SunnyID            int                 `bson:"sunnyid"`
	Name               string              `bson:"name"`
	QtdSelection       int                 `bson:"qtdselection"`
	QtdSelChargeHigher int                 `bson:"qtdselchargehigher"`
	CategoryType       string              `bson:"categorytype"`
	ParentID           *primitive.ObjectID `bson:"parentcategory,omitempty"`
	Version            string              `bson:"version"`
	URIIcon            string              `bson:"uriicon,omitempty"`
	IsVisible          bool                `bson:"isvisible"`
	CatalogIndex       int                 `bson:"catalogindex"`
	IsDeliveryActive   bool                `bson:"isdeliveryactive"`
	IsLocalActive      bool                `bson:"islocalactive"`
	Idx                int                 `bson:"idx"`
	CreatedAt          *time.Time          `bson:"createdat,omitempty"`
	UpdatedAt          *time.Time          `bson:"updatedat,omitempty"`

	Parent *LegacyCategory `bson:"-"`
}

// LegacyPrices holds legacy product prices.
type LegacyPrices struct {
	CashPayment float64  `bson:"cashpayment"`
	DefPayment  *float64 `bson:"defpayment,omitempty"`
}

// LegacyProduct is a document of the legacy products collection.
// Category is populated by the source from CategoryID.
type LegacyProduct struct {
	ID                primitive.ObjectID  `bson:"_id" validate:"required"`
	CategoryID        primitive.ObjectID  `bson:"categoryid"`
	CompanyID         LegacyID            `bson:"companyid" validate:"required"`
	SunnyID           int                 `bson:"sunnyid"`
	Product           string              `bson:"product" validate:"required"`
	Description       string              `bson:"description"`
	Barcode           string              `bson:"barcode"`
	Measure           string              `bson:"measure" validate:"omitempty,oneof=UN KG LT"`
	IsActive          bool                `bson:"isactive"`
	ProductType       string              `bson:"producttype"`
	Prices            LegacyPrices        `bson:"prices"`
	SupplyManagement  bool                `bson:"supplymanagement"`
	Stock             float64             `bson:"stock"`
	Images            []string            `bson:"images"`
	Wildcards         []string            `bson:"wildcards"`
	Version           string              `bson:"version"`
	IsAvailable       bool                `bson:"isavailable"`
	IsDeliveryActive  bool                `bson:"isdeliveryactive"`
	IsLocalActive     bool                `bson:"islocalactive"`
	ProductSettingsID *primitive.ObjectID `bson:"productsettingsid,omitempty"`
	CreatedAt         *time.Time          `bson:"createdat,omitempty"`
	UpdatedAt         *time.Time          `bson:"updatedat,omitempty"`

	Category *LegacyCategory `bson:"-"`
}

// LegacyObservation is a free-text option group on product settings.
type LegacyObservation struct {
	Name  string   `bson:"name"`
	Group string   `bson:"group"`
	Data  []string `bson:"data"`
}

// LegacyProductSettings is a document of the legacy productssettings collection.
type LegacyProductSettings struct {
	ID             primitive.ObjectID  `bson:"_id"`
	CompanyID      LegacyID            `bson:"companyid"`
	ProductID      primitive.ObjectID  `bson:"productid"`
	Specifications string              `bson:"specifications,omitempty"`
	MinQtd         int                 `bson:"minqtd"`
	Obs            []LegacyObservation `bson:"obs,omitempty"`
}

// Legacy additional types.
const (
	AdditionalBorder   = "B"
	AdditionalQuantity = "Q"
	AdditionalNormal   = "N"
)

// LegacyProductAdditional links an additional product to a product's settings.
// Product is populated by the source from AdditionalID.
type LegacyProductAdditional struct {
	ID             primitive.ObjectID `bson:"_id"`
	SettingsID     primitive.ObjectID `bson:"settingsid"`
	AdditionalID   primitive.ObjectID `bson:"additionalid"`
	AdditionalType string             `bson:"additionaltype"`
	MaxQtd         int                `bson:"maxqtd"`

	Product *LegacyProduct `bson:"-"`
}

// ComponentActionSelectable marks a component group the customer chooses from.
const ComponentActionSelectable = "C"

// LegacyComponentEntry is one child of a legacy component group.
// Product is populated by the source from ComponentID.
type LegacyComponentEntry struct {
	ComponentID primitive.ObjectID `bson:"componentid"`
	Qtd         float64            `bson:"qtd"`
	IsDefault   bool               `bson:"isdefault"`
	IsVisible   bool               `bson:"isvisible"`
	IsEditable  bool               `bson:"iseditable"`

	Product *LegacyProduct `bson:"-"`
}

// LegacyProductComponent is a document of the legacy productscomponents collection.
type LegacyProductComponent struct {
	ID           primitive.ObjectID     `bson:"_id"`
	SettingsID   primitive.ObjectID     `bson:"settingsid"`
	Name         string                 `bson:"name"`
	QtdSelection int                    `bson:"qtdselection"`
	Selected     SelectionList          `bson:"selected"`
	Idx          int                    `bson:"idx"`
	Action       string                 `bson:"action"`
	Data         []LegacyComponentEntry `bson:"data"`
}

// ProductBundle is a legacy product together with every legacy record its
// transformation reads.
type ProductBundle struct {
	Product      LegacyProduct
	Settings     *LegacyProductSettings
	Components   []LegacyProductComponent
	Additionals  []LegacyProductAdditional
	IsAdditional bool
	IsComponent  bool
}
