package etl

import (
	"context"
	"time"

	"github.com/BartekS5/tanamao-migrate/pkg/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Migrator moves one legacy record into the target store.
type Migrator[T any] interface {
	Entity() string
	// Describe names a record in logs.
	Describe(rec *T) string
	Migrate(ctx context.Context, rec *T, stats *Stats) (Outcome, error)
}

// Target collection names.
const (
	CollUsers         = "users"
	CollCompanies     = "companies"
	CollPaymethods    = "paymethods"
	CollDeliveryAreas = "deliveryareas"
	CollProducts      = "products"
	CollCategories    = "categories"
	CollShortcuts     = "catalogshortcuts"
)

// Field is one key/value condition.
type Field struct {
	Key   string
	Value interface{}
}

// Filter matches documents satisfying every All field and, when Any is not
// empty, at least one Any field.
type Filter struct {
	All []Field
	Any []Field
}

// Eq is a Filter on equal fields.
func Eq(fields ...Field) Filter { return Filter{All: fields} }

// AnyOf is a Filter matching any of the fields. Fields with an empty string
// value are ignored.
func AnyOf(fields ...Field) Filter {
	var f Filter
	for _, field := range fields {
		if s, ok := field.Value.(string); ok && s == "" {
			continue
		}
		f.Any = append(f.Any, field)
	}
	return f
}

// Upsert writes Doc over whatever document matches Filter, creating it if absent.
type Upsert struct {
	Filter Filter
	Doc    interface{}
}

// Collection is the write side of one target collection.
type Collection interface {
	// FindID returns the _id of the first match, or ErrNotFound.
	FindID(ctx context.Context, filter Filter) (primitive.ObjectID, error)
	Insert(ctx context.Context, docs ...interface{}) error
	// ReplaceByID replaces the document with id by doc, keeping only its _id.
	// Fields absent from doc are removed.
	ReplaceByID(ctx context.Context, id primitive.ObjectID, doc interface{}) error
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
	UpsertMany(ctx context.Context, writes []Upsert) error
}

// Target hands out target collections by name.
type Target interface {
	Collection(name string) Collection
}

// LegacySource reads the legacy store. Every record returned is fully
// decoded; related records named in the model comments are populated.
type LegacySource interface {
	Users(ctx context.Context, updatedSince time.Time) ([]models.LegacyUser, error)
	Companies(ctx context.Context, updatedSince time.Time) ([]models.LegacyCompany, error)
	CompanyByURI(ctx context.Context, uri string) (*models.LegacyCompany, error)
	Paymethods(ctx context.Context) ([]models.LegacyPaymethod, error)
	// Products returns the products of a company with category and parent category.
	Products(ctx context.Context, companyID models.LegacyID) ([]models.LegacyProduct, error)
	// Bundle loads settings, components, additionals and roles of p.
	Bundle(ctx context.Context, p *models.LegacyProduct) (*models.ProductBundle, error)
	Counts(ctx context.Context) (map[string]int64, error)
}
