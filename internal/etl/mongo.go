package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BartekS5/tanamao-migrate/pkg/logger"
	"github.com/BartekS5/tanamao-migrate/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 30 * time.Second

// Legacy collection names.
const (
	legacyUsers       = "users"
	legacyCompanies   = "companies"
	legacyPaymethods  = "paymethods"
	legacyProducts    = "products"
	legacyCategories  = "categories"
	legacySettings    = "productssettings"
	legacyComponents  = "productscomponents"
	legacyAdditionals = "productsadditionals"
)

func (f Filter) toBSON() bson.D {
	d := bson.D{}
	for _, field := range f.All {
		d = append(d, bson.E{Key: field.Key, Value: field.Value})
	}
	switch len(f.Any) {
	case 0:
	case 1:
		d = append(d, bson.E{Key: f.Any[0].Key, Value: f.Any[0].Value})
	default:
		or := bson.A{}
		for _, field := range f.Any {
			or = append(or, bson.D{{Key: field.Key, Value: field.Value}})
		}
		d = append(d, bson.E{Key: "$or", Value: or})
	}
	return d
}

// MongoTarget is the target store.
type MongoTarget struct {
	DB *mongo.Database
}

func NewMongoTarget(client *mongo.Client, dbName string) *MongoTarget {
	return &MongoTarget{DB: client.Database(dbName)}
}

func (t *MongoTarget) Collection(name string) Collection {
	return &MongoCollection{Coll: t.DB.Collection(name)}
}

// Counts returns the document count of every target collection.
func (t *MongoTarget) Counts(ctx context.Context) (map[string]int64, error) {
	return countAll(ctx, t.DB, CollUsers, CollCompanies, CollPaymethods, CollDeliveryAreas, CollProducts, CollCategories, CollShortcuts)
}

// MongoCollection implements Collection over a driver collection.
type MongoCollection struct {
	Coll *mongo.Collection
}

func (c *MongoCollection) FindID(ctx context.Context, filter Filter) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := c.Coll.FindOne(ctx, filter.toBSON(), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, ErrNotFound
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return doc.ID, nil
}

func (c *MongoCollection) Insert(ctx context.Context, docs ...interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if len(docs) == 1 {
		_, err := c.Coll.InsertOne(ctx, docs[0])
		return err
	}
	_, err := c.Coll.InsertMany(ctx, docs)
	return err
}

func (c *MongoCollection) ReplaceByID(ctx context.Context, id primitive.ObjectID, doc interface{}) error {
	fields, err := toSetDocument(doc)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := c.Coll.ReplaceOne(ctx, bson.M{"_id": id}, fields)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := c.Coll.DeleteMany(ctx, filter.toBSON())
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *MongoCollection) UpsertMany(ctx context.Context, upserts []Upsert) error {
	var writes []mongo.WriteModel
	for _, u := range upserts {
		fields, err := toSetDocument(u.Doc)
		if err != nil {
			return err
		}
		model := mongo.NewUpdateOneModel().SetFilter(u.Filter.toBSON()).SetUpdate(bson.M{"$set": fields}).SetUpsert(true)
		writes = append(writes, model)
	}
	if len(writes) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	res, err := c.Coll.BulkWrite(ctx, writes)
	if err != nil {
		return err
	}
	logger.Debugf("%s BulkWrite: Match %d, Mod %d, Upsert %d", c.Coll.Name(), res.MatchedCount, res.ModifiedCount, res.UpsertedCount)
	return nil
}

// toSetDocument encodes doc for a $set or a replacement, without its
// immutable _id.
func toSetDocument(doc interface{}) (bson.M, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(fields, "_id")
	return fields, nil
}

func countAll(ctx context.Context, db *mongo.Database, names ...string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	counts := make(map[string]int64, len(names))
	for _, name := range names {
		n, err := db.Collection(name).EstimatedDocumentCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}

// MongoLegacy is the read-only legacy store.
type MongoLegacy struct {
	DB *mongo.Database
}

func NewMongoLegacy(client *mongo.Client, dbName string) *MongoLegacy {
	return &MongoLegacy{DB: client.Database(dbName)}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func (l *MongoLegacy) Users(ctx context.Context, updatedSince time.Time) ([]models.LegacyUser, error) {
	return findAll[models.LegacyUser](ctx, l.DB.Collection(legacyUsers), bson.M{
		"istemporary": false,
		"updatedat":   bson.M{"$gte": updatedSince},
	})
}

func (l *MongoLegacy) Companies(ctx context.Context, updatedSince time.Time) ([]models.LegacyCompany, error) {
	return findAll[models.LegacyCompany](ctx, l.DB.Collection(legacyCompanies), bson.M{
		"isactive":  true,
		"updatedat": bson.M{"$gte": updatedSince},
	})
}

func (l *MongoLegacy) CompanyByURI(ctx context.Context, uri string) (*models.LegacyCompany, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var c models.LegacyCompany
	err := l.DB.Collection(legacyCompanies).FindOne(ctx, bson.M{"uri": uri}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company %q: %w", uri, err)
	}
	return &c, nil
}

func (l *MongoLegacy) Paymethods(ctx context.Context) ([]models.LegacyPaymethod, error) {
	return findAll[models.LegacyPaymethod](ctx, l.DB.Collection(legacyPaymethods), bson.M{})
}

func (l *MongoLegacy) Products(ctx context.Context, companyID models.LegacyID) ([]models.LegacyProduct, error) {
	products, err := findAll[models.LegacyProduct](ctx, l.DB.Collection(legacyProducts), bson.M{"companyid": companyID.Filter()})
	if err != nil {
		return nil, err
	}

	var categoryIDs []primitive.ObjectID
	for _, p := range products {
		if !p.CategoryID.IsZero() {
			categoryIDs = append(categoryIDs, p.CategoryID)
		}
	}
	categories, err := l.categoriesByID(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	var parentIDs []primitive.ObjectID
	for _, c := range categories {
		if c.ParentID != nil {
			parentIDs = append(parentIDs, *c.ParentID)
		}
	}
	parents, err := l.categoriesByID(ctx, parentIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.ParentID != nil {
			c.Parent = parents[*c.ParentID]
		}
	}

	for i := range products {
		products[i].Category = categories[products[i].CategoryID]
	}
	return products, nil
}

func (l *MongoLegacy) categoriesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.LegacyCategory, error) {
	out := map[primitive.ObjectID]*models.LegacyCategory{}
	if len(ids) == 0 {
		return out, nil
	}
	list, err := findAll[models.LegacyCategory](ctx, l.DB.Collection(legacyCategories), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func (l *MongoLegacy) productsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.LegacyProduct, error) {
	out := map[primitive.ObjectID]*models.LegacyProduct{}
	if len(ids) == 0 {
		return out, nil
	}
	list, err := findAll[models.LegacyProduct](ctx, l.DB.Collection(legacyProducts), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func (l *MongoLegacy) exists(ctx context.Context, coll string, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	n, err := l.DB.Collection(coll).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

func (l *MongoLegacy) Bundle(ctx context.Context, p *models.LegacyProduct) (*models.ProductBundle, error) {
	b := &models.ProductBundle{Product: *p}

	var err error
	if b.IsAdditional, err = l.exists(ctx, legacyAdditionals, bson.M{"additionalid": p.ID}); err != nil {
		return nil, fmt.Errorf("check additional role: %w", err)
	}
	if b.IsComponent, err = l.exists(ctx, legacyComponents, bson.M{"data.componentid": p.ID}); err != nil {
		return nil, fmt.Errorf("check component role: %w", err)
	}

	if p.ProductSettingsID == nil {
		return b, nil
	}
	settingsID := *p.ProductSettingsID

	var settings models.LegacyProductSettings
	findCtx, cancel := context.WithTimeout(ctx, opTimeout)
	err = l.DB.Collection(legacySettings).FindOne(findCtx, bson.M{"_id": settingsID}).Decode(&settings)
	cancel()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find settings: %w", err)
	}
	b.Settings = &settings

	if b.Components, err = findAll[models.LegacyProductComponent](ctx, l.DB.Collection(legacyComponents), bson.M{"settingsid": settingsID}); err != nil {
		return nil, err
	}
	if b.Additionals, err = findAll[models.LegacyProductAdditional](ctx, l.DB.Collection(legacyAdditionals), bson.M{"settingsid": settingsID}); err != nil {
		return nil, err
	}

	var childIDs []primitive.ObjectID
	for _, c := range b.Components {
		for _, e := range c.Data {
			childIDs = append(childIDs, e.ComponentID)
		}
	}
	for _, a := range b.Additionals {
		childIDs = append(childIDs, a.AdditionalID)
	}
	children, err := l.productsByID(ctx, childIDs)
	if err != nil {
		return nil, err
	}
	for i := range b.Components {
		for j := range b.Components[i].Data {
			b.Components[i].Data[j].Product = children[b.Components[i].Data[j].ComponentID]
		}
	}
	for i := range b.Additionals {
		b.Additionals[i].Product = children[b.Additionals[i].AdditionalID]
	}
	return b, nil
}

func (l *MongoLegacy) Counts(ctx context.Context) (map[string]int64, error) {
	return countAll(ctx, l.DB, legacyUsers, legacyCompanies, legacyPaymethods, legacyProducts,
		legacyCategories, legacySettings, legacyComponents, legacyAdditionals)
}
