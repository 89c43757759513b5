package etl

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/BartekS5/tanamao-migrate/internal/geocode"
	"github.com/BartekS5/tanamao-migrate/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memCollection is an in-memory Collection with Mongo's matching, replace
// and $set semantics for flat equality filters.
type memCollection struct {
	mu      sync.Mutex
	docs    []bson.M
	inserts int
	updates int
	deletes int
	err     error
}

func toM(doc interface{}) bson.M {
	data, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		panic(err)
	}
	return m
}

func decodeAs[T any](m bson.M) T {
	var out T
	data, err := bson.Marshal(m)
	if err != nil {
		panic(err)
	}
	if err := bson.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}

func matches(f Filter, doc bson.M) bool {
	for _, field := range f.All {
		if !reflect.DeepEqual(doc[field.Key], field.Value) {
			return false
		}
	}
	if len(f.Any) == 0 {
		return true
	}
	for _, field := range f.Any {
		if reflect.DeepEqual(doc[field.Key], field.Value) {
			return true
		}
	}
	return false
}

func (c *memCollection) FindID(_ context.Context, f Filter) (primitive.ObjectID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return primitive.NilObjectID, c.err
	}
	for _, d := range c.docs {
		if matches(f, d) {
			return d["_id"].(primitive.ObjectID), nil
		}
	}
	return primitive.NilObjectID, ErrNotFound
}

func (c *memCollection) Insert(_ context.Context, docs ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	for _, doc := range docs {
		m := toM(doc)
		id, ok := m["_id"].(primitive.ObjectID)
		if !ok || id.IsZero() {
			m["_id"] = primitive.NewObjectID()
		}
		for _, existing := range c.docs {
			if existing["_id"] == m["_id"] {
				return fmt.Errorf("E11000 duplicate key _id %v", m["_id"])
			}
		}
		c.docs = append(c.docs, m)
		c.inserts++
	}
	return nil
}

func (c *memCollection) ReplaceByID(_ context.Context, id primitive.ObjectID, doc interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	replacement := toM(doc)
	replacement["_id"] = id
	for i, d := range c.docs {
		if d["_id"] == id {
			c.docs[i] = replacement
			c.updates++
			return nil
		}
	}
	return ErrNotFound
}

func (c *memCollection) DeleteMany(_ context.Context, f Filter) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	kept := c.docs[:0]
	var n int64
	for _, d := range c.docs {
		if matches(f, d) {
			n++
			continue
		}
		kept = append(kept, d)
	}
	c.docs = kept
	c.deletes += int(n)
	return n, nil
}

func (c *memCollection) UpsertMany(_ context.Context, writes []Upsert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	for _, w := range writes {
		fields := toM(w.Doc)
		delete(fields, "_id")
		var target bson.M
		for _, d := range c.docs {
			if matches(w.Filter, d) {
				target = d
				break
			}
		}
		if target == nil {
			target = bson.M{"_id": primitive.NewObjectID()}
			for _, f := range w.Filter.All {
				target[f.Key] = f.Value
			}
			c.docs = append(c.docs, target)
			c.inserts++
		} else {
			c.updates++
		}
		for k, v := range fields {
			target[k] = v
		}
	}
	return nil
}

func (c *memCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func (c *memCollection) Inserts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inserts
}

type memTarget struct {
	mu    sync.Mutex
	colls map[string]*memCollection
}

func newMemTarget() *memTarget {
	return &memTarget{colls: map[string]*memCollection{}}
}

func (t *memTarget) Collection(name string) Collection { return t.coll(name) }

func (t *memTarget) coll(name string) *memCollection {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.colls[name]
	if !ok {
		c = &memCollection{}
		t.colls[name] = c
	}
	return c
}

// fakeLegacy serves fixed legacy records.
type fakeLegacy struct {
	users      []models.LegacyUser
	companies  []models.LegacyCompany
	paymethods []models.LegacyPaymethod
	products   map[models.LegacyID][]models.LegacyProduct
	bundles    map[primitive.ObjectID]*models.ProductBundle
	err        error
}

func (f *fakeLegacy) Users(_ context.Context, since time.Time) ([]models.LegacyUser, error) {
	var out []models.LegacyUser
	for _, u := range f.users {
		if !u.IsTemporary && u.UpdatedAt != nil && !u.UpdatedAt.Before(since) {
			out = append(out, u)
		}
	}
	return out, f.err
}

func (f *fakeLegacy) Companies(_ context.Context, since time.Time) ([]models.LegacyCompany, error) {
	var out []models.LegacyCompany
	for _, c := range f.companies {
		if c.IsActive && c.UpdatedAt != nil && !c.UpdatedAt.Before(since) {
			out = append(out, c)
		}
	}
	return out, f.err
}

func (f *fakeLegacy) CompanyByURI(_ context.Context, uri string) (*models.LegacyCompany, error) {
	for i := range f.companies {
		if f.companies[i].URI == uri {
			return &f.companies[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeLegacy) Paymethods(context.Context) ([]models.LegacyPaymethod, error) {
	return f.paymethods, f.err
}

func (f *fakeLegacy) Products(_ context.Context, companyID models.LegacyID) ([]models.LegacyProduct, error) {
	return f.products[companyID], f.err
}

func (f *fakeLegacy) Bundle(_ context.Context, p *models.LegacyProduct) (*models.ProductBundle, error) {
	if b, ok := f.bundles[p.ID]; ok {
		cp := *b
		cp.Product = *p
		return &cp, nil
	}
	return &models.ProductBundle{Product: *p}, nil
}

func (f *fakeLegacy) Counts(context.Context) (map[string]int64, error) {
	return map[string]int64{"users": int64(len(f.users)), "companies": int64(len(f.companies))}, nil
}

// fakeResolver answers from a fixed table and records every query.
type fakeResolver struct {
	mu      sync.Mutex
	places  map[string]*geocode.Result
	queries []string
}

func (r *fakeResolver) Resolve(_ context.Context, query string) *geocode.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
	return r.places[query]
}

func (r *fakeResolver) Queries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func place(id string, lat, lon float64) *geocode.Result {
	bbox := [4]float64{lat - 0.1, lat + 0.1, lon - 0.1, lon + 0.1}
	return &geocode.Result{
		PlaceID:        id,
		Latitude:       lat,
		Longitude:      lon,
		HasCoordinates: true,
		BoundingBox:    bbox,
		Polygon:        [][][]float64{geocode.BoundingRing(bbox)},
	}
}
