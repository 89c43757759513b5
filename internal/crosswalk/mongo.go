package crosswalk

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionSource reads references from any collection holding an _id and
// a code field.
type CollectionSource struct {
	Collection *mongo.Collection
	CodeField  string
}

func NewCollectionSource(coll *mongo.Collection, codeField string) *CollectionSource {
	return &CollectionSource{Collection: coll, CodeField: codeField}
}

func (s *CollectionSource) References(ctx context.Context) ([]Reference, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1, s.CodeField: 1})
	cursor, err := s.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.Collection.Name(), err)
	}
	defer cursor.Close(ctx)

	var refs []Reference
	for cursor.Next(ctx) {
		refs = append(refs, Reference{
			ID:   idString(cursor.Current.Lookup("_id")),
			Code: codeString(cursor.Current.Lookup(s.CodeField)),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.Collection.Name(), err)
	}
	return refs, nil
}

func idString(v bson.RawValue) string {
	switch v.Type {
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	case bsontype.String:
		return v.StringValue()
	}
	return ""
}

func codeString(v bson.RawValue) string {
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	return ""
}
