package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegacyID is an identifier read from the legacy store. Older collections
// stored ids as plain strings, newer ones as ObjectIDs; both decode to the
// same hex/string form.
type LegacyID string

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (id *LegacyID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.ObjectID:
		*id = LegacyID(raw.ObjectID().Hex())
	case bsontype.String:
		*id = LegacyID(raw.StringValue())
	case bsontype.Int32:
		*id = LegacyID(fmt.Sprintf("%d", raw.Int32()))
	case bsontype.Int64:
		*id = LegacyID(fmt.Sprintf("%d", raw.Int64()))
	case bsontype.Null, bsontype.Undefined:
		*id = ""
	default:
		return fmt.Errorf("cannot decode %s into LegacyID", t)
	}
	return nil
}

// String returns the id as stored.
func (id LegacyID) String() string { return string(id) }

// ObjectID returns the id as an ObjectID when it is a valid hex id.
func (id LegacyID) ObjectID() (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	return oid, err == nil
}

// Filter returns the value to use when matching this id in a legacy query.
func (id LegacyID) Filter() interface{} {
	if oid, ok := id.ObjectID(); ok {
		return bson.M{"$in": bson.A{oid, string(id)}}
	}
	return string(id)
}

// SelectionList holds the indexes a legacy component marks as selected.
// Entries that are not numeric are ignored.
type SelectionList []int

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (s *SelectionList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*s = nil
	if t == bsontype.Null || t == bsontype.Undefined {
		return nil
	}
	if t != bsontype.Array {
		return fmt.Errorf("cannot decode %s into SelectionList", t)
	}
	values, err := bson.Raw(data).Values()
	if err != nil {
		return err
	}
	for _, v := range values {
		switch v.Type {
		case bsontype.Int32:
			*s = append(*s, int(v.Int32()))
		case bsontype.Int64:
			*s = append(*s, int(v.Int64()))
		case bsontype.Double:
			*s = append(*s, int(v.Double()))
		}
	}
	return nil
}

// Contains reports whether index is selected.
func (s SelectionList) Contains(index int) bool {
	for _, v := range s {
		if v == index {
			return true
		}
	}
	return false
}
