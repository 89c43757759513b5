package utils

import (
	"crypto/sha1"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StableObjectID converts a legacy identifier into a target ObjectID.
// Hex ids are parsed as is; any other id maps to the first 12 bytes of its
// SHA-1, so repeated runs address the same target document.
func StableObjectID(legacy string) primitive.ObjectID {
	if oid, err := primitive.ObjectIDFromHex(legacy); err == nil {
		return oid
	}
	sum := sha1.Sum([]byte(legacy))
	var oid primitive.ObjectID
	copy(oid[:], sum[:12])
	return oid
}

// NormalizeCode trims and upper-cases a reference code. Codes are only
// compared in this form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// TimeOr returns *t, or fallback when t is nil or zero.
func TimeOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil || t.IsZero() {
		return fallback
	}
	return *t
}

// IntOr returns v, or fallback when v is zero.
func IntOr(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

// StringOr returns v, or fallback when v is blank.
func StringOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
