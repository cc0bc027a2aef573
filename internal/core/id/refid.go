package id

import (
	"strings"
)

// Kind enumerates the entity kinds that carry a reference identifier.
type Kind string

const (
	KindRawMaterial    Kind = "RM"
	KindLocalProduct   Kind = "LP"
	KindForeignProduct Kind = "FP"
	KindManufactured   Kind = "MP"
	KindTender         Kind = "TN"
	KindTenderItem     Kind = "TI"
	KindCompany        Kind = "CO"
	KindEmployee       Kind = "EM"
)

// NewRef generates a reference identifier: the kind prefix followed by a
// UUIDv7 suffix. Reference identifiers are the only stable cross-entity
// reference; they are generated from local randomness so disconnected
// clients can mint them without coordination, and they never change once
// assigned, even when storage keys are reassigned during migrations.
func NewRef(kind Kind) string {
	return string(kind) + "-" + New().String()
}

// RefKind extracts the kind prefix from a reference identifier.
// Returns an empty Kind for malformed references.
func RefKind(ref string) Kind {
	prefix, _, ok := strings.Cut(ref, "-")
	if !ok {
		return ""
	}
	switch k := Kind(prefix); k {
	case KindRawMaterial, KindLocalProduct, KindForeignProduct, KindManufactured,
		KindTender, KindTenderItem, KindCompany, KindEmployee:
		return k
	}
	return ""
}

// IsRef reports whether s looks like a reference identifier of the given kind.
func IsRef(s string, kind Kind) bool {
	return strings.HasPrefix(s, string(kind)+"-")
}
