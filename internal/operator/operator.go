// Package operator maps Indian mobile numbers to their carrier using the
// leading four digit series.
package operator

import (
	"fmt"
	"strconv"

	"github.com/rechargex/rechargex/internal/apperr"
)

// Operator names a mobile carrier.
type Operator string

const (
	Jio     Operator = "Jio"
	Airtel  Operator = "Airtel"
	Vi      Operator = "Vi"
	BSNL    Operator = "BSNL"
	Unknown Operator = "Unknown"
)

// Carriers lists the operators that have a prefix table, in lookup order.
var Carriers = []Operator{Jio, Airtel, Vi, BSNL}

func (o Operator) String() string { return string(o) }

// Resolver resolves carriers, returning Default for unrecognised numbers.
type Resolver struct {
	Default Operator
}

// NewResolver builds a Resolver. An empty default falls back to Unknown.
func NewResolver(def Operator) Resolver {
	if def == "" {
		def = Unknown
	}
	return Resolver{Default: def}
}

// Resolve returns the carrier owning the first four digits of mobile.
func (r Resolver) Resolve(mobile string) Operator {
	def := r.Default
	if def == "" {
		def = Unknown
	}
	if len(mobile) < 4 {
		return def
	}
	prefix, err := strconv.Atoi(mobile[:4])
	if err != nil || prefix < 0 {
		return def
	}
	if op, ok := prefixes[prefix]; ok {
		return op
	}
	return def
}

// Detect resolves mobile with the Unknown default.
func Detect(mobile string) Operator {
	return Resolver{Default: Unknown}.Resolve(mobile)
}

// Parse validates a carrier name. Unknown is not accepted.
func Parse(name string) (Operator, error) {
	for _, op := range Carriers {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: invalid operator", apperr.ErrValidation)
}
