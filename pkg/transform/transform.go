package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/tessera/pkg/errors"
)

// Kind identifies a geometric operation.
type Kind string

// Supported transform kinds.
const (
	Translate Kind = "translate"
	Scale     Kind = "scale"
	Rotate    Kind = "rotate"
)

// Kinds lists the supported kinds in a stable order.
var Kinds = []Kind{Translate, Scale, Rotate}

// ParseKind converts a case-insensitive name into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", errors.New(errors.ErrCodeInvalidTransform,
			"unknown transform kind %q (must be one of: translate, scale, rotate)", s)
	}
	return k, nil
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case Translate, Scale, Rotate:
		return true
	}
	return false
}

// Transform is one geometric operation with its scalar parameter.
type Transform struct {
	Kind  Kind    `json:"kind" toml:"kind"`
	Value float64 `json:"value" toml:"value"`
}

// New returns a Transform of the given kind.
func New(kind Kind, value float64) Transform {
	return Transform{Kind: kind, Value: value}
}

// String renders t as "kind=value".
func (t Transform) String() string {
	return fmt.Sprintf("%s=%g", t.Kind, t.Value)
}

// Parse reads a "kind=value" pair such as "rotate=45".
func Parse(s string) (Transform, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return Transform{}, errors.New(errors.ErrCodeInvalidTransform,
			"invalid transform %q (expected kind=value)", s)
	}
	kind, err := ParseKind(name)
	if err != nil {
		return Transform{}, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Transform{}, errors.Wrap(errors.ErrCodeInvalidTransform, err,
			"invalid value in transform %q", s)
	}
	if !finite(v) {
		return Transform{}, errors.New(errors.ErrCodeInvalidTransform,
			"transform %q: value must be finite", s)
	}
	return Transform{Kind: kind, Value: v}, nil
}

// Validate checks the kind and value of every transform in ts.
func Validate(ts []Transform) error {
	for i, t := range ts {
		if !t.Kind.Valid() {
			return errors.New(errors.ErrCodeInvalidTransform,
				"transform %d: unknown kind %q", i, t.Kind)
		}
		if !finite(t.Value) {
			return errors.New(errors.ErrCodeInvalidTransform,
				"transform %d: %s value must be finite, got %g", i, t.Kind, t.Value)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
