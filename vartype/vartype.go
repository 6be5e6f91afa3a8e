// Package vartype defines the closed set of variable types understood by the
// block editor, together with the colours the editor paints them with.
package vartype

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownType is returned by Parse for names outside the enumeration.
var ErrUnknownType = errors.New("unknown variable type")

// Type is a variable type tag. The zero value is Any.
type Type string

const (
	// Any is the fallback when no block reports a type. It is never offered
	// as a selectable type.
	Any        Type = ""
	Boolean    Type = "Boolean"
	Number     Type = "Number"
	String     Type = "String"
	Colour     Type = "Colour"
	Array      Type = "Array"
	Instance   Type = "Instance"
	Class      Type = "Class"
	Sound      Type = "Sound"
	Pointer    Type = "Pointer"
	Coordinate Type = "Coordinate"
)

var selectable = []Type{
	Boolean, Number, String, Colour, Array,
	Instance, Class, Sound, Pointer, Coordinate,
}

// All returns every user-selectable type in menu order.
func All() []Type {
	out := make([]Type, len(selectable))
	copy(out, selectable)
	return out
}

// GlobalTypes returns the types a global variable may be declared with.
func GlobalTypes() []Type {
	return []Type{Boolean, Number, String}
}

// Parse resolves a type name case-insensitively. "any" and the empty string
// both parse to Any.
func Parse(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "any") {
		return Any, nil
	}
	for _, t := range selectable {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return Any, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// IsAny reports whether t is the Any sentinel.
func (t Type) IsAny() bool { return t == Any }

// String returns the definition name, or "Any" for the sentinel.
func (t Type) String() string {
	if t == Any {
		return "Any"
	}
	return string(t)
}

// ---------------------------------------------------------------------------
// Colours
// ---------------------------------------------------------------------------

var typeColours = map[Type]string{
	Any:        "#71cd04",
	Boolean:    "#2db1f9",
	Number:     "#1b6fe9",
	String:     "#40ce9e",
	Colour:     "#b24ac5",
	Array:      "#8230e7",
	Instance:   "#e74e48",
	Class:      "#fc8607",
	Sound:      "#d147ea",
	Pointer:    "#ea8847",
	Coordinate: "#388e3c",
}

// Category names a block palette category.
type Category string

const (
	CategoryEvent           Category = "EVENT"
	CategoryControl         Category = "CONTROL"
	CategoryMotion          Category = "MOTION"
	CategoryAnimation       Category = "ANIMATION"
	CategoryLooks           Category = "LOOKS"
	CategorySensing         Category = "SENSING"
	CategorySound           Category = "SOUND"
	CategoryOperators       Category = "OPERATORS"
	CategoryPhysics         Category = "PHYSICS"
	CategoryDraw            Category = "DRAW"
	CategoryVariables       Category = "VARIABLES"
	CategoryFunctions       Category = "FUNCTIONS"
	CategoryLocalVariables  Category = "LOCAL_VARIABLES"
	CategoryGlobalVariables Category = "GLOBAL_VARIABLES"
)

var categoryColours = map[Category]string{
	CategoryEvent:           "#edae00",
	CategoryControl:         "#ff8601",
	CategoryMotion:          "#e54e43",
	CategoryAnimation:       "#df358e",
	CategoryLooks:           "#b443c9",
	CategorySensing:         "#8121e7",
	CategorySound:           "#0f6bf0",
	CategoryOperators:       "#21aefe",
	CategoryPhysics:         "#e66b2f",
	CategoryDraw:            "#38ce9e",
	CategoryVariables:       "#348f32",
	CategoryFunctions:       "#6bd101",
	CategoryLocalVariables:  "#56ae02",
	CategoryGlobalVariables: "#006d00",
}

// TypeColour returns the hex colour for blocks producing a value of type t.
// Types outside the enumeration get the Any colour.
func TypeColour(t Type) string {
	if c, ok := typeColours[t]; ok {
		return c
	}
	return typeColours[Any]
}

// CategoryColour returns the hex colour for a palette category, or "" if the
// category is unknown.
func CategoryColour(c Category) string {
	return categoryColours[c]
}

// Hue returns the HSV hue, in degrees, of the colour for t. Hosts that only
// accept a hue (rather than a hex string) use this.
func Hue(t Type) float64 {
	c, err := colorful.Hex(TypeColour(t))
	if err != nil {
		return 0
	}
	h, _, _ := c.Hsv()
	return h
}

// RGB returns the colour for t as a colorful.Color.
func RGB(t Type) colorful.Color {
	c, err := colorful.Hex(TypeColour(t))
	if err != nil {
		return colorful.Color{}
	}
	return c
}
