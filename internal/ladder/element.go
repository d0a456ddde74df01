// Package ladder models the components of a normalized lowpass ladder
// network: series reactances, shunt susceptances, the terminating load and
// transmission-line (unit element) segments.
package ladder

import (
	"fmt"
	"strings"
)

// Kind identifies which of the four ladder components an Element is.
type Kind uint8

// Element kinds. The zero Kind is invalid.
const (
	KindSeries Kind = iota + 1
	KindShunt
	KindLoad
	KindLine
)

var kindNames = map[Kind]string{
	KindSeries: "series",
	KindShunt:  "shunt",
	KindLoad:   "load",
	KindLine:   "line",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Reactive reports whether k is a series or shunt element.
func (k Kind) Reactive() bool {
	return k == KindSeries || k == KindShunt
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown element kind %d", uint8(k))
	}

	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	want := strings.ToLower(strings.TrimSpace(string(text)))
	for kind, name := range kindNames {
		if name == want {
			*k = kind
			return nil
		}
	}

	return fmt.Errorf("unknown element kind %q", string(text))
}

// Element is one ladder component with its normalized magnitude.
//
// Series carries a reactance, Shunt a susceptance (1/g), Load a terminating
// resistance and Line a characteristic impedance.
type Element struct {
	Kind  Kind    `json:"kind"`
	Value float64 `json:"value"`
}

// Series returns a series reactance element.
func Series(x float64) Element { return Element{Kind: KindSeries, Value: x} }

// Shunt returns a shunt susceptance element.
func Shunt(b float64) Element { return Element{Kind: KindShunt, Value: b} }

// Load returns a terminating load element.
func Load(r float64) Element { return Element{Kind: KindLoad, Value: r} }

// Line returns a transmission-line segment element.
func Line(z float64) Element { return Element{Kind: KindLine, Value: z} }

// Is reports whether e is of kind k.
func (e Element) Is(k Kind) bool { return e.Kind == k }

// Scaled returns a copy of e with its magnitude multiplied by f.
func (e Element) Scaled(f float64) Element {
	return Element{Kind: e.Kind, Value: e.Value * f}
}

// String renders the element as Kind(value) with four decimals,
// e.g. "Series(1.0000)".
func (e Element) String() string {
	name := e.Kind.String()
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}

	return fmt.Sprintf("%s(%.4f)", name, e.Value)
}
