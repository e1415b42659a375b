// Package units defines the two unit vocabularies used across the service:
// convertible mass units (grams are the canonical unit) and display-only
// labels used for reorder thresholds. The two are deliberately distinct
// types so one can never be converted as the other.
package units

import "strings"

// MassUnit is a convertible mass unit. ToGrams understands every value of
// this type; anything else converts with a factor of 1.0 (treated as grams).
type MassUnit string

const (
	Gram     MassUnit = "g"
	Kilogram MassUnit = "kg"
	Pound    MassUnit = "lb"
	Ounce    MassUnit = "oz"
)

// massFactors maps a mass unit to its gram multiplier.
var massFactors = map[MassUnit]float64{
	Gram:     1.0,
	Kilogram: 1000.0,
	Pound:    453.59237,
	Ounce:    28.349523125,
}

// MassUnits lists the permitted mass units in display order.
func MassUnits() []MassUnit {
	return []MassUnit{Gram, Kilogram, Pound, Ounce}
}

// ParseMassUnit normalizes a raw unit string. The boolean reports whether
// the input named a known mass unit; unknown or empty input falls back to
// grams.
func ParseMassUnit(s string) (MassUnit, bool) {
	u := MassUnit(strings.ToLower(strings.TrimSpace(s)))
	if u == "" {
		return Gram, false
	}
	if _, ok := massFactors[u]; ok {
		return u, true
	}
	return Gram, false
}

// ToGrams converts an amount in the given unit to grams. Unknown units use
// a factor of 1.0, matching the tolerant behavior of the stored documents.
func ToGrams(amount float64, unit MassUnit) float64 {
	factor, ok := massFactors[MassUnit(strings.ToLower(string(unit)))]
	if !ok {
		factor = 1.0
	}
	return amount * factor
}

// DisplayUnit is a free-text label attached to threshold records. These are
// informational only; no conversion is defined between display units and
// mass units.
type DisplayUnit string

const (
	DisplayCans    DisplayUnit = "cans"
	DisplayBags50  DisplayUnit = "50lbs bags"
	DisplayGrams   DisplayUnit = "grams"
	DisplayLiters  DisplayUnit = "liters"
	DisplayGallons DisplayUnit = "gallons"
)

// DisplayUnits lists the permitted threshold labels in display order.
func DisplayUnits() []DisplayUnit {
	return []DisplayUnit{DisplayCans, DisplayBags50, DisplayGrams, DisplayLiters, DisplayGallons}
}

// ParseDisplayUnit validates a raw label. Unknown input falls back to
// "grams", the boolean reports whether the input was a known label.
func ParseDisplayUnit(s string) (DisplayUnit, bool) {
	u := DisplayUnit(strings.TrimSpace(s))
	for _, known := range DisplayUnits() {
		if u == known {
			return u, true
		}
	}
	return DisplayGrams, false
}

// Volume conversions used by container-based scaling.
const (
	// LitersPerGallon is the US liquid gallon in liters.
	LitersPerGallon = 3.785411784
)
