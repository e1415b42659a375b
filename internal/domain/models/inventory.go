package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fedejm/icecream-new-feature-test/internal/pkg/units"
)

// InventoryRecord is the on-hand stock of one raw ingredient.
type InventoryRecord struct {
	Amount float64        `json:"amount"`
	Unit   units.MassUnit `json:"unit"`
}

// Grams returns the record's quantity converted to grams.
func (r InventoryRecord) Grams() float64 {
	return units.ToGrams(r.Amount, r.Unit)
}

// ThresholdRecord is the reorder floor for one raw ingredient. Unit is a
// display label only and never participates in conversion.
type ThresholdRecord struct {
	Min  float64           `json:"min"`
	Unit units.DisplayUnit `json:"unit"`
}

// ConversionError reports a value that could not be coerced to a number
// while normalizing a stored document.
type ConversionError struct {
	Ingredient string
	Value      any
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("ingredient %q: cannot convert %v (%T) to a number", e.Ingredient, e.Value, e.Value)
}

// coerceNumber converts the loosely-typed values found in stored documents.
// Numbers and numeric strings coerce, null coerces to zero, anything else is
// a ConversionError.
func coerceNumber(ingredient string, v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, &ConversionError{Ingredient: ingredient, Value: v}
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, &ConversionError{Ingredient: ingredient, Value: v}
		}
		return f, nil
	default:
		return 0, &ConversionError{Ingredient: ingredient, Value: v}
	}
}

// NormalizeInventory upgrades a raw inventory document to the current
// {amount, unit} shape. Legacy bare-number entries are converted with the
// default gram unit and flagged so the caller can persist the migrated form
// once. Unknown units fall back to grams without flagging.
func NormalizeInventory(raw map[string]any) (map[string]InventoryRecord, bool, error) {
	inv := make(map[string]InventoryRecord, len(raw))
	changed := false
	for name, v := range raw {
		if m, ok := v.(map[string]any); ok {
			amount, err := coerceNumber(name, m["amount"])
			if err != nil {
				return nil, false, err
			}
			unitStr, _ := m["unit"].(string)
			unit, _ := units.ParseMassUnit(unitStr)
			inv[name] = InventoryRecord{Amount: amount, Unit: unit}
			continue
		}
		amount, err := coerceNumber(name, v)
		if err != nil {
			return nil, false, err
		}
		inv[name] = InventoryRecord{Amount: amount, Unit: units.Gram}
		changed = true
	}
	return inv, changed, nil
}

// NormalizeThresholds upgrades a raw thresholds document to the current
// {min, unit} shape. Same migration rules as NormalizeInventory, but the
// unit vocabulary is display labels and defaults to "grams".
func NormalizeThresholds(raw map[string]any) (map[string]ThresholdRecord, bool, error) {
	out := make(map[string]ThresholdRecord, len(raw))
	changed := false
	for name, v := range raw {
		if m, ok := v.(map[string]any); ok {
			min, err := coerceNumber(name, m["min"])
			if err != nil {
				return nil, false, err
			}
			unitStr, _ := m["unit"].(string)
			unit, _ := units.ParseDisplayUnit(unitStr)
			out[name] = ThresholdRecord{Min: min, Unit: unit}
			continue
		}
		min, err := coerceNumber(name, v)
		if err != nil {
			return nil, false, err
		}
		out[name] = ThresholdRecord{Min: min, Unit: units.DisplayGrams}
		changed = true
	}
	return out, changed, nil
}
