package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// IngredientAmount is a single ingredient quantity. Quantities are grams by
// convention; non-numeric values found in the recipe document (e.g. "to
// taste") are carried through verbatim for display and excluded from weight
// sums and scaling.
type IngredientAmount struct {
	Grams   float64
	Raw     string
	Numeric bool
}

// Amount builds a numeric quantity in grams.
func Amount(grams float64) IngredientAmount {
	return IngredientAmount{Grams: grams, Numeric: true}
}

// RawAmount builds a display-only quantity.
func RawAmount(s string) IngredientAmount {
	return IngredientAmount{Raw: s}
}

// String renders the quantity the way the dashboard shows it.
func (a IngredientAmount) String() string {
	if a.Numeric {
		return strconv.FormatFloat(a.Grams, 'f', -1, 64)
	}
	return a.Raw
}

func (a IngredientAmount) MarshalJSON() ([]byte, error) {
	if a.Numeric {
		return json.Marshal(a.Grams)
	}
	return json.Marshal(a.Raw)
}

func (a *IngredientAmount) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*a = RawAmount("")
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			*a = RawAmount(t.String())
			return nil
		}
		*a = Amount(f)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			*a = Amount(f)
		} else {
			*a = RawAmount(t)
		}
	default:
		*a = RawAmount(fmt.Sprint(t))
	}
	return nil
}

// IngredientMap is an insertion-ordered ingredient-name → quantity mapping.
// Order follows the recipe document, so a batch walk visits ingredients the
// way the recipe author wrote them down.
type IngredientMap struct {
	names []string
	items map[string]IngredientAmount
}

// NewIngredientMap returns an empty, initialized map.
func NewIngredientMap() IngredientMap {
	return IngredientMap{items: make(map[string]IngredientAmount)}
}

// Set inserts or replaces a quantity, preserving first-seen order.
func (m *IngredientMap) Set(name string, amt IngredientAmount) {
	if m.items == nil {
		m.items = make(map[string]IngredientAmount)
	}
	if _, ok := m.items[name]; !ok {
		m.names = append(m.names, name)
	}
	m.items[name] = amt
}

// Get looks up a quantity by ingredient name.
func (m IngredientMap) Get(name string) (IngredientAmount, bool) {
	amt, ok := m.items[name]
	return amt, ok
}

// Names returns the ingredient names in document order.
func (m IngredientMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len reports the number of ingredients.
func (m IngredientMap) Len() int {
	return len(m.names)
}

// TotalGrams sums the numeric quantities. Non-numeric entries do not count.
func (m IngredientMap) TotalGrams() float64 {
	var sum float64
	for _, name := range m.names {
		if amt := m.items[name]; amt.Numeric {
			sum += amt.Grams
		}
	}
	return sum
}

// Scale multiplies every numeric quantity by factor, rounding each result to
// two decimals. Non-numeric quantities pass through unchanged.
func (m IngredientMap) Scale(factor float64) IngredientMap {
	out := NewIngredientMap()
	for _, name := range m.names {
		amt := m.items[name]
		if amt.Numeric {
			amt.Grams = Round2(amt.Grams * factor)
		}
		out.Set(name, amt)
	}
	return out
}

func (m IngredientMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.items[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts any JSON value: objects decode key-by-key in
// document order, anything else degrades to an empty map.
func (m *IngredientMap) UnmarshalJSON(data []byte) error {
	*m = NewIngredientMap()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var amt IngredientAmount
		if err := dec.Decode(&amt); err != nil {
			return err
		}
		m.Set(key, amt)
	}
	return nil
}

// StringList is a tolerant sequence of instruction steps: JSON null decodes
// to empty, a bare string wraps into a one-element list, list elements of
// any type coerce to their string form.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*l = StringList{}
	case string:
		*l = StringList{t}
	case []any:
		out := make(StringList, 0, len(t))
		for _, elem := range t {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(elem))
			}
		}
		*l = out
	default:
		*l = StringList{}
	}
	return nil
}

// SubRecipe is a named, independently-instructed component of a recipe. Its
// quantities are informational and never scale with the parent.
type SubRecipe struct {
	Ingredients IngredientMap `json:"ingredients"`
	Instruction StringList    `json:"instruction"`
}

func (s *SubRecipe) normalize() {
	if s.Ingredients.items == nil {
		s.Ingredients = NewIngredientMap()
	}
	if s.Instruction == nil {
		s.Instruction = StringList{}
	}
}

// SubRecipeMap drops entries that are not JSON objects instead of failing
// the whole recipe.
type SubRecipeMap map[string]SubRecipe

func (m *SubRecipeMap) UnmarshalJSON(data []byte) error {
	*m = SubRecipeMap{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for name, msg := range raw {
		var sub SubRecipe
		if err := json.Unmarshal(msg, &sub); err != nil {
			continue
		}
		sub.normalize()
		(*m)[name] = sub
	}
	return nil
}

// Recipe is the canonical recipe shape: after decoding, all three fields are
// present and well-typed regardless of what the document contained.
type Recipe struct {
	Name        string        `json:"-"`
	Ingredients IngredientMap `json:"ingredients"`
	Instruction StringList    `json:"instruction"`
	Subrecipes  SubRecipeMap  `json:"subrecipes"`
}

func (r *Recipe) normalize() {
	if r.Ingredients.items == nil {
		r.Ingredients = NewIngredientMap()
	}
	if r.Instruction == nil {
		r.Instruction = StringList{}
	}
	if r.Subrecipes == nil {
		r.Subrecipes = SubRecipeMap{}
	}
	for name, sub := range r.Subrecipes {
		sub.normalize()
		r.Subrecipes[name] = sub
	}
}

// OriginalWeight is the sum of the recipe's numeric base quantities in grams.
func (r Recipe) OriginalWeight() float64 {
	return r.Ingredients.TotalGrams()
}

// RecipeSet is the full recipe document, keyed by recipe name, preserving
// document order.
type RecipeSet struct {
	names []string
	items map[string]Recipe
}

// DecodeRecipeSet parses and sanitizes a recipe document. Malformed JSON is
// an error; malformed schema is not: entries that are not objects are
// skipped silently and missing keys default to empty well-typed values. The
// result of marshaling a decoded set decodes back identically.
func DecodeRecipeSet(data []byte) (*RecipeSet, error) {
	set := &RecipeSet{items: make(map[string]Recipe)}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		// Not a mapping at the top level; degrade to an empty set.
		return set, nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		var rec Recipe
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		rec.Name = name
		rec.normalize()
		set.items[name] = rec
		set.names = append(set.names, name)
	}
	return set, nil
}

// Names returns recipe names in document order.
func (s *RecipeSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get looks up a recipe by name.
func (s *RecipeSet) Get(name string) (Recipe, bool) {
	rec, ok := s.items[name]
	return rec, ok
}

// Len reports the number of recipes.
func (s *RecipeSet) Len() int {
	return len(s.names)
}

// IngredientUniverse collects every ingredient name appearing in any recipe
// or sub-recipe, trimmed and sorted.
func (s *RecipeSet) IngredientUniverse() []string {
	seen := make(map[string]struct{})
	for _, name := range s.names {
		rec := s.items[name]
		for _, ing := range rec.Ingredients.Names() {
			seen[strings.TrimSpace(ing)] = struct{}{}
		}
		for _, sub := range rec.Subrecipes {
			for _, ing := range sub.Ingredients.Names() {
				seen[strings.TrimSpace(ing)] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for ing := range seen {
		out = append(out, ing)
	}
	sort.Strings(out)
	return out
}

func (s *RecipeSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.items[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Round2 rounds to two decimal places, the precision every scaled quantity
// and total is reported at.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
