package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messyDocument = `{
  "Vanilla": {
    "ingredients": {"milk": 1000, "sugar": 250, "vanilla extract": "to taste"},
    "instruction": "Mix and freeze.",
    "subrecipes": {
      "caramel swirl": {"ingredients": {"sugar": 100}, "instruction": null},
      "broken": 42
    }
  },
  "Bare": {},
  "NotARecipe": "skip me",
  "Sorbet": {
    "ingredients": {"strawberries": 500, "sugar": 150},
    "instruction": ["Puree.", "Strain.", "Freeze."]
  }
}`

func TestDecodeRecipeSetRepairsSchema(t *testing.T) {
	set, err := DecodeRecipeSet([]byte(messyDocument))
	require.NoError(t, err)

	// Non-mapping top-level entries are skipped silently.
	assert.Equal(t, []string{"Vanilla", "Bare", "Sorbet"}, set.Names())

	vanilla, ok := set.Get("Vanilla")
	require.True(t, ok)
	assert.Equal(t, StringList{"Mix and freeze."}, vanilla.Instruction)
	assert.Equal(t, []string{"milk", "sugar", "vanilla extract"}, vanilla.Ingredients.Names())

	extract, ok := vanilla.Ingredients.Get("vanilla extract")
	require.True(t, ok)
	assert.False(t, extract.Numeric)
	assert.Equal(t, "to taste", extract.Raw)

	// Non-mapping subrecipe entries are skipped; null instruction repairs
	// to an empty list.
	require.Len(t, vanilla.Subrecipes, 1)
	swirl := vanilla.Subrecipes["caramel swirl"]
	assert.Equal(t, StringList{}, swirl.Instruction)
	assert.Equal(t, 1, swirl.Ingredients.Len())

	// A recipe with no keys at all still comes out fully typed.
	bare, ok := set.Get("Bare")
	require.True(t, ok)
	assert.Equal(t, 0, bare.Ingredients.Len())
	assert.Equal(t, StringList{}, bare.Instruction)
	assert.NotNil(t, bare.Subrecipes)
}

func TestDecodeRecipeSetIdempotent(t *testing.T) {
	first, err := DecodeRecipeSet([]byte(messyDocument))
	require.NoError(t, err)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := DecodeRecipeSet(encoded)
	require.NoError(t, err)

	reencoded, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(encoded), string(reencoded))
	assert.Equal(t, first.Names(), second.Names())
}

func TestDecodeRecipeSetMalformedJSON(t *testing.T) {
	_, err := DecodeRecipeSet([]byte(`{"Vanilla": {`))
	assert.Error(t, err)
}

func TestDecodeRecipeSetNonObjectTopLevel(t *testing.T) {
	set, err := DecodeRecipeSet([]byte(`[1, 2, 3]`))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestOriginalWeightExcludesNonNumeric(t *testing.T) {
	set, err := DecodeRecipeSet([]byte(messyDocument))
	require.NoError(t, err)
	vanilla, _ := set.Get("Vanilla")
	assert.InDelta(t, 1250, vanilla.OriginalWeight(), 1e-9)
}

func TestIngredientMapScale(t *testing.T) {
	m := NewIngredientMap()
	m.Set("milk", Amount(1000))
	m.Set("stabilizer", Amount(3.333))
	m.Set("salt", RawAmount("a pinch"))

	scaled := m.Scale(1.5)
	milk, _ := scaled.Get("milk")
	assert.Equal(t, 1500.0, milk.Grams)
	stab, _ := scaled.Get("stabilizer")
	assert.Equal(t, 5.0, stab.Grams)
	salt, _ := scaled.Get("salt")
	assert.False(t, salt.Numeric)
	assert.Equal(t, "a pinch", salt.Raw)
	assert.Equal(t, []string{"milk", "stabilizer", "salt"}, scaled.Names())
}

func TestIngredientUniverseIncludesSubrecipes(t *testing.T) {
	set, err := DecodeRecipeSet([]byte(messyDocument))
	require.NoError(t, err)
	universe := set.IngredientUniverse()
	assert.Equal(t, []string{"milk", "strawberries", "sugar", "vanilla extract"}, universe)
}

func TestStringListCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want StringList
	}{
		{"null", `null`, StringList{}},
		{"bare string", `"step one"`, StringList{"step one"}},
		{"mixed list", `["a", 2, true]`, StringList{"a", "2", "true"}},
		{"object degrades to empty", `{"x": 1}`, StringList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l StringList
			require.NoError(t, json.Unmarshal([]byte(tt.in), &l))
			assert.Equal(t, tt.want, l)
		})
	}
}
