package catalog

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// GroceryItem is one purchasable item in the store catalog.
type GroceryItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Brand    string   `json:"brand,omitempty"`
	Size     string   `json:"size,omitempty"`
	Price    float64  `json:"price"`
	Tags     []string `json:"tags,omitempty"`
}

type recipe struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

type groceryDocument struct {
	Catalog map[string][]GroceryItem `json:"catalog"`
	Recipes map[string]recipe        `json:"recipes"`
}

// Grocery holds the flattened store catalog plus recipe expansions.
// A missing or malformed file loads as empty; every lookup then misses,
// which callers turn into a suggestion string rather than a failure.
type Grocery struct {
	items   []GroceryItem
	byID    map[string]GroceryItem
	recipes map[string]recipe
}

func LoadGrocery(path string) *Grocery {
	g := &Grocery{
		byID:    make(map[string]GroceryItem),
		recipes: make(map[string]recipe),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("load grocery catalog")
		return g
	}
	var doc groceryDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("parse grocery catalog")
		return g
	}

	for _, items := range doc.Catalog {
		for _, item := range items {
			g.items = append(g.items, item)
			g.byID[item.ID] = item
		}
	}
	if doc.Recipes != nil {
		g.recipes = doc.Recipes
	}
	return g
}

// Search matches the query as a substring against item name, category,
// tags, and brand, all case-insensitively.
func (g *Grocery) Search(query string) []GroceryItem {
	q := strings.ToLower(query)
	var matches []GroceryItem
	for _, item := range g.items {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Category), q) ||
			strings.Contains(strings.ToLower(item.Brand), q) {
			matches = append(matches, item)
			continue
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				matches = append(matches, item)
				break
			}
		}
	}
	return matches
}

func (g *Grocery) ItemByID(id string) (GroceryItem, bool) {
	item, ok := g.byID[id]
	return item, ok
}

// RecipeIngredients resolves a dish name to catalog items. The name is
// normalized (lowercased, spaces to underscores) for a direct recipe
// lookup; unknown ingredient ids are skipped.
func (g *Grocery) RecipeIngredients(dish string) []GroceryItem {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(dish)), " ", "_")
	rec, ok := g.recipes[key]
	if !ok {
		return nil
	}
	var ingredients []GroceryItem
	for _, id := range rec.Ingredients {
		if item, ok := g.byID[id]; ok {
			ingredients = append(ingredients, item)
		}
	}
	return ingredients
}

// SearchRecipes matches recipe names by substring, against both the
// display name and the underscored key. It returns the matching keys,
// sorted, so a result feeds straight back into RecipeIngredients even
// when a recipe's key is not its normalized display name.
func (g *Grocery) SearchRecipes(query string) []string {
	q := strings.ToLower(query)
	var keys []string
	for key, rec := range g.recipes {
		if strings.Contains(strings.ToLower(rec.Name), q) || strings.Contains(key, q) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
