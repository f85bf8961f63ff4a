package catalog

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Product is one entry of the commerce catalog.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Price       float64           `json:"price"`
	Description string            `json:"description"`
	Attributes  ProductAttributes `json:"attributes"`
}

type ProductAttributes struct {
	Color    string   `json:"color,omitempty"`
	Material string   `json:"material,omitempty"`
	Sizes    []string `json:"sizes,omitempty"`
}

// ProductFilter narrows List results. Zero values mean "no constraint".
type ProductFilter struct {
	Search   string
	Category string
	MaxPrice float64
	Color    string
}

type productDocument struct {
	Products []Product `json:"products"`
}

// Products is the commerce catalog, indexed by product id.
type Products struct {
	all  []Product
	byID map[string]Product
}

func LoadProducts(path string) *Products {
	p := &Products{byID: make(map[string]Product)}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("load product catalog")
		return p
	}
	var doc productDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("parse product catalog")
		return p
	}

	p.all = doc.Products
	for _, prod := range doc.Products {
		p.byID[prod.ID] = prod
	}
	return p
}

func (p *Products) List(filter ProductFilter) []Product {
	var out []Product
	for _, prod := range p.all {
		if filter.Category != "" && !strings.EqualFold(prod.Category, filter.Category) {
			continue
		}
		if filter.MaxPrice > 0 && prod.Price > filter.MaxPrice {
			continue
		}
		if filter.Color != "" && !strings.EqualFold(prod.Attributes.Color, filter.Color) {
			continue
		}
		if filter.Search != "" {
			q := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(prod.Name), q) &&
				!strings.Contains(strings.ToLower(prod.Description), q) {
				continue
			}
		}
		out = append(out, prod)
	}
	return out
}

func (p *Products) ByID(id string) (Product, bool) {
	prod, ok := p.byID[id]
	return prod, ok
}
