// ABOUTME: Static knowledge base loaded once from an embedded YAML seed
// ABOUTME: Holds keyword-triggered answer categories and product records

package kb

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Category name constants. Facts are evaluated in seed order; these names
// identify the two categories whose answers are rendered rather than returned
// verbatim.
const (
	CategoryDateTime = "datetime"
	CategoryStock    = "stock"
)

// Fact is a keyword-triggered answer category. Facts are static: loaded once
// at startup and never mutated.
type Fact struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// Product is a static product record surfaced in stock answers
type Product struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Price   float64  `yaml:"price"`
	Colors  []string `yaml:"colors"`
	InStock bool     `yaml:"in_stock"`
}

// KnowledgeBase holds the loaded facts and products. The order of Facts is
// the responder's evaluation priority.
type KnowledgeBase struct {
	Facts    []Fact    `yaml:"facts"`
	Products []Product `yaml:"products"`
}

// Load parses the embedded seed into a KnowledgeBase.
func Load() (*KnowledgeBase, error) {
	return parse(seedYAML)
}

func parse(data []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parsing knowledge base seed: %w", err)
	}

	if len(kb.Facts) == 0 {
		return nil, fmt.Errorf("knowledge base seed has no facts")
	}

	for _, fact := range kb.Facts {
		if fact.Name == "" {
			return nil, fmt.Errorf("knowledge base fact missing name")
		}
		if len(fact.Keywords) == 0 {
			return nil, fmt.Errorf("fact %q has no keywords", fact.Name)
		}
		// The datetime answer is rendered from the clock at respond time
		if fact.Answer == "" && fact.Name != CategoryDateTime {
			return nil, fmt.Errorf("fact %q has no answer", fact.Name)
		}
	}

	return &kb, nil
}

// Answer returns the canonical answer text for the named category.
func (kb *KnowledgeBase) Answer(name string) (string, bool) {
	for _, fact := range kb.Facts {
		if fact.Name == name {
			return fact.Answer, true
		}
	}
	return "", false
}

// InStockProducts returns the products currently marked in stock, in seed order.
func (kb *KnowledgeBase) InStockProducts() []Product {
	var products []Product
	for _, p := range kb.Products {
		if p.InStock {
			products = append(products, p)
		}
	}
	return products
}
