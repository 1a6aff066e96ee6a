// Package category buckets parsed statement transactions into habit spending
// categories by keyword matching and ranks categories by total spend. The
// taxonomy ships with built-in habit categories and can be replaced wholesale
// from a YAML file.
package category

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

// Category is one taxonomy entry: a name and the keyword substrings that put
// a transaction in it.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy is an ordered set of categories. Order is significant: it breaks
// ranking ties and fixes iteration order for deterministic output.
type Taxonomy struct {
	categories []Category
}

// New validates and normalizes a category list into a Taxonomy. Keywords are
// lowercased once here so matching never re-cases them.
func New(cats []Category) (Taxonomy, error) {
	if len(cats) == 0 {
		return Taxonomy{}, fmt.Errorf("taxonomy has no categories")
	}
	seen := make(map[string]bool, len(cats))
	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return Taxonomy{}, fmt.Errorf("category with empty name")
		}
		if seen[name] {
			return Taxonomy{}, fmt.Errorf("duplicate category %q", name)
		}
		seen[name] = true
		if len(c.Keywords) == 0 {
			return Taxonomy{}, fmt.Errorf("category %q has no keywords", name)
		}
		keywords := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return Taxonomy{}, fmt.Errorf("category %q has an empty keyword", name)
			}
			keywords = append(keywords, kw)
		}
		out = append(out, Category{Name: name, Keywords: keywords})
	}
	return Taxonomy{categories: out}, nil
}

// Default returns the built-in habit taxonomy.
func Default() Taxonomy {
	t, err := New(builtinCategories)
	if err != nil {
		panic("built-in taxonomy invalid: " + err.Error())
	}
	return t
}

// Load reads a taxonomy from a YAML file holding a list of categories. The
// file replaces the built-in taxonomy entirely rather than merging with it.
func Load(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy file: %w", err)
	}
	var cats []Category
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return Taxonomy{}, fmt.Errorf("parse taxonomy file %s: %w", path, err)
	}
	t, err := New(cats)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("taxonomy file %s: %w", path, err)
	}
	return t, nil
}

// Names returns the category names in taxonomy order.
func (t Taxonomy) Names() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.Name
	}
	return names
}

// matches reports whether desc belongs to c. Substring, not word-boundary:
// merchant strings concatenate freely and a looser match catches more of them.
func (c Category) matches(lowerDesc string) bool {
	for _, kw := range c.Keywords {
		if strings.Contains(lowerDesc, kw) {
			return true
		}
	}
	return false
}

// Filter returns the transactions whose description matches the named
// category. An unknown category name yields nil.
func (t Taxonomy) Filter(txs []model.ParsedTransaction, name string) []model.ParsedTransaction {
	for _, c := range t.categories {
		if c.Name != name {
			continue
		}
		var out []model.ParsedTransaction
		for _, tx := range txs {
			if c.matches(strings.ToLower(tx.Description)) {
				out = append(out, tx)
			}
		}
		return out
	}
	return nil
}

// Categorize maps every category name to the transactions matching it. A
// transaction may appear under several categories; one that matches nothing
// appears under none. Categories without matches are absent from the map.
func (t Taxonomy) Categorize(txs []model.ParsedTransaction) map[string][]model.ParsedTransaction {
	out := make(map[string][]model.ParsedTransaction)
	for _, tx := range txs {
		lower := strings.ToLower(tx.Description)
		for _, c := range t.categories {
			if c.matches(lower) {
				out[c.Name] = append(out[c.Name], tx)
			}
		}
	}
	return out
}

// Rank totals matched spend per category and returns categories sorted by
// total descending. Categories with no matches are omitted; ties keep
// taxonomy order.
func (t Taxonomy) Rank(txs []model.ParsedTransaction) []model.CategoryMatch {
	var out []model.CategoryMatch
	for _, c := range t.categories {
		count := 0
		total := decimal.Zero
		for _, tx := range txs {
			if c.matches(strings.ToLower(tx.Description)) {
				count++
				total = total.Add(tx.Amount)
			}
		}
		if count > 0 {
			out = append(out, model.CategoryMatch{Category: c.Name, MatchCount: count, TotalAmount: total})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalAmount.GreaterThan(out[j].TotalAmount)
	})
	return out
}

// DetectVice ranks transactions against the built-in taxonomy.
func DetectVice(txs []model.ParsedTransaction) []model.CategoryMatch {
	return Default().Rank(txs)
}
