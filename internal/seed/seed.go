// Package seed reads the starter category lists used when a category set
// has never been saved.
package seed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"nobudget/internal/core"
)

// Seed holds the starter lists. An empty list means the built-in default.
type Seed struct {
	Categories       []string `yaml:"categories"`
	IncomeCategories []string `yaml:"income_categories"`
}

// Default returns the built-in starter lists.
func Default() Seed {
	return Seed{
		Categories:       core.DefaultCategories(),
		IncomeCategories: core.DefaultIncomeCategories(),
	}
}

// Load reads a YAML seed file. An empty path yields Default. Lists missing
// from the file keep their default.
//
//	categories: [Food, Rent, Travel]
//	income_categories:
//	  - Salary
//	  - Dividends
func Load(path string) (Seed, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed YAML, trimming names and dropping blanks and repeats.
func Parse(data []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed file: %w", err)
	}

	def := Default()
	s.Categories = dedupe(s.Categories)
	if len(s.Categories) == 0 {
		s.Categories = def.Categories
	}
	s.IncomeCategories = dedupe(s.IncomeCategories)
	if len(s.IncomeCategories) == 0 {
		s.IncomeCategories = def.IncomeCategories
	}
	return s, nil
}

// dedupe keeps the first occurrence of each name, in input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
