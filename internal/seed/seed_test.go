package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Other"}, s.Categories)
	assert.Equal(t, []string{"Salary", "Freelance", "Bonus", "Other"}, s.IncomeCategories)
}

func TestParseDedupesAndTrims(t *testing.T) {
	s, err := Parse([]byte("categories: [' Rent ', Food, Rent, '']\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Rent", "Food"}, s.Categories)
	assert.Equal(t, Default().IncomeCategories, s.IncomeCategories, "missing list keeps its default")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("income_categories:\n  - Dividends\n  - Salary\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dividends", "Salary"}, s.IncomeCategories)
	assert.Equal(t, Default().Categories, s.Categories)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("categories: {not: a list}"))
	assert.Error(t, err)
}
