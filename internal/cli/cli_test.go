package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BartekS5/tanamao-migrate/internal/etl"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["migrate"])
	assert.True(t, names["check"])
	assert.True(t, names["stats"])

	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)
	var subs []string
	for _, c := range migrate.Commands() {
		subs = append(subs, c.Name())
	}
	assert.ElementsMatch(t, []string{"users", "paymethods", "companies", "products", "all"}, subs)
	assert.NotNil(t, migrate.PersistentFlags().ShorthandLookup("b"))
	assert.NotNil(t, migrate.PersistentFlags().ShorthandLookup("p"))
}

func TestCompanyURIFromArgs(t *testing.T) {
	cmd := &cobra.Command{}
	uri, err := companyURI(cmd, []string{" pizzaria-teste "})
	require.NoError(t, err)
	assert.Equal(t, "pizzaria-teste", uri)
}

func TestCompanyURIPrompt(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("loja-do-ze\n"))

	uri, err := companyURI(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "loja-do-ze", uri)
	assert.Contains(t, out.String(), "Company uri:")
}

func TestCompanyURIPromptWithoutNewline(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("loja-do-ze"))

	uri, err := companyURI(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "loja-do-ze", uri)
}

func TestProductsRequiresURI(t *testing.T) {
	out, err := execute(t, "\n", "migrate", "products")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company uri is required")
	assert.Contains(t, out, "Company uri:")
}

func TestMigrateRejectsMissingProfile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.toml")

	_, err := execute(t, "", "migrate", "users", "--profile", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read profile")
}

func TestMigrateRejectsExtraArgs(t *testing.T) {
	_, err := execute(t, "", "migrate", "users", "extra")
	require.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	s := &etl.Stats{Entity: "companies", Migrated: 3, Updated: 1, Errors: 1, Total: 5,
		Extra: map[string]int{"deliveryAreas": 7}, Warnings: []string{"w"}}
	var out bytes.Buffer

	printSummary(&out, s)

	line := out.String()
	assert.Contains(t, line, "companies")
	assert.Contains(t, line, "migrated=3 updated=1 skipped=0 errors=1 total=5")
	assert.Contains(t, line, "deliveryAreas=7")
	assert.Contains(t, line, "warnings=1")
}
