package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configFile = ""
		seedFile = "config/fixtures.yaml"
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionSkipsConfig(t *testing.T) {
	out, err := execute(t, "version", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "catalog "+version+"\n", out)
}

func TestMigrateAndSeed(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "catalog.yaml")
	fixturesPath := filepath.Join(dir, "fixtures.yaml")
	dsn := filepath.Join(dir, "catalog.db")

	require.NoError(t, os.WriteFile(cfgPath, []byte("env: test\ndb:\n  driver: sqlite\n  dsn: "+dsn+"\n"), 0o600))
	require.NoError(t, os.WriteFile(fixturesPath, []byte(`categories:
  - name: Food
products:
  - name: Kibble
    price: "12.50"
    categories: [Food]
pets:
  - name: Rex
    type: dog
    birth_date: "2020-02-01"
    visits:
      - date: "2024-03-01"
        description: checkup
`), 0o600))

	out, err := execute(t, "migrate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	out, err = execute(t, "seed", "--config", cfgPath, "--file", fixturesPath)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 1 categories, 1 products, 1 pets, 1 visits")
}

func TestSeedMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("env: test\ndb:\n  driver: sqlite\n  dsn: "+filepath.Join(dir, "c.db")+"\n"), 0o600))

	_, err := execute(t, "seed", "--config", cfgPath, "--file", filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}
