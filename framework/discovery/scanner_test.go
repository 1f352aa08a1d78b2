package discovery_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-nest/framework/discovery"
)

const providerSrc = `package sample

// nest:provider
type DbProvider struct{}
`

const controllerSrc = `package sample

// nest:controller
type UsersController struct{}
`

const plainSrc = `package sample

type helper struct{}
`

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover_LoadsMarkedFiles(t *testing.T) {
	discovery.ResetModules()
	dir := t.TempDir()
	writeFile(t, dir, "providers/db.go", providerSrc)
	writeFile(t, dir, "controllers/users.go", controllerSrc)
	writeFile(t, dir, "util/helper.go", plainSrc)

	var loaded []string
	discovery.RegisterModule("providers/db.go", func() error {
		loaded = append(loaded, "db")
		return nil
	})
	discovery.RegisterModule("controllers/users.go", func() error {
		loaded = append(loaded, "users")
		return nil
	})

	result, err := discovery.Discover([]string{"**/*.go"}, dir, discovery.Options{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"providers/db.go", "controllers/users.go"}, result.ImportedFiles)
	assert.ElementsMatch(t, []string{"db", "users"}, loaded)
	assert.Empty(t, result.Failures)
}

func TestDiscover_SkipsUnmarkedFiles(t *testing.T) {
	discovery.ResetModules()
	dir := t.TempDir()
	writeFile(t, dir, "helper.go", plainSrc)

	called := false
	discovery.RegisterModule("helper.go", func() error {
		called = true
		return nil
	})

	result, err := discovery.Discover([]string{"*.go"}, dir, discovery.Options{})
	require.NoError(t, err)
	assert.Empty(t, result.ImportedFiles)
	assert.False(t, called, "unmarked files must not be loaded even with a hook registered")
}

func TestDiscover_SkipsMarkedFileWithoutHook(t *testing.T) {
	discovery.ResetModules()
	dir := t.TempDir()
	writeFile(t, dir, "db.go", providerSrc)

	result, err := discovery.Discover([]string{"*.go"}, dir, discovery.Options{})
	require.NoError(t, err)
	assert.Empty(t, result.ImportedFiles, "marker without a hook is silently skipped")
	assert.Empty(t, result.Failures)
}

func TestDiscover_ExcludesTestFilesByDefault(t *testing.T) {
	discovery.ResetModules()
	dir := t.TempDir()
	writeFile(t, dir, "db_test.go", providerSrc)

	called := false
	discovery.RegisterModule("db_test.go", func() error {
		called = true
		return nil
	})

	result, err := discovery.Discover([]string{"*.go"}, dir, discovery.Options{})
	require.NoError(t, err)
	assert.Empty(t, result.ImportedFiles)
	assert.False(t, called)
}

func TestDiscover_ExcludesVendorAndTestdata(t *testing.T) {
	discovery.ResetModules()
	dir := t.TempDir()
	writeFile(t, dir, "vendor/dep/db.go", providerSrc)
	writeFile(t, dir, "testdata/db.go", providerSrc)
	writeFile(t, dir, "db.go", providerSrc)
	discovery.RegisterModule("db.go", func() error { return nil })

	result, err := discovery.Discover([]string{"**/*.go"}, dir, discovery.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"db.go"}, result.ImportedFiles)
}

func TestDiscover_NonStrictRecordsFailureAndContinues(t *testing.T) {
	discovery.ResetModules()
	dir := t.TempDir()
	writeFile(t, dir, "bad.go", providerSrc)
	writeFile(t, dir, "good.go", providerSrc)

	boom := errors.New("boom")
	discovery.RegisterModule("bad.go", func() error { return boom })
	discovery.RegisterModule("good.go", func() error { return nil })

	var reported []string
	result, err := discovery.Discover([]string{"*.go"}, dir, discovery.Options{
		OnImportError: func(file string, err error) {
			reported = append(reported, file)
		},
	})
	require.NoError(t, err, "non-strict discovery completes partially")

	assert.Equal(t, []string{"good.go"}, result.ImportedFiles)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "bad.go", result.Failures[0].File)
	require.ErrorIs(t, result.Failures[0].Err, boom)
	assert.Equal(t, []string{"bad.go"}, reported)
}

func TestDiscover_StrictAggregatesFailures(t *testing.T) {
	discovery.ResetModules()
	dir := t.TempDir()
	writeFile(t, dir, "bad1.go", providerSrc)
	writeFile(t, dir, "bad2.go", providerSrc)

	discovery.RegisterModule("bad1.go", func() error { return errors.New("first") })
	discovery.RegisterModule("bad2.go", func() error { return errors.New("second") })

	_, err := discovery.Discover([]string{"*.go"}, dir, discovery.Options{Strict: true})
	var aggregate *discovery.ImportError
	require.ErrorAs(t, err, &aggregate)
	assert.Len(t, aggregate.Failures, 2)
	assert.Contains(t, aggregate.Error(), "bad1.go")
	assert.Contains(t, aggregate.Error(), "bad2.go")
}

func TestDiscover_RegisterCallTextAlsoMatches(t *testing.T) {
	discovery.ResetModules()
	dir := t.TempDir()
	writeFile(t, dir, "module.go", `package sample

func init() {
	registry.RegisterProvider(dbDescriptor)
}
`)
	loaded := false
	discovery.RegisterModule("module.go", func() error {
		loaded = true
		return nil
	})

	result, err := discovery.Discover([]string{"*.go"}, dir, discovery.Options{})
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, []string{"module.go"}, result.ImportedFiles)
}

func TestDiscover_ExtraExcludePatterns(t *testing.T) {
	discovery.ResetModules()
	dir := t.TempDir()
	writeFile(t, dir, "gen/db.go", providerSrc)
	discovery.RegisterModule("gen/db.go", func() error { return nil })

	result, err := discovery.Discover([]string{"**/*.go"}, dir, discovery.Options{
		Exclude: []string{"gen/**"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.ImportedFiles)
}
