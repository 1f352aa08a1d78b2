package providers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-nest/app/providers"
	"github.com/km-arc/go-nest/framework/app"
	"github.com/km-arc/go-nest/framework/container"

	_ "github.com/km-arc/go-nest/app/controllers"
)

// boot discovers the whole sample application from its source tree.
func boot(t *testing.T) *app.Application {
	t.Helper()
	a, err := app.Create(app.Config{
		BaseDir:  "..",
		Patterns: []string{"**/*.go"},
		Strict:   true,
		Addr:     "127.0.0.1:0",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close("test") })
	return a
}

func TestBootstrap_DiscoversAndSeedsUsers(t *testing.T) {
	a := boot(t)

	users := container.MustResolve[*providers.Users](a.Container(), providers.TokenUsers)
	seeded := users.Find(1)
	require.NotNil(t, seeded)
	assert.Equal(t, "Alice", seeded.Name)
}

func TestStoreContract_PrimaryAndNamedSelection(t *testing.T) {
	a := boot(t)

	primary, err := a.Container().Resolve(providers.TokenStore)
	require.NoError(t, err)
	assert.IsType(t, &providers.Db{}, primary)

	named, err := a.Container().ResolveNamed(providers.TokenStore, "Cache")
	require.NoError(t, err)
	assert.IsType(t, &providers.Cache{}, named)
}

func TestCache_WritesThroughToDb(t *testing.T) {
	a := boot(t)

	cache := container.MustResolve[*providers.Cache](a.Container(), providers.TokenCache)
	db := container.MustResolve[*providers.Db](a.Container(), providers.TokenDb)

	cache.Put("greeting", "hello")
	value, ok := db.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", value)
}

func TestHTTP_CreateAndFetchUser(t *testing.T) {
	a := boot(t)

	addr, err := a.Listen()
	require.NoError(t, err)

	resp, err := http.Post(
		fmt.Sprintf("http://%s/users", addr),
		"application/json",
		strings.NewReader(`{"name":"Bob","email":"bob@example.com"}`),
	)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(fmt.Sprintf("http://%s/users/2", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(fmt.Sprintf("http://%s/users/99", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
