package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-nest/framework/routing"
)

type usersController struct{}

func (c *usersController) Routes() []routing.Route {
	return []routing.Route{
		{Method: http.MethodGet, Pattern: "/users", Handler: c.index},
		{Method: http.MethodGet, Pattern: "/users/{id}", Handler: c.show},
		{Method: http.MethodPost, Pattern: "/users", Handler: c.create},
	}
}

func (c *usersController) index(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("index"))
}

func (c *usersController) show(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("user " + routing.Param(r, "id")))
}

func (c *usersController) create(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

func TestRegisterController_BindsDeclaredRoutes(t *testing.T) {
	r := routing.New()

	count, err := r.RegisterController(&usersController{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "index", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/7", nil))
	assert.Equal(t, "user 7", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegisterController_NonControllerRegistersNothing(t *testing.T) {
	r := routing.New()

	count, err := r.RegisterController(struct{}{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

type brokenController struct{}

func (c *brokenController) Routes() []routing.Route {
	return []routing.Route{{Method: http.MethodGet, Pattern: "/broken"}}
}

func TestRegisterController_IncompleteRouteFails(t *testing.T) {
	r := routing.New()

	_, err := r.RegisterController(&brokenController{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete route")
}

func TestPrefix_ScopesRoutes(t *testing.T) {
	r := routing.New()
	r.Prefix("/api", func(api *routing.Router) {
		api.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("pong"))
		})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, "pong", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
