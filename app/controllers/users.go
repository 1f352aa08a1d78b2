package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/km-arc/go-nest/app/providers"
	"github.com/km-arc/go-nest/framework/app"
	"github.com/km-arc/go-nest/framework/container"
	"github.com/km-arc/go-nest/framework/events"
	"github.com/km-arc/go-nest/framework/routing"
)

// nest:controller
//
// UsersController exposes the user service over HTTP. Its Routes method is
// the method-binding table the router consumes during registration.
type UsersController struct {
	users *providers.Users
	bus   *events.Bus
}

func (c *UsersController) Routes() []routing.Route {
	return []routing.Route{
		{Method: http.MethodGet, Pattern: "/users/{id}", Handler: c.show},
		{Method: http.MethodPost, Pattern: "/users", Handler: c.create},
	}
}

func (c *UsersController) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(routing.Param(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be numeric")
		return
	}
	user := c.users.Find(id)
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (c *UsersController) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := c.users.Create(body.Name, body.Email)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := c.bus.Emit(providers.EventUserCreated, user); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func usersControllerDescriptor() *container.Descriptor {
	return &container.Descriptor{
		Token:        "controllers.users",
		Name:         "UsersController",
		Dependencies: []container.Token{providers.TokenUsers, app.TokenEvents},
		Construct: func(deps []any) (any, error) {
			return &UsersController{
				users: deps[0].(*providers.Users),
				bus:   deps[1].(*events.Bus),
			}, nil
		},
	}
}
