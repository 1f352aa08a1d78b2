package providers

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-nest/framework/container"
)

// TokenUsers resolves the user service.
const TokenUsers container.Token = "providers.users"

// EventUserCreated is emitted with a *User payload after Create persists.
const EventUserCreated = "users.created"

// User is the sample domain record.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// nest:provider
//
// Users is the domain service of the sample application. It depends on the
// Store contract (resolved to Db via the primary marker), field-injects the
// shared logger, and handles its own users.created event to demonstrate
// declarative handler binding.
type Users struct {
	store Store
	log   *zap.Logger

	nextID int
}

func (u *Users) OnInit() error {
	u.nextID = 1
	return nil
}

func (u *Users) OnBootstrap() error {
	// Seed data after every provider finished initializing.
	_, err := u.Create("Alice", "alice@example.com")
	return err
}

// Create persists a user and announces it on the event bus via the caller.
func (u *Users) Create(name, email string) (*User, error) {
	if name == "" {
		return nil, fmt.Errorf("users: name is required")
	}
	user := &User{ID: u.nextID, Name: name, Email: email}
	u.nextID++
	u.store.Put(userKey(user.ID), user)
	return user, nil
}

// Find returns the user with the given id, or nil.
func (u *Users) Find(id int) *User {
	value, ok := u.store.Get(userKey(id))
	if !ok {
		return nil
	}
	return value.(*User)
}

func (u *Users) onUserCreated(payload any) error {
	user, ok := payload.(*User)
	if !ok {
		return nil
	}
	u.log.Info("user created",
		zap.Int("id", user.ID), zap.String("name", user.Name))
	return nil
}

func userKey(id int) string { return fmt.Sprintf("users:%d", id) }

func usersDescriptor() *container.Descriptor {
	return &container.Descriptor{
		Token:        TokenUsers,
		Name:         "Users",
		Dependencies: []container.Token{TokenStore},
		Construct: func(deps []any) (any, error) {
			return &Users{store: deps[0].(Store)}, nil
		},
		Fields: []container.FieldDependency{{
			Field: "log",
			Token: TokenLogger,
			Assign: func(instance, dep any) {
				instance.(*Users).log = dep.(*zap.Logger)
			},
		}},
		EventHandlers: []container.EventHandler{{
			Event: EventUserCreated,
			Bind: func(instance any) func(any) error {
				return instance.(*Users).onUserCreated
			},
		}},
	}
}
