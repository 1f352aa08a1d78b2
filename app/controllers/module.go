// Module load hooks for the controllers package, mirroring
// app/providers/module.go.
package controllers

import (
	"github.com/km-arc/go-nest/framework/discovery"
	"github.com/km-arc/go-nest/framework/registry"
)

func init() {
	discovery.RegisterModule("controllers/users.go", func() error {
		registry.Default().RegisterController(usersControllerDescriptor())
		return nil
	})
}
