// Module load hooks for the providers package. Each hook pairs a source file
// with the registration the annotation scanner executes when discovery
// matches that file. Keep entries in sync with the nest: markers above the
// provider types.
package providers

import (
	"github.com/km-arc/go-nest/framework/discovery"
	"github.com/km-arc/go-nest/framework/registry"
)

func init() {
	discovery.RegisterModule("providers/logger.go", func() error {
		registry.Default().RegisterCustomProvider(loggerDescriptor())
		return nil
	})
	discovery.RegisterModule("providers/db.go", func() error {
		registry.Default().RegisterProvider(dbDescriptor())
		return nil
	})
	discovery.RegisterModule("providers/cache.go", func() error {
		registry.Default().RegisterProvider(cacheDescriptor())
		return nil
	})
	discovery.RegisterModule("providers/users.go", func() error {
		registry.Default().RegisterProvider(usersDescriptor())
		return nil
	})
}
