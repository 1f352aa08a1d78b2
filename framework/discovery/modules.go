package discovery

import "sync"

// Go has no runtime file loading, so "importing" a discovered file means
// invoking a load hook registered for it. Generated module files (or an
// init() in the component's package) register one hook per source file; the
// hook performs the actual registry registration when the scanner loads the
// file. A hook either runs to completion or fails — discovery never leaves a
// file half registered.

// LoadFunc performs a file's registration side effects.
type LoadFunc func() error

var (
	moduleMu sync.Mutex
	modules  = make(map[string]LoadFunc)
)

// RegisterModule registers the load hook for a source file, identified by its
// slash-separated path relative to the discovery base directory. The last
// registration for a file wins.
func RegisterModule(file string, load LoadFunc) {
	moduleMu.Lock()
	defer moduleMu.Unlock()
	modules[file] = load
}

// ResetModules clears the module table. Test isolation only.
func ResetModules() {
	moduleMu.Lock()
	defer moduleMu.Unlock()
	modules = make(map[string]LoadFunc)
}

func moduleFor(file string) (LoadFunc, bool) {
	moduleMu.Lock()
	defer moduleMu.Unlock()
	fn, ok := modules[file]
	return fn, ok
}
