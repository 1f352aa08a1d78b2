// Package app hosts the lifecycle orchestrator: it sequences component
// discovery, config materialization, priority-ordered provider construction,
// route registration, bootstrap hooks, the transport listener, and
// reverse-order teardown.
package app

import (
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-nest/framework/config"
	"github.com/km-arc/go-nest/framework/container"
	"github.com/km-arc/go-nest/framework/discovery"
	"github.com/km-arc/go-nest/framework/events"
	"github.com/km-arc/go-nest/framework/logging"
	"github.com/km-arc/go-nest/framework/registry"
	"github.com/km-arc/go-nest/framework/routing"
)

// ── Config ───────────────────────────────────────────────────────────────────

// Config controls application creation. Every field is optional; the zero
// value bootstraps an application from the default registry with the built-in
// app config source and no discovery.
type Config struct {
	// Manifest is an optional path to a YAML manifest; its values fill any
	// Config field left unset.
	Manifest string

	// Discovery settings (see framework/discovery).
	Patterns []string
	BaseDir  string
	Exclude  []string
	Strict   bool

	// Addr overrides the listen address from the app config.
	Addr string

	// EnvFiles are passed to the config sources' .env loading.
	EnvFiles []string

	// Sources are the config collaborators materialized eagerly during Init.
	// Defaults to the built-in AppSource.
	Sources []config.Source

	// Providers are explicitly supplied provider descriptors, initialized
	// after all discovered ones.
	Providers []*container.Descriptor

	// Registry defaults to registry.Default(), where module load hooks
	// register discovered classes.
	Registry *registry.Registry

	// Logger defaults to a zap logger built from APP_ENV / APP_DEBUG.
	Logger *zap.Logger
}

// providerRecord is one entry of the append-only initialization log. The
// record list is the sole source of truth for shutdown ordering: Close walks
// it in exact reverse.
type providerRecord struct {
	name     string
	priority int
	instance any
}

// Application owns one container, one event bus and one router, and drives
// them through the lifecycle phases.
type Application struct {
	mu sync.Mutex

	cfg       Config
	log       *zap.Logger
	container *container.Container
	registry  *registry.Registry
	bus       *events.Bus
	router    *routing.Router

	phase     Phase
	records   []providerRecord
	server    *http.Server
	boundAddr string
	startedAt time.Time
}

// ── Construction ─────────────────────────────────────────────────────────────

// Create builds an application and bootstraps it: discovery, config
// materialization, provider initialization and bootstrap hooks all complete
// before Create returns.
func Create(cfg Config) (*Application, error) {
	a, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := a.Bootstrap(); err != nil {
		return nil, err
	}
	return a, nil
}

// New builds an application without bootstrapping it — callers that need to
// drive discovery themselves follow with Init.
func New(cfg Config) (*Application, error) {
	if cfg.Manifest != "" {
		m, err := LoadManifest(cfg.Manifest)
		if err != nil {
			return nil, err
		}
		m.apply(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = registry.Default()
	}
	if cfg.Sources == nil {
		cfg.Sources = []config.Source{config.AppSource{EnvFiles: cfg.EnvFiles}}
	}

	config.LoadEnv(cfg.EnvFiles...)
	log := cfg.Logger
	if log == nil {
		log = logging.New(config.Get("APP_ENV", "local"), config.GetBool("APP_DEBUG", true))
	}

	a := &Application{
		cfg:       cfg,
		log:       log,
		container: container.New(),
		registry:  cfg.Registry,
		bus:       events.NewBus(),
		router:    routing.New(),
		phase:     PhaseCreated,
		startedAt: time.Now(),
	}
	a.container.RegisterValue(TokenEvents, a.bus)
	a.container.RegisterValue(TokenRouter, a.router)
	return a, nil
}

// Container returns the application's container handle.
func (a *Application) Container() *container.Container { return a.container }

// Events returns the application's event bus handle.
func (a *Application) Events() *events.Bus { return a.bus }

// Router returns the routing collaborator.
func (a *Application) Router() *routing.Router { return a.router }

// Phase returns the current lifecycle phase.
func (a *Application) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// ── Bootstrap ────────────────────────────────────────────────────────────────

// Bootstrap runs discovery and then Init with the discovered files.
func (a *Application) Bootstrap() error {
	a.mu.Lock()
	if a.phase != PhaseCreated {
		phase := a.phase
		a.mu.Unlock()
		return fmt.Errorf("app: cannot bootstrap from phase %s", phase)
	}
	a.phase = PhaseDiscovering
	a.mu.Unlock()

	var files []string
	if len(a.cfg.Patterns) > 0 {
		baseDir := a.cfg.BaseDir
		if baseDir == "" {
			baseDir = "."
		}
		result, err := discovery.Discover(a.cfg.Patterns, baseDir, discovery.Options{
			Strict:  a.cfg.Strict,
			Exclude: a.cfg.Exclude,
			OnImportError: func(file string, err error) {
				a.log.Warn("module import failed, skipping file",
					zap.String("file", file), zap.Error(err))
			},
		})
		if err != nil {
			return err
		}
		files = result.ImportedFiles
	}
	return a.Init(files)
}

// Init runs the bootstrap sequence over the already-discovered file list:
// config materialization, value providers, priority-ordered provider
// initialization, route registration and bootstrap hooks. Any hook, factory
// or container error aborts the remaining steps immediately.
func (a *Application) Init(discoveredFiles []string) error {
	a.mu.Lock()
	if a.phase != PhaseCreated && a.phase != PhaseDiscovering {
		phase := a.phase
		a.mu.Unlock()
		return fmt.Errorf("app: cannot init from phase %s", phase)
	}
	a.phase = PhaseProvidersInitializing
	a.mu.Unlock()

	if err := a.bus.Emit(EventDiscoveryCompleted, DiscoveryPayload{Files: discoveredFiles}); err != nil {
		return err
	}

	if err := a.materializeConfigs(); err != nil {
		return err
	}
	if err := a.registerDescriptors(); err != nil {
		return err
	}
	if err := a.materializeValueProviders(); err != nil {
		return err
	}

	// Discovered providers first, highest priority first; ties keep
	// discovery order. Explicitly supplied providers follow.
	discovered := stableByPriority(a.registry.Providers())
	explicit := stableByPriority(a.cfg.Providers)
	for _, desc := range append(discovered, explicit...) {
		if err := a.initProvider(desc); err != nil {
			return err
		}
	}

	if err := a.registerControllers(); err != nil {
		return err
	}

	for _, rec := range a.records {
		if hook, ok := rec.instance.(Bootstrapper); ok {
			if err := hook.OnBootstrap(); err != nil {
				return &ProviderInitializationError{Provider: rec.name, Phase: "bootstrap", Err: err}
			}
		}
	}

	a.mu.Lock()
	a.phase = PhaseBootstrapped
	a.mu.Unlock()
	return a.bus.Emit(EventBootstrapCompleted, nil)
}

// materializeConfigs loads every config source eagerly and registers the
// validated object under its token — provider constructors depend on these.
func (a *Application) materializeConfigs() error {
	for _, source := range a.cfg.Sources {
		obj, err := source.Load()
		if err != nil {
			return &ProviderInitializationError{
				Provider: string(source.Token()), Phase: "config", Err: err,
			}
		}
		a.container.RegisterValue(source.Token(), obj)
	}
	return nil
}

// registerDescriptors binds every discovered and explicit descriptor into the
// container before any resolution starts.
func (a *Application) registerDescriptors() error {
	all := a.registry.Providers()
	all = append(all, a.registry.CustomProviders()...)
	all = append(all, a.registry.Controllers()...)
	all = append(all, a.cfg.Providers...)
	for _, desc := range all {
		if err := a.container.Register(desc); err != nil {
			return err
		}
	}
	return nil
}

// materializeValueProviders resolves each declarative value-provider class,
// invokes its factory method, and registers the produced value under the
// declared token.
func (a *Application) materializeValueProviders() error {
	for _, desc := range a.registry.CustomProviders() {
		name := desc.ComponentName()
		if desc.Provides == "" || desc.Produce == nil {
			return &ProviderInitializationError{
				Provider: name, Phase: "factory",
				Err: fmt.Errorf("value provider declares no Provides token or Produce factory"),
			}
		}
		inst, err := a.container.Resolve(desc.Token)
		if err != nil {
			return &ProviderInitializationError{Provider: name, Phase: "factory", Err: err}
		}
		value, err := desc.Produce(inst)
		if err != nil {
			return &ProviderInitializationError{Provider: name, Phase: "factory", Err: err}
		}
		a.container.RegisterValue(desc.Provides, value)
	}
	return nil
}

// initProvider resolves one provider (triggering its full dependency
// subgraph), runs its init hook, appends the instance record, emits the
// per-provider event, and registers its event handlers tagged by owner.
func (a *Application) initProvider(desc *container.Descriptor) error {
	name := desc.ComponentName()

	inst, err := a.container.Resolve(desc.Token)
	if err != nil {
		return &ProviderInitializationError{Provider: name, Phase: "init", Err: err}
	}
	if hook, ok := inst.(Initializer); ok {
		if err := hook.OnInit(); err != nil {
			return &ProviderInitializationError{Provider: name, Phase: "init", Err: err}
		}
	}

	a.records = append(a.records, providerRecord{name: name, priority: desc.Priority, instance: inst})

	if err := a.bus.Emit(EventProviderInitialized, ProviderPayload{Name: name, Priority: desc.Priority}); err != nil {
		return err
	}
	for _, handler := range desc.EventHandlers {
		a.bus.On(handler.Event, events.Listener(handler.Bind(inst)), name)
	}
	return nil
}

// registerControllers delegates controller registration to the routing
// collaborator and emits the routes-registered event with the total count.
func (a *Application) registerControllers() error {
	a.mu.Lock()
	a.phase = PhaseRoutesRegistering
	a.mu.Unlock()

	total := 0
	for _, desc := range a.registry.Controllers() {
		inst, err := a.container.Resolve(desc.Token)
		if err != nil {
			return &ProviderInitializationError{Provider: desc.ComponentName(), Phase: "routes", Err: err}
		}
		count, err := a.router.RegisterController(inst)
		if err != nil {
			return &ProviderInitializationError{Provider: desc.ComponentName(), Phase: "routes", Err: err}
		}
		total += count
	}
	return a.bus.Emit(EventRoutesRegistered, RoutesPayload{Count: total})
}

func stableByPriority(descs []*container.Descriptor) []*container.Descriptor {
	out := make([]*container.Descriptor, len(descs))
	copy(out, descs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// ── Listen ───────────────────────────────────────────────────────────────────

// Listen binds the transport, runs the listening hooks with the bound
// address, and returns it. Calling Listen while already listening returns the
// existing bound address without rebinding.
func (a *Application) Listen() (string, error) {
	a.mu.Lock()
	if a.phase == PhaseListening {
		addr := a.boundAddr
		a.mu.Unlock()
		return addr, nil
	}
	if a.phase != PhaseBootstrapped {
		phase := a.phase
		a.mu.Unlock()
		return "", fmt.Errorf("app: cannot listen from phase %s", phase)
	}

	addr := a.cfg.Addr
	if addr == "" {
		if cfg, err := container.Resolve[*config.App](a.container, config.TokenApp); err == nil {
			addr = cfg.Addr
		} else {
			addr = "127.0.0.1:3000"
		}
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		a.mu.Unlock()
		return "", fmt.Errorf("app: binding %s: %w", addr, err)
	}
	a.server = &http.Server{Handler: a.router}
	a.boundAddr = ln.Addr().String()
	a.phase = PhaseListening
	server := a.server
	bound := a.boundAddr
	a.mu.Unlock()

	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.log.Error("http server stopped", zap.Error(err))
		}
	}()

	for _, rec := range a.records {
		if hook, ok := rec.instance.(ListenerHook); ok {
			if err := hook.OnListening(bound); err != nil {
				return "", &ProviderInitializationError{Provider: rec.name, Phase: "listening", Err: err}
			}
		}
	}
	if err := a.bus.Emit(EventListening, ListeningPayload{Addr: bound}); err != nil {
		return "", err
	}

	a.log.Info("application listening", zap.String("addr", bound))
	return bound, nil
}

// ── Close ────────────────────────────────────────────────────────────────────

// Close tears the application down: shutdown and destroy hooks run per
// provider in exact reverse initialization order, each step independently
// caught and logged so one broken provider cannot block the rest; then the
// transport stops and all remaining event bus state is cleared. A second
// Close is a no-op.
func (a *Application) Close(signal string) error {
	a.mu.Lock()
	if a.phase == PhaseShuttingDown || a.phase == PhaseClosed {
		a.mu.Unlock()
		return nil
	}
	a.phase = PhaseShuttingDown
	server := a.server
	a.server = nil
	a.mu.Unlock()

	if err := a.bus.Emit(EventShutdownBegin, ShutdownPayload{Signal: signal}); err != nil {
		a.log.Error("shutdown event listener failed", zap.Error(err))
	}

	for i := len(a.records) - 1; i >= 0; i-- {
		rec := a.records[i]
		if hook, ok := rec.instance.(ShutdownHook); ok {
			if err := hook.OnShutdown(signal); err != nil {
				a.log.Error("shutdown hook failed",
					zap.String("provider", rec.name), zap.Error(err))
			}
		}
		if hook, ok := rec.instance.(Destroyer); ok {
			if err := hook.OnDestroy(); err != nil {
				a.log.Error("destroy hook failed",
					zap.String("provider", rec.name), zap.Error(err))
			}
		}
		a.bus.RemoveByOwner(rec.name)
	}

	if server != nil {
		if err := server.Close(); err != nil {
			a.log.Error("closing http server", zap.Error(err))
		}
	}

	uptime := time.Since(a.startedAt)
	if err := a.bus.Emit(EventDestroyed, DestroyedPayload{Signal: signal, Uptime: uptime}); err != nil {
		a.log.Error("destroyed event listener failed", zap.Error(err))
	}
	a.bus.Clear()

	a.mu.Lock()
	a.phase = PhaseClosed
	a.mu.Unlock()

	a.log.Info("application closed",
		zap.String("signal", signal), zap.Duration("uptime", uptime))
	return nil
}
