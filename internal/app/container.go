package app

import (
	"context"
	"fmt"
	"os"

	"github.com/doeshing/alfred-sf/internal/application/doctor"
	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/infrastructure/backend"
	"github.com/doeshing/alfred-sf/internal/infrastructure/config"
	contextcollector "github.com/doeshing/alfred-sf/internal/infrastructure/context"
	"github.com/doeshing/alfred-sf/internal/infrastructure/state"
	"github.com/doeshing/alfred-sf/internal/pkg/logger"
	"github.com/doeshing/alfred-sf/internal/services"
)

// Options select and override a workflow profile for one invocation.
type Options struct {
	ConfigPath   string
	Workflow     string
	Key          string
	EnvPrefix    string
	Exec         []string
	StateBackend string
	Verbose      bool
	Getenv       func(string) string
}

// Container wires application services with infrastructure adapters for a
// single workflow.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Profile      domain.WorkflowProfile
	Workflow     domain.WorkflowContext
	Store        *state.LazyStore
	Backend      *backend.ExecBackend
	Logger       *logger.LogrusLogger
	SearchFlow   *services.SearchFlow
	CLIFlow      *services.CLIFlow
	Doctor       *doctor.Service
	Getenv       func(string) string
}

// BuildContainer constructs the dependency graph. Nothing touches the state
// directory until a flow needs it.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	log := logger.New(opts.Verbose)

	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := selectProfile(cfg, opts)
	if err != nil {
		return nil, err
	}
	log = log.With(map[string]interface{}{"workflow": profile.Key})

	wc := contextcollector.ResolveWorkflowContext(getenv, profile.Key, profile.CacheFallbackLabel)
	store := openStore(profile.StateBackend, wc, log)

	mapper, err := backend.NewRulesMapper(profile.Errors.RulesFile)
	if err != nil {
		log.Warn("error rules unusable, using defaults", map[string]interface{}{"error": err.Error()})
		mapper = backend.DefaultRulesMapper()
	}
	be := backend.NewExecBackend(profile.Backend, profile.BackendTimeout(), mapper)

	settings := domain.DefaultSearchSettings()
	settings.MinQueryChars = profile.MinQueryChars

	search := &services.SearchFlow{
		Store:           store,
		Backend:         be,
		Logger:          log,
		Env:             getenv,
		EnvNames:        domain.EnvNamesFor(profile.EnvPrefix),
		Defaults:        settings,
		PendingTitle:    profile.PendingTitle,
		PendingSubtitle: profile.PendingSubtitle,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Profile:        profile,
		Workflow:       wc,
		Store:          store,
		LookPath:       lookPath,
		LoadRules:      countRules,
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Profile:      profile,
		Workflow:     wc,
		Store:        store,
		Backend:      be,
		Logger:       log,
		SearchFlow:   search,
		CLIFlow:      &services.CLIFlow{Backend: be, Logger: log},
		Doctor:       doctorService,
		Getenv:       getenv,
	}, nil
}

// Settings resolves the search knobs the same way a search run does.
func (c *Container) Settings() domain.SearchSettings {
	return c.SearchFlow.Settings()
}

// NewDebouncer returns a Debouncer fetching through the search backend and
// caching like the polling flow.
func (c *Container) NewDebouncer(emit func(workflow, query string, out []byte)) *services.Debouncer {
	settings := c.Settings()
	cache := &services.ResultCache{State: c.Store, Logger: c.Logger}
	dispatcher := &services.Dispatcher{Backend: c.Backend, Cache: cache, Logger: c.Logger}
	return &services.Debouncer{
		Settle: secondsToDuration(settings.SettleSeconds),
		Fetch: func(ctx context.Context, query string) []byte {
			if status, payload, ok := cache.Load(ctx, query, settings.CacheTTLSeconds); ok {
				if status == domain.CacheOK {
					return payload
				}
				return services.MapFailure(c.Backend, string(payload))
			}
			return dispatcher.FetchAndEmit(ctx, query, settings.CacheTTLSeconds)
		},
		Emit: emit,
	}
}

// Close releases the state store.
func (c *Container) Close() error {
	return c.Store.Close()
}

func selectProfile(cfg domain.Config, opts Options) (domain.WorkflowProfile, error) {
	var profile domain.WorkflowProfile
	switch {
	case opts.Workflow != "":
		p, err := cfg.Profile(opts.Workflow)
		if err != nil {
			if len(opts.Exec) == 0 {
				return domain.WorkflowProfile{}, fmt.Errorf("%w: %v", domain.ErrInvalidProfile, err)
			}
			// Ad hoc workflow defined entirely by flags.
			p = domain.WorkflowProfile{Key: opts.Workflow}
		}
		profile = p
	case len(cfg.Workflows) > 0:
		profile = cfg.Workflows[0]
	default:
		return domain.WorkflowProfile{}, fmt.Errorf("%w: no workflows configured", domain.ErrInvalidProfile)
	}

	if opts.Key != "" {
		profile.Key = opts.Key
	}
	if opts.EnvPrefix != "" {
		profile.EnvPrefix = opts.EnvPrefix
	}
	if len(opts.Exec) > 0 {
		profile.Backend.Command = opts.Exec[0]
		profile.Backend.Args = opts.Exec[1:]
	}
	if opts.StateBackend != "" {
		profile.StateBackend = opts.StateBackend
	}
	profile = profile.WithDefaults()
	if err := config.Validate(domain.Config{Workflows: []domain.WorkflowProfile{profile}}); err != nil {
		return domain.WorkflowProfile{}, err
	}
	return profile, nil
}
