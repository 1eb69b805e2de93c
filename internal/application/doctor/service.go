package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/pkg/filesystem"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// Service runs environment diagnostics for one workflow.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Profile        domain.WorkflowProfile
	Workflow       domain.WorkflowContext
	Store          ports.CacheInspector
	LookPath       func(string) (string, error)
	LoadRules      func(path string) (int, error)
}

// Run executes checks and returns a report. A config that fails to load
// stops the run; every other failure is recorded and the run continues.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	report := domain.HealthReport{Workflow: s.Profile.Key}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		report.Checks = append(report.Checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return report, err
	}
	report.Checks = append(report.Checks, ok("Config file",
		fmt.Sprintf("format %s, %d workflow(s)", cfg.ConfigFormatVersion, len(cfg.Workflows))))

	report.Checks = append(report.Checks, profileCheck(s.Profile))
	report.Checks = append(report.Checks, stateDirCheck(s.Workflow))
	report.Checks = append(report.Checks, s.backendCheck())
	report.Checks = append(report.Checks, s.rulesCheck())
	if s.Store != nil {
		report.Checks = append(report.Checks, storeCheck(ctx, s.Store))
	}
	return report, nil
}

func profileCheck(p domain.WorkflowProfile) domain.HealthCheck {
	prefix := p.EnvPrefix
	if prefix == "" {
		return warn("Profile", fmt.Sprintf("%s has no env_prefix; knobs read unprefixed variables", p.Key))
	}
	return ok("Profile", fmt.Sprintf("%s (env %s_*, state %s, min %d chars)", p.Key, prefix, p.StateBackend, p.MinQueryChars))
}

// stateDirCheck proves the state directory accepts an atomic write.
func stateDirCheck(wc domain.WorkflowContext) domain.HealthCheck {
	dir := wc.StateDir()
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail("State directory", fmt.Sprintf("%s: %v", dir, err))
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := filesystem.WriteFileAtomic(probe, []byte("ok"), domain.FilePermissions); err != nil {
		return fail("State directory", fmt.Sprintf("%s not writable: %v", dir, err))
	}
	_ = os.Remove(probe)
	return ok("State directory", dir)
}

func (s *Service) backendCheck() domain.HealthCheck {
	cmd := s.Profile.Backend.Command
	if cmd == "" {
		return fail("Backend", "no backend command configured")
	}
	if s.LookPath == nil {
		return warn("Backend", "command lookup unavailable")
	}
	path, err := s.LookPath(cmd)
	if err != nil {
		return fail("Backend", fmt.Sprintf("%s not found: %v", cmd, err))
	}
	return ok("Backend", fmt.Sprintf("%s (timeout %s)", path, s.Profile.BackendTimeout()))
}

func (s *Service) rulesCheck() domain.HealthCheck {
	if s.LoadRules == nil {
		return warn("Error rules", "rules loader unavailable")
	}
	source := s.Profile.Errors.RulesFile
	if source == "" {
		source = "embedded defaults"
	}
	n, err := s.LoadRules(s.Profile.Errors.RulesFile)
	if err != nil {
		return warn("Error rules", fmt.Sprintf("%s unusable, defaults apply: %v", source, err))
	}
	return ok("Error rules", fmt.Sprintf("%d rule(s) from %s", n, source))
}

func storeCheck(ctx context.Context, store ports.CacheInspector) domain.HealthCheck {
	entries, err := store.Entries(ctx)
	if err != nil {
		return warn("State store", err.Error())
	}
	return ok("State store", fmt.Sprintf("%d cached result(s) in %s", len(entries), store.Dir()))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
