package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/infrastructure/state"
)

type stubConfig struct {
	cfg domain.Config
	err error
}

func (s stubConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

func checkByName(t *testing.T, report domain.HealthReport, name string) domain.HealthCheck {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q missing from %+v", name, report.Checks)
	return domain.HealthCheck{}
}

func TestDoctorHealthyWorkflow(t *testing.T) {
	profile := domain.WorkflowProfile{
		Key:       "brave",
		EnvPrefix: "BRAVE",
		Backend:   domain.BackendSpec{Command: "brave-search"},
	}.WithDefaults()
	wc := domain.WorkflowContext{Key: "brave", CacheRoot: t.TempDir()}

	svc := &Service{
		ConfigProvider: stubConfig{cfg: domain.Config{ConfigFormatVersion: "1", Workflows: []domain.WorkflowProfile{profile}}},
		Profile:        profile,
		Workflow:       wc,
		Store:          state.NewFileStore(wc),
		LookPath:       func(name string) (string, error) { return "/usr/local/bin/" + name, nil },
		LoadRules:      func(string) (int, error) { return 5, nil },
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "brave", report.Workflow)
	assert.False(t, report.Failed())
	for _, c := range report.Checks {
		assert.Equal(t, domain.HealthOK, c.Status, "%s: %s", c.Name, c.Details)
	}
	assert.Contains(t, checkByName(t, report, "Backend").Details, "/usr/local/bin/brave-search")
	assert.Contains(t, checkByName(t, report, "Error rules").Details, "embedded defaults")
}

func TestDoctorReportsProblems(t *testing.T) {
	profile := domain.WorkflowProfile{Key: "kagi", Backend: domain.BackendSpec{Command: "kagi"}}.WithDefaults()
	svc := &Service{
		ConfigProvider: stubConfig{cfg: domain.Config{ConfigFormatVersion: "1"}},
		Profile:        profile,
		Workflow:       domain.WorkflowContext{Key: "kagi", CacheRoot: t.TempDir()},
		LookPath:       func(string) (string, error) { return "", errors.New("not in PATH") },
		LoadRules:      func(string) (int, error) { return 0, errors.New("bad yaml") },
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Failed())
	assert.Equal(t, domain.HealthError, checkByName(t, report, "Backend").Status)
	assert.Equal(t, domain.HealthWarn, checkByName(t, report, "Error rules").Status)
	assert.Equal(t, domain.HealthWarn, checkByName(t, report, "Profile").Status)
}

func TestDoctorStopsOnConfigFailure(t *testing.T) {
	svc := &Service{ConfigProvider: stubConfig{err: errors.New("denied")}}

	report, err := svc.Run(context.Background())
	require.Error(t, err)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, domain.HealthError, report.Checks[0].Status)
}
