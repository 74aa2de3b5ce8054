package events

import (
	"runtime"

	"github.com/justingardner/pgl/pkg/permissions"
)

// Environment summarises which tap backend the current build would use and
// whether the permission gate is expected to pass.
type Environment struct {
	Provider   string
	Available  bool
	ListenOnly bool
	Permission string
	Message    string
	Guidance   string
}

const (
	// ProviderQuartz is the darwin CGEventTap backend.
	ProviderQuartz = "quartz_event_tap"
	// ProviderGohook is the portable, listen-only fallback backend.
	ProviderGohook = "gohook"
	// ProviderSynthetic is the in-memory backend used by tests and the
	// doctor self-test.
	ProviderSynthetic = "synthetic"
)

// DetectEnvironment reports the availability of the platform tap backend.
func DetectEnvironment() Environment {
	accessibility := permissions.ProbeAccessibility(nil)
	env := Environment{
		Permission: accessibility.StatusString(),
		Message:    accessibility.Message,
		Guidance:   accessibility.Guidance,
		Available:  true,
	}

	if runtime.GOOS == "darwin" {
		env.Provider = ProviderQuartz
		env.Available = accessibility.Status != permissions.StatusDenied
		if !env.Available && env.Message == "" {
			env.Message = "accessibility permission missing"
		}
		return env
	}

	env.Provider = ProviderGohook
	env.ListenOnly = true
	env.Permission = "not_applicable"
	if env.Message == "" {
		env.Message = "portable gohook backend; suppression is advisory"
	}
	return env
}
