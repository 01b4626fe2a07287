package judge

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultJudgeName is used when no judge is configured.
const DefaultJudgeName = "strict"

// Registry stores judges and resolves a default one by name.
type Registry struct {
	judges       map[string]Judge
	defaultJudge string
}

func NewRegistry(defaultJudge string) *Registry {
	normalized := normalizeJudgeName(defaultJudge)
	if normalized == "" {
		normalized = DefaultJudgeName
	}
	return &Registry{
		judges:       make(map[string]Judge),
		defaultJudge: normalized,
	}
}

// Options selects and configures the judges a registry starts with.
type Options struct {
	Default     string
	LLMEndpoint string
	LLMModel    string
	LLMTimeout  time.Duration
}

// NewRegistryFromOptions registers the built-in judges and resolves the
// default. An unknown default falls back to the strict judge.
func NewRegistryFromOptions(opts Options) *Registry {
	registry := NewRegistry(opts.Default)
	_ = registry.Register(NewStrictJudge())
	_ = registry.Register(NewLLMJudge(opts.LLMEndpoint, opts.LLMModel, opts.LLMTimeout))

	if _, exists := registry.judges[registry.defaultJudge]; !exists {
		registry.defaultJudge = DefaultJudgeName
	}
	return registry
}

// Register adds one judge.
func (r *Registry) Register(j Judge) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if j == nil {
		return fmt.Errorf("judge is nil")
	}
	name := normalizeJudgeName(j.Name())
	if name == "" {
		return fmt.Errorf("judge name is required")
	}
	r.judges[name] = j
	return nil
}

// Judge resolves a judge by name. Empty names use the configured default.
func (r *Registry) Judge(name string) (Judge, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if len(r.judges) == 0 {
		return nil, fmt.Errorf("no judges are registered")
	}

	resolved := normalizeJudgeName(name)
	if resolved == "" {
		resolved = r.defaultJudge
	}
	if j, ok := r.judges[resolved]; ok {
		return j, nil
	}
	return nil, fmt.Errorf("judge %q is not registered (available: %s)", resolved, strings.Join(r.JudgeNames(), ", "))
}

func (r *Registry) DefaultJudge() string {
	if r == nil {
		return ""
	}
	return r.defaultJudge
}

func (r *Registry) JudgeNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.judges))
	for name := range r.judges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeJudgeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
