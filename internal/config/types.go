package config

import "github.com/nrslib/takt/internal/piece"

// PermissionPreset is the coarse permission knob exposed by `takt config
// <mode>`.
type PermissionPreset string

const (
	PermissionDefault       PermissionPreset = "default"
	PermissionSacrificeMyPC PermissionPreset = "sacrifice-my-pc"
)

// Config is one layer (user or project) of on-disk YAML configuration.
// Zero values mean "not set at this layer" for every field that Merge needs
// to distinguish from an explicit value; pointer fields are used for those.
type Config struct {
	DefaultPiece     string            `yaml:"defaultPiece,omitempty"`
	PermissionMode   PermissionPreset  `yaml:"permissionMode,omitempty"`
	Provider         string            `yaml:"provider,omitempty"`
	Model            string            `yaml:"model,omitempty"`
	Concurrency      int               `yaml:"concurrency,omitempty"`
	AutoFetch        *bool             `yaml:"autoFetch,omitempty"`
	DefaultWorktree  *bool             `yaml:"defaultWorktree,omitempty"`
	AnalyticsRetentionDays int         `yaml:"analyticsRetentionDays,omitempty"`

	// QualityGates is tri-state per movement: a key present with a (possibly
	// empty) list is an explicit override at this layer; an absent key means
	// "no opinion at this layer". See piece.GateOverrides.
	QualityGates piece.GateOverrides `yaml:"qualityGates,omitempty"`

	// Secrets holds provider tokens configured directly in YAML, used only
	// as a fallback when the corresponding env var is unset (see
	// ResolveSecret). Storing live tokens in a project-level config.yaml is
	// discouraged but supported, matching the env-var-first contract in
	//
	Secrets map[string]string `yaml:"secrets,omitempty"`
}

// Merged is the result of layering project over user config: every scalar
// takes the project value when set, else the user value; Concurrency
// defaults to 1 when neither layer sets it; AutoFetch defaults to true.
type Merged struct {
	DefaultPiece           string
	PermissionMode         PermissionPreset
	Provider               string
	Model                  string
	Concurrency            int
	AutoFetch              bool
	DefaultWorktree        bool
	AnalyticsRetentionDays int
	Secrets                map[string]string
	ProjectQualityGates    piece.GateOverrides
	UserQualityGates       piece.GateOverrides
}

// Merge layers project over user: a scalar field set at the project layer
// wins; otherwise the user layer's value is used. This is project-config
// (priority 4) over global-config (priority 5) from the provider
// resolution chain in, generalized to every scalar setting.
func Merge(user, project Config) Merged {
	m := Merged{
		DefaultPiece:    firstNonEmpty(project.DefaultPiece, user.DefaultPiece),
		PermissionMode:  PermissionDefault,
		Provider:        firstNonEmpty(project.Provider, user.Provider),
		Model:           firstNonEmpty(project.Model, user.Model),
		Concurrency:     1,
		AutoFetch:       true,
		DefaultWorktree: true,
		AnalyticsRetentionDays: 90,
		Secrets:         map[string]string{},
		ProjectQualityGates: project.QualityGates,
		UserQualityGates:    user.QualityGates,
	}

	if project.PermissionMode != "" {
		m.PermissionMode = project.PermissionMode
	} else if user.PermissionMode != "" {
		m.PermissionMode = user.PermissionMode
	}
	if project.Concurrency > 0 {
		m.Concurrency = project.Concurrency
	} else if user.Concurrency > 0 {
		m.Concurrency = user.Concurrency
	}
	if project.AutoFetch != nil {
		m.AutoFetch = *project.AutoFetch
	} else if user.AutoFetch != nil {
		m.AutoFetch = *user.AutoFetch
	}
	if project.DefaultWorktree != nil {
		m.DefaultWorktree = *project.DefaultWorktree
	} else if user.DefaultWorktree != nil {
		m.DefaultWorktree = *user.DefaultWorktree
	}
	if project.AnalyticsRetentionDays > 0 {
		m.AnalyticsRetentionDays = project.AnalyticsRetentionDays
	} else if user.AnalyticsRetentionDays > 0 {
		m.AnalyticsRetentionDays = user.AnalyticsRetentionDays
	}

	for k, v := range user.Secrets {
		m.Secrets[k] = v
	}
	for k, v := range project.Secrets {
		m.Secrets[k] = v
	}

	return m
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
