// Package config implements the engine's embedding options (spec.md §6.2):
// functional options in the teacher's style (pkg/dwscript's
// WithTypeCheck/WithCompileMode, seen in
// pkg/dwscript/integration_test.go and compile_mode_test.go), plus an
// optional YAML policy file for hosts that want to declare sandbox/module
// settings outside Go source.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/match"
	"github.com/tidwall/sjson"
)

// Options holds the recognized embedding options (spec.md §6.2).
type Options struct {
	// Sandbox, when true, restricts the built-in modules pkg/njs installs
	// (internal/modules) to names that survive
	// ModuleAllow's glob filter ("skip host modules marked sandbox").
	Sandbox bool
	// Module is stored and carried into the policy document, but no stage
	// reads it: import/export are not parsed whether it is set or not.
	Module bool
	// Unsafe is stored and carried into the policy document, but no stage
	// reads it; no global Function() constructor is installed either way.
	Unsafe bool
	// Argv is the passthrough backing process.argv.
	Argv []string

	// ModuleAllow is the sandbox allow-list of built-in module identifier
	// globs (e.g. "crypto*"), checked with github.com/tidwall/match the
	// same way a sandboxed host would whitelist capabilities, matched
	// against the built-in module table in internal/modules.
	ModuleAllow []string
}

// Option mutates an Options in place, following the teacher's
// `func(*Engine)`-returning-itself pattern (pkg/dwscript's WithTypeCheck),
// adapted to return a plain func(*Options) since config has no Engine type
// of its own — pkg/njs composes these into its own With* wrappers.
type Option func(*Options)

// WithSandbox sets the sandbox flag (spec.md §6.2).
func WithSandbox(enabled bool) Option { return func(o *Options) { o.Sandbox = enabled } }

// WithModule sets the module flag (spec.md §6.2).
func WithModule(enabled bool) Option { return func(o *Options) { o.Module = enabled } }

// WithUnsafe sets the unsafe flag (spec.md §6.2).
func WithUnsafe(enabled bool) Option { return func(o *Options) { o.Unsafe = enabled } }

// WithArgv sets process.argv's backing slice (spec.md §6.2).
func WithArgv(argv []string) Option { return func(o *Options) { o.Argv = append([]string(nil), argv...) } }

// WithModuleAllow sets the sandbox module allow-list (globs matched via
// github.com/tidwall/match against internal/modules' Module.Name).
func WithModuleAllow(globs ...string) Option {
	return func(o *Options) { o.ModuleAllow = append([]string(nil), globs...) }
}

// New builds an Options from zero or more functional options, defaulting
// to the permissive (non-sandboxed, non-module, non-unsafe) configuration.
func New(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ModuleAllowed reports whether name passes the sandbox policy: always
// true when Sandbox is off, otherwise true only if name matches at least
// one ModuleAllow glob (spec.md §6.2 "sandbox: skip host modules marked
// sandbox").
func (o *Options) ModuleAllowed(name string) bool {
	if !o.Sandbox {
		return true
	}
	for _, pattern := range o.ModuleAllow {
		if match.Match(name, pattern) {
			return true
		}
	}
	return false
}

// policyDoc is the YAML shape a policy file takes, mirroring Options'
// field names in lowerCamelCase the way a hand-written ops file would.
type policyDoc struct {
	Sandbox     bool     `yaml:"sandbox" json:"sandbox"`
	Module      bool     `yaml:"module" json:"module"`
	Unsafe      bool     `yaml:"unsafe" json:"unsafe"`
	ModuleAllow []string `yaml:"moduleAllow" json:"moduleAllow"`
}

// LoadPolicyFile reads a YAML sandbox/module policy document (spec.md
// §6.2, AMBIENT STACK "optionally, from a YAML policy file") and returns
// the Options it describes. The file is decoded with
// github.com/goccy/go-yaml only; patching a policy with
// github.com/tidwall/sjson is a separate step (ToJSON, then MergeFlag).
func LoadPolicyFile(path string) (*Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading policy file: %w", err)
	}
	var doc policyDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing policy file: %w", err)
	}
	return &Options{
		Sandbox:     doc.Sandbox,
		Module:      doc.Module,
		Unsafe:      doc.Unsafe,
		ModuleAllow: doc.ModuleAllow,
	}, nil
}

// MergeFlag patches a single dotted field of a policy document's JSON
// projection with a CLI-flag override (e.g. `--unsafe` winning over a
// loaded policy file), returning the updated JSON text without
// re-serialising the whole document (DOMAIN STACK sjson entry).
func MergeFlag(policyJSON, path string, value any) (string, error) {
	out, err := sjson.Set(policyJSON, path, value)
	if err != nil {
		return "", fmt.Errorf("config: merging flag %s: %w", path, err)
	}
	return out, nil
}

// ToJSON renders o as the JSON projection MergeFlag patches. encoding/json
// is used directly here rather than goccy/go-yaml's own encoder: the YAML
// round trip belongs to LoadPolicyFile (reading a hand-written ops file),
// while this direction only ever needs to produce the plain JSON document
// sjson.Set patches, so the stdlib encoder is the simpler, already-correct
// tool for a struct that carries both yaml and json tags.
func (o *Options) ToJSON() (string, error) {
	raw, err := json.Marshal(policyDoc{
		Sandbox: o.Sandbox, Module: o.Module, Unsafe: o.Unsafe, ModuleAllow: o.ModuleAllow,
	})
	if err != nil {
		return "", fmt.Errorf("config: rendering JSON: %w", err)
	}
	return string(raw), nil
}
