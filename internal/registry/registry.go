// Package registry holds the capability registry: the static mapping from
// domain tags to worker descriptors. The registry is loaded once at process
// start, validated in full, and read-only thereafter. Changing the registry
// file while the process runs does not affect routing; a watcher records
// that a restart is required.
package registry

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/steward-sh/steward/pkg/models"
)

// Registry routes domains to worker descriptors. Immutable after Load.
type Registry struct {
	descriptors map[string]models.WorkerDescriptor
	path        string
}

type registryFile struct {
	Workers []models.WorkerDescriptor `yaml:"workers"`
}

// Load reads and validates a registry YAML file. Every descriptor is
// checked at load time; a single bad descriptor fails the whole load so a
// misconfigured registry never serves partial routing.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	reg.path = path
	return reg, nil
}

// Parse builds a registry from YAML bytes.
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return FromDescriptors(file.Workers)
}

// FromDescriptors builds a registry from a descriptor list, enforcing the
// one-worker-per-domain rule and per-descriptor validity.
func FromDescriptors(descriptors []models.WorkerDescriptor) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("registry declares no workers")
	}
	byDomain := make(map[string]models.WorkerDescriptor, len(descriptors))
	for i := range descriptors {
		d := descriptors[i]
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byDomain[d.Domain]; dup {
			return nil, fmt.Errorf("domain %q declared twice; exactly one worker per domain", d.Domain)
		}
		byDomain[d.Domain] = d
	}
	return &Registry{descriptors: byDomain}, nil
}

// Default returns the built-in registry used when no registry file exists.
func Default() *Registry {
	reg, err := FromDescriptors(defaultDescriptors())
	if err != nil {
		// The built-in table is a constant; a validation failure here is a
		// programming error.
		panic(fmt.Sprintf("built-in registry invalid: %v", err))
	}
	return reg
}

// Route returns the descriptor for a domain. There is never a fallback: an
// unknown domain is an UnroutableDomainError, surfaced immediately.
func (r *Registry) Route(domain string) (models.WorkerDescriptor, error) {
	d, ok := r.descriptors[domain]
	if !ok {
		return models.WorkerDescriptor{}, &UnroutableDomainError{Domain: domain, Known: r.Domains()}
	}
	return d, nil
}

// Domains returns the registered domain tags, sorted.
func (r *Registry) Domains() []string {
	domains := make([]string, 0, len(r.descriptors))
	for d := range r.descriptors {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// Descriptors returns all descriptors ordered by domain.
func (r *Registry) Descriptors() []models.WorkerDescriptor {
	out := make([]models.WorkerDescriptor, 0, len(r.descriptors))
	for _, domain := range r.Domains() {
		out = append(out, r.descriptors[domain])
	}
	return out
}

// Path returns the file the registry was loaded from, empty for the
// built-in default.
func (r *Registry) Path() string {
	return r.path
}
