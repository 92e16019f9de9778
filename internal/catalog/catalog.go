package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownService is returned when a service id is not in the registry.
var ErrUnknownService = errors.New("unknown service")

// Service is a bookable treatment with a fixed duration.
type Service struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	Category        string `yaml:"category" json:"category"`
	DurationMinutes int    `yaml:"duration_minutes" json:"durationMinutes"`
	Price           string `yaml:"price" json:"price,omitempty"`
}

// Registry is the static, read-only service catalog loaded at startup.
type Registry struct {
	byID  map[string]Service
	order []string
}

// New builds a registry, rejecting duplicate ids and non-positive durations.
func New(services []Service) (*Registry, error) {
	r := &Registry{byID: make(map[string]Service, len(services))}
	for _, s := range services {
		if s.ID == "" {
			return nil, errors.New("service id must not be empty")
		}
		if s.DurationMinutes <= 0 {
			return nil, fmt.Errorf("service %q: duration must be positive", s.ID)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("service %q defined twice", s.ID)
		}
		r.byID[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r, nil
}

// Lookup returns the service for id.
func (r *Registry) Lookup(id string) (Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return Service{}, fmt.Errorf("%w: %q", ErrUnknownService, id)
	}
	return s, nil
}

// All returns services in declaration order.
func (r *Registry) All() []Service {
	out := make([]Service, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// ByCategory groups services by category, categories sorted by name.
func (r *Registry) ByCategory() map[string][]Service {
	out := make(map[string][]Service)
	for _, s := range r.All() {
		out[s.Category] = append(out[s.Category], s)
	}
	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return out
}

type fileFormat struct {
	Services []Service `yaml:"services"`
}

// Load reads a YAML catalog file of the form `services: [{id, name, ...}]`.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc fileFormat
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if len(doc.Services) == 0 {
		return nil, fmt.Errorf("catalog %s defines no services", path)
	}
	return New(doc.Services)
}

// LoadOrDefault loads path when set, otherwise returns the built-in catalog.
func LoadOrDefault(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
