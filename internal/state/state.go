package state

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when a named entry is not present in the state.
var ErrNotFound = errors.New("not found")

// Instance is a registered server.
type Instance struct {
	Name  string `json:"-"`
	URL   string `json:"url"`
	Token string `json:"token,omitempty"`
}

// State is the persisted client state. It is loaded once per run and saved
// once when the run succeeds.
type State struct {
	Instances       map[string]*Instance `json:"instances"`
	DefaultInstance string               `json:"default_instance,omitempty"`
	LastJob         string               `json:"last_job,omitempty"`
	LastTrigger     string               `json:"last_trigger,omitempty"`
}

// New returns an empty state.
func New() *State {
	return &State{Instances: map[string]*Instance{}}
}

func (s *State) normalize() {
	if s.Instances == nil {
		s.Instances = map[string]*Instance{}
	}
	for name, inst := range s.Instances {
		if inst == nil {
			inst = &Instance{}
			s.Instances[name] = inst
		}
		inst.Name = name
	}
}

// AddInstance registers (or re-registers) an instance. Re-registering an
// existing name replaces its URL and drops any stored token.
func (s *State) AddInstance(name, url string) {
	s.normalize()
	s.Instances[name] = &Instance{Name: name, URL: url}
}

// RemoveInstance unregisters an instance.
func (s *State) RemoveInstance(name string) error {
	s.normalize()
	if _, ok := s.Instances[name]; !ok {
		return fmt.Errorf("instance %q: %w", name, ErrNotFound)
	}
	delete(s.Instances, name)
	return nil
}

// Instance returns a registered instance by name.
func (s *State) Instance(name string) (*Instance, error) {
	s.normalize()
	inst, ok := s.Instances[name]
	if !ok {
		return nil, fmt.Errorf("instance %q: %w", name, ErrNotFound)
	}
	return inst, nil
}

// ListInstances returns all instances sorted by name.
func (s *State) ListInstances() []*Instance {
	s.normalize()
	names := make([]string, 0, len(s.Instances))
	for name := range s.Instances {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Instance, 0, len(names))
	for _, name := range names {
		out = append(out, s.Instances[name])
	}
	return out
}

// Token returns the stored token for an instance, empty before login.
func (s *State) Token(name string) (string, error) {
	inst, err := s.Instance(name)
	if err != nil {
		return "", err
	}
	return inst.Token, nil
}

// SetToken stores the token issued for an instance.
func (s *State) SetToken(name, token string) error {
	inst, err := s.Instance(name)
	if err != nil {
		return err
	}
	inst.Token = token
	return nil
}

// SetDefaultInstance records the default instance. The name is not checked.
func (s *State) SetDefaultInstance(name string) {
	s.DefaultInstance = name
}

// SetLastJob records the last job key used.
func (s *State) SetLastJob(key string) {
	s.LastJob = key
}

// SetLastTrigger records the last trigger name used.
func (s *State) SetLastTrigger(name string) {
	s.LastTrigger = name
}

// ClearLastTrigger removes the last trigger marker. It fails when no marker is set.
func (s *State) ClearLastTrigger() error {
	if s.LastTrigger == "" {
		return fmt.Errorf("last trigger: %w", ErrNotFound)
	}
	s.LastTrigger = ""
	return nil
}
