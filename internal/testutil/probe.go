package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// ProbeType is the registered name of the probe object type.
const ProbeType = "probe"

// ProbeModule registers a "probe" object type that records the order in
// which probes run. Every method takes a Tag string that is written to the
// shared log when the method runs.
//
//   - "tag":   Tag only.
//   - "watch": Tag and In, a reference that creates a dependency.
//   - "fail":  Tag only, always returns an error after logging.
type ProbeModule struct {
	mu    sync.Mutex
	order []string
}

// ProbeState is the per-object state of a probe.
type ProbeState struct {
	Runs int
}

// NewProbeModule creates a probe module with an empty log.
func NewProbeModule() *ProbeModule {
	return &ProbeModule{}
}

// Order returns the tags recorded so far.
func (m *ProbeModule) Order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// Reset clears the log.
func (m *ProbeModule) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = nil
}

func (m *ProbeModule) record(s *ProbeState, args registry.Args) (string, error) {
	var tag string
	if err := args.Decode("Tag", &tag); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.order = append(m.order, tag)
	m.mu.Unlock()
	s.Runs++
	return tag, nil
}

// Register registers the probe type.
func (m *ProbeModule) Register(r *registry.Registry) {
	tag := func(_ context.Context, s *ProbeState, args registry.Args) error {
		_, err := m.record(s, args)
		return err
	}
	fail := func(_ context.Context, s *ProbeState, args registry.Args) error {
		t, err := m.record(s, args)
		if err != nil {
			return err
		}
		return fmt.Errorf("probe '%s' failed", t)
	}

	r.RegisterType(registry.TypeSpec{
		Name:        ProbeType,
		Description: "Records when it runs.",
		New:         func() any { return new(ProbeState) },
		Methods: []registry.MethodSpec{
			{
				Name:       "tag",
				ParamNames: []string{"Tag"},
				ParamTypes: []cty.Type{cty.String},
				Updatable:  true,
				Invoke:     registry.Invoke(tag),
			},
			{
				Name:       "watch",
				ParamNames: []string{"Tag", "In"},
				ParamTypes: []cty.Type{cty.String, registry.RefType},
				Updatable:  true,
				Invoke:     registry.Invoke(tag),
			},
			{
				Name:       "fail",
				ParamNames: []string{"Tag"},
				ParamTypes: []cty.Type{cty.String},
				Updatable:  true,
				Invoke:     registry.Invoke(fail),
			},
		},
		Properties: []registry.PropertySpec{
			{Name: "Runs", Get: registry.Get(func(s *ProbeState) int64 { return int64(s.Runs) })},
		},
	})
}
