package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/fuzzypend/internal/control"
	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/fuzzy"
	"github.com/san-kum/fuzzypend/internal/integrators"
)

type controllerFactory func(params map[string]float64, clip bool) dynamo.Controller

// Registry maps configuration names to fresh integrators and controllers.
// The fuzzy engine is immutable and shared by every controller it builds.
type Registry struct {
	integrators map[string]func() dynamo.Integrator
	controllers map[string]controllerFactory
	engine      *fuzzy.Engine
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		controllers: make(map[string]controllerFactory),
		engine:      fuzzy.NewPendulumEngine(),
	}
	unclipped := r.engine.WithoutClipping()

	r.integrators["kinematic"] = func() dynamo.Integrator { return integrators.NewKinematic() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	r.controllers["fuzzy"] = func(_ map[string]float64, clip bool) dynamo.Controller {
		if !clip {
			return control.NewFuzzy(unclipped)
		}
		return control.NewFuzzy(r.engine)
	}
	r.controllers["none"] = func(map[string]float64, bool) dynamo.Controller {
		return control.NewNone(1)
	}
	r.controllers["pid"] = func(params map[string]float64, _ bool) dynamo.Controller {
		return control.NewPID(params["kp"], params["ki"], params["kd"], params["target"])
	}

	return r
}

func (r *Registry) Engine() *fuzzy.Engine { return r.engine }

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, params map[string]float64, clip bool) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(params, clip), nil
}

func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListControllers() []string { return sortedKeys(r.controllers) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
