package metrics

import (
	"fmt"

	"github.com/san-kum/driftfield/internal/sim"
)

var factories = map[string]func() sim.Metric{
	"link_density": func() sim.Metric { return NewLinkDensity() },
	"displacement": func() sim.Metric { return NewDisplacement() },
	"containment":  func() sim.Metric { return NewContainment() },
	"finite":       func() sim.Metric { return NewFinite() },
}

// Names lists the registered metrics in report order.
func Names() []string {
	return []string{"link_density", "displacement", "containment", "finite"}
}

func Default() []sim.Metric {
	out := make([]sim.Metric, 0, len(factories))
	for _, name := range Names() {
		out = append(out, factories[name]())
	}
	return out
}

func ByName(name string) (sim.Metric, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return f(), nil
}
