// Package optim tunes controller gains by exhaustive search.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/fuzzypend/internal/config"
	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/experiment"
)

// GridSearch tries every combination of the listed controller parameters
// (kp, ki, kd, target in degrees) on a base configuration.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if err := setGain(&config.ControllerConfig{}, name, 0); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Objective turns a finished run into a score. Lower is better.
type Objective func(h *experiment.History) float64

// Minimize scores a run by one of its metrics.
func Minimize(metric string) Objective {
	return func(h *experiment.History) float64 { return h.Metrics[metric] }
}

// Maximize is Minimize with the sign flipped.
func Maximize(metric string) Objective {
	return func(h *experiment.History) float64 { return -h.Metrics[metric] }
}

// Result is the best combination found.
type Result struct {
	Params map[string]float64
	Score  float64
	Tried  int
	Failed int
}

// Search runs base once per grid point. Runs that diverge count as
// failures and never win; any other error aborts the search.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, score Objective) (*Result, error) {
	res := &Result{Score: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, reg, score, res); err != nil {
		return nil, err
	}
	if res.Params == nil {
		return res, errors.New("no grid point completed")
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	reg *experiment.Registry,
	score Objective,
	res *Result,
) error {
	if depth == len(g.paramNames) {
		cfg := *base
		for name, v := range current {
			if err := setGain(&cfg.ControllerParams, name, v); err != nil {
				return err
			}
		}

		exp, err := experiment.New(experiment.FromConfig(&cfg), reg)
		if err != nil {
			return err
		}
		res.Tried++
		h, err := exp.Run(ctx)
		if errors.Is(err, dynamo.ErrInvalidState) {
			res.Failed++
			return nil
		}
		if err != nil {
			return err
		}

		if val := score(h); val < res.Score {
			res.Score = val
			res.Params = maps.Clone(current)
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, reg, score, res); err != nil {
			return err
		}
	}
	return nil
}

func setGain(c *config.ControllerConfig, name string, v float64) error {
	switch name {
	case "kp":
		c.Kp = v
	case "ki":
		c.Ki = v
	case "kd":
		c.Kd = v
	case "target":
		c.Target = v
	default:
		return fmt.Errorf("unknown controller parameter %q", name)
	}
	return nil
}
