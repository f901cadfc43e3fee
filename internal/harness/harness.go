package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/provsim/internal/compiler"
	"github.com/roach88/provsim/internal/ir"
	"github.com/roach88/provsim/internal/logging"
	"github.com/roach88/provsim/internal/match"
	"github.com/roach88/provsim/internal/provenance"
	"github.com/roach88/provsim/internal/store"
	"github.com/roach88/provsim/internal/testutil"
)

// Harness executes scenarios against an isolated store.
type Harness struct {
	store  *store.Store
	reg    *ir.Registry
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with deterministic
// session ids, so results are reproducible.
//
// Execution flow:
//  1. Resolve the category registry
//  2. Build the provenance graph and resolve every state's token tree
//  3. Save the session and load it back
//  4. Run comparisons and path checks on the restored graph
//  5. Evaluate expectations into the result
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a context for the store and match tracing.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	reg, err := ScenarioRegistry(scenario)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewSequenceIDGenerator("")),
		store.WithClock(testutil.NewDeterministicClock()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		reg:    reg,
		logger: logging.NewNop(),
	}
	return h.run(ctx, scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	g, err := BuildGraph(scenario, h.reg)
	if err != nil {
		return nil, err
	}
	for _, s := range g.States() {
		if _, err := s.TokenTree(); err != nil {
			return nil, fmt.Errorf("resolve state %q: %w", s.Name, err)
		}
	}

	id, err := h.store.SaveGraph(ctx, scenario.Name, g, h.reg)
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	sess, err := h.store.LoadGraph(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	h.logger.Info("session stored", "session", id, "nodes", sess.NodeCount)

	result := NewResult()
	result.SessionID = id

	for i, c := range scenario.Comparisons {
		cr, err := h.compare(ctx, sess.Graph, c)
		if err != nil {
			return nil, fmt.Errorf("comparison %d: %w", i, err)
		}
		result.Comparisons = append(result.Comparisons, cr)
		h.logger.Info("comparison completed",
			"left", c.Left,
			"right", c.Right,
			"similarity", cr.Similarity,
			"distance", cr.Distance,
		)
	}

	for _, p := range scenario.Paths {
		s := mustState(sess.Graph, p.State)
		result.Paths[p.State] = stateNames(s.Path())
	}

	for _, msg := range EvaluateAssertions(scenario, result) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) compare(ctx context.Context, g *provenance.Graph, c Comparison) (ComparisonResult, error) {
	left, right := mustState(g, c.Left), mustState(g, c.Right)

	tree, err := match.FromStates(ctx, left, right, h.reg)
	if err != nil {
		return ComparisonResult{}, err
	}
	distance, err := left.SimilarityTo(right)
	if err != nil {
		return ComparisonResult{}, err
	}
	return newComparisonResult(c.Left, c.Right, tree, distance), nil
}

// ScenarioRegistry returns the registry a scenario is evaluated with:
// its inline categories, its CUE registry file, or the built-in registry.
func ScenarioRegistry(scenario *Scenario) (*ir.Registry, error) {
	switch {
	case len(scenario.Categories) > 0:
		reg, err := ir.NewRegistry(scenario.Categories...)
		if err != nil {
			return nil, fmt.Errorf("scenario categories: %w", err)
		}
		return reg, nil
	case scenario.Registry != "":
		reg, err := compiler.LoadRegistryFile(scenario.Registry)
		if err != nil {
			return nil, fmt.Errorf("scenario registry: %w", err)
		}
		return reg, nil
	default:
		return ir.DefaultRegistry(), nil
	}
}

// BuildGraph builds the provenance graph a scenario describes. Each state
// gets one application object holding its declared tree; actions are
// recorded in order.
func BuildGraph(scenario *Scenario, reg *ir.Registry) (*provenance.Graph, error) {
	g := provenance.New()
	for _, spec := range scenario.States {
		tree, err := buildToken(spec.Tree, reg)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", spec.Name, err)
		}
		s := g.AddState(spec.Name, spec.Description)
		obj := g.AddObject(spec.Name+"/app", provenance.StaticTree{Tree: tree})
		if err := g.Attach(s, obj); err != nil {
			return nil, fmt.Errorf("state %q: %w", spec.Name, err)
		}
	}

	for i, spec := range scenario.Actions {
		var from *provenance.State
		if spec.From != "" {
			from = mustState(g, spec.From)
		}
		a := g.AddAction(spec.Name, spec.Inverse)
		if err := g.Record(from, a, mustState(g, spec.To)); err != nil {
			return nil, fmt.Errorf("action %d %q: %w", i, spec.Name, err)
		}
	}
	return g, nil
}

// mustState looks up a state validated to exist by validateScenario.
func mustState(g *provenance.Graph, name string) *provenance.State {
	s, ok := g.StateByName(name)
	if !ok {
		panic(fmt.Sprintf("harness: state %q missing from graph", name))
	}
	return s
}

func stateNames(states []*provenance.State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = s.Name
	}
	return out
}
