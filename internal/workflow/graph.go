// Package workflow implements a small directed-graph execution model: a
// set of named nodes whose handlers thread a shared session state from an
// entry node to a terminal sentinel, following unconditional or
// conditionally-branching edges.
//
// The graph is data, not a scripting layer: callers register handlers and
// edges in code, compile once, and run the fixed interpreter loop. State
// updates are atomic per node: the handler works on a clone of the
// committed state, and only a successful return is committed. Branch
// selectors run strictly after the producing node, on committed state.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/pkg/domain"
)

// NodeID names a node in the graph.
type NodeID string

// End is the terminal sentinel. Routing to End stops the traversal.
const End NodeID = "__end__"

// DefaultMaxSteps bounds a single traversal. Cyclic graphs that never
// reach End abort with a StepLimitError instead of looping forever.
const DefaultMaxSteps = 25

// Cloneable is the contract session states must satisfy so the engine can
// isolate handler failures: Clone returns a deep enough copy that
// mutating it never leaks into the original.
type Cloneable[S any] interface {
	Clone() S
}

// Handler executes one node. It receives a private clone of the committed
// state and returns the state to commit, or an error (nothing committed).
type Handler[S Cloneable[S]] func(ctx context.Context, state S) (S, error)

// Selector picks a branch label from the committed post-node state.
type Selector[S Cloneable[S]] func(state S) string

// edge is the single outgoing rule of a node: either a fixed successor or
// a selector over labeled branches.
type edge[S Cloneable[S]] struct {
	to       NodeID
	selector Selector[S]
	branches map[string]NodeID
}

// Graph is a builder for a compiled workflow. Not safe for concurrent
// mutation; build it once during setup.
type Graph[S Cloneable[S]] struct {
	nodes map[NodeID]Handler[S]
	edges map[NodeID]edge[S]
	entry NodeID
}

// New creates an empty graph builder.
func New[S Cloneable[S]]() *Graph[S] {
	return &Graph[S]{
		nodes: make(map[NodeID]Handler[S]),
		edges: make(map[NodeID]edge[S]),
	}
}

// AddNode registers a handler under id. Re-registering an id overwrites.
func (g *Graph[S]) AddNode(id NodeID, h Handler[S]) *Graph[S] {
	g.nodes[id] = h
	return g
}

// AddEdge declares an unconditional transition from -> to.
func (g *Graph[S]) AddEdge(from, to NodeID) *Graph[S] {
	g.edges[from] = edge[S]{to: to}
	return g
}

// AddConditionalEdge declares a branching transition: after from commits,
// selector is evaluated on the committed state and its label is resolved
// through branches.
func (g *Graph[S]) AddConditionalEdge(from NodeID, selector Selector[S], branches map[string]NodeID) *Graph[S] {
	g.edges[from] = edge[S]{selector: selector, branches: branches}
	return g
}

// SetEntry designates the node where traversals begin.
func (g *Graph[S]) SetEntry(id NodeID) *Graph[S] {
	g.entry = id
	return g
}

// Compile validates the graph and returns an immutable runner.
func (g *Graph[S]) Compile(opts ...Option) (*Runner[S], error) {
	if g.entry == "" {
		return nil, fmt.Errorf("workflow: no entry node set")
	}
	if _, ok := g.nodes[g.entry]; !ok {
		return nil, fmt.Errorf("workflow: entry node %q is not registered", g.entry)
	}
	for from, e := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("workflow: edge from unknown node %q", from)
		}
		targets := []NodeID{e.to}
		if e.selector != nil {
			targets = targets[:0]
			for _, to := range e.branches {
				targets = append(targets, to)
			}
		}
		for _, to := range targets {
			if to == End {
				continue
			}
			if _, ok := g.nodes[to]; !ok {
				return nil, fmt.Errorf("workflow: edge %q -> unknown node %q", from, to)
			}
		}
	}
	for id := range g.nodes {
		if _, ok := g.edges[id]; !ok {
			return nil, fmt.Errorf("workflow: node %q has no outgoing edge (route it to workflow.End)", id)
		}
	}

	r := &Runner[S]{
		graph:    g,
		maxSteps: DefaultMaxSteps,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&r.cfg)
	}
	if r.cfg.maxSteps > 0 {
		r.maxSteps = r.cfg.maxSteps
	}
	if r.cfg.logger != nil {
		r.logger = r.cfg.logger
	}
	r.hooks = r.cfg.hooks
	return r, nil
}

// config holds compiled-in runner settings.
type config struct {
	maxSteps int
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option configures a compiled runner.
type Option func(*config)

// WithMaxSteps overrides the traversal step ceiling.
func WithMaxSteps(n int) Option {
	return func(c *config) {
		c.maxSteps = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// Runner is a compiled, reusable workflow. A Runner is stateless; the
// session state lives in the value passed through Run, owned by the
// single goroutine driving the traversal.
type Runner[S Cloneable[S]] struct {
	graph    *Graph[S]
	cfg      config
	maxSteps int
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Run executes the graph from the entry node until End is reached, the
// step ceiling is exceeded, the context is canceled, or a handler fails.
// It returns the last committed state in every case, so callers can
// resume or inspect a consistent snapshot after an abort.
func (r *Runner[S]) Run(ctx context.Context, initial S) (S, error) {
	state := initial
	current := r.graph.entry

	for step := 1; ; step++ {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		if step > r.maxSteps {
			return state, &StepLimitError{Limit: r.maxSteps, NodeID: string(current)}
		}

		handler := r.graph.nodes[current]
		r.emitNodeEnter(ctx, current, step)

		// Atomic commit: the handler works on its own clone. On error the
		// clone is discarded and `state` still holds the last commit.
		next, err := handler(ctx, state.Clone())
		if err != nil {
			r.logger.Error("node failed", "node", current, "step", step, "err", err)
			return state, &NodeError{NodeID: string(current), Err: err}
		}
		state = next
		r.emitNodeLeave(ctx, current, step)

		current, err = r.resolveNext(current, state)
		if err != nil {
			return state, err
		}
		if current == End {
			r.logger.Debug("traversal complete", "steps", step)
			return state, nil
		}
	}
}

// resolveNext applies the committed state to the current node's outgoing
// edge. Called only after the node's commit.
func (r *Runner[S]) resolveNext(current NodeID, state S) (NodeID, error) {
	e := r.graph.edges[current]
	if e.selector == nil {
		return e.to, nil
	}
	label := e.selector(state)
	to, ok := e.branches[label]
	if !ok {
		return End, fmt.Errorf("workflow: node %q selected unknown branch %q", current, label)
	}
	return to, nil
}

func (r *Runner[S]) emitNodeEnter(ctx context.Context, id NodeID, step int) {
	r.logger.Debug("node enter", "node", id, "step", step)
	if r.hooks.OnNodeEnter != nil {
		r.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
			Timestamp: time.Now(),
			Type:      domain.EventNodeEnter,
			NodeID:    string(id),
			Step:      step,
		})
	}
}

func (r *Runner[S]) emitNodeLeave(ctx context.Context, id NodeID, step int) {
	if r.hooks.OnNodeLeave != nil {
		r.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
			Timestamp: time.Now(),
			Type:      domain.EventNodeLeave,
			NodeID:    string(id),
			Step:      step,
		})
	}
}
