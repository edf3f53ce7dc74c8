// Package pipeline runs named, ordered lists of nodes over string
// parameters. The built-in pipelines import a dataset onto local disk.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// DefaultName is the pipeline run when no name is given.
const DefaultName = "__default__"

var (
	// ErrUnknownPipeline is returned for a name with no registration.
	ErrUnknownPipeline = errors.New("unknown pipeline")
	// ErrMissingParam is returned before any node runs when a node input is unset.
	ErrMissingParam = errors.New("missing parameter")
)

// Params holds node inputs keyed by dotted names such as "drive.file_id".
type Params map[string]string

// Get returns the trimmed value for key.
func (p Params) Get(key string) string { return strings.TrimSpace(p[key]) }

// Missing lists the keys that are unset or blank, in argument order.
func (p Params) Missing(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if p.Get(k) == "" {
			out = append(out, k)
		}
	}
	return out
}

// Node is one step of a pipeline.
type Node struct {
	Name   string
	Inputs []string
	Run    func(ctx context.Context, p Params) error
}

// Pipeline is an ordered list of nodes.
type Pipeline struct {
	Name  string
	Nodes []Node
}

// Inputs returns every parameter key the pipeline reads, deduplicated.
func (p Pipeline) Inputs() []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range p.Nodes {
		for _, in := range n.Inputs {
			if !seen[in] {
				seen[in] = true
				out = append(out, in)
			}
		}
	}
	return out
}

// Registry maps names to pipelines.
type Registry struct {
	pipelines map[string]Pipeline
	aliases   map[string]string
	log       *slog.Logger
}

// NewRegistry returns an empty registry logging to log (slog.Default if nil).
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{pipelines: map[string]Pipeline{}, aliases: map[string]string{}, log: log}
}

// Register adds or replaces a pipeline under its name.
func (r *Registry) Register(p Pipeline) { r.pipelines[p.Name] = p }

// Alias makes name resolve to target.
func (r *Registry) Alias(name, target string) { r.aliases[name] = target }

// Get resolves aliases and returns the pipeline.
func (r *Registry) Get(name string) (Pipeline, bool) {
	if name == "" {
		name = DefaultName
	}
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	p, ok := r.pipelines[name]
	return p, ok
}

// Names lists registered pipelines and aliases, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.pipelines)+len(r.aliases))
	for n := range r.pipelines {
		out = append(out, n)
	}
	for n := range r.aliases {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Run executes the named pipeline's nodes in order. All node inputs are
// checked before the first node starts; the first node error stops the run.
func (r *Registry) Run(ctx context.Context, name string, params Params) error {
	p, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q (available: %s)", ErrUnknownPipeline, name, strings.Join(r.Names(), ", "))
	}
	if miss := params.Missing(p.Inputs()...); len(miss) > 0 {
		return fmt.Errorf("pipeline %s: %w: %s", p.Name, ErrMissingParam, strings.Join(miss, ", "))
	}
	r.log.Info("running pipeline", "pipeline", p.Name, "nodes", len(p.Nodes))
	for i, n := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		r.log.Info("running node", "pipeline", p.Name, "node", n.Name, "step", fmt.Sprintf("%d/%d", i+1, len(p.Nodes)))
		if err := n.Run(ctx, params); err != nil {
			return fmt.Errorf("pipeline %s node %s: %w", p.Name, n.Name, err)
		}
		r.log.Info("completed node", "pipeline", p.Name, "node", n.Name, "elapsed", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
