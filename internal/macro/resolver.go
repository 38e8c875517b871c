package macro

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/fsutil"
	"github.com/vk/yxflow/internal/ingest"
	"github.com/vk/yxflow/internal/telemetry"
	"github.com/vk/yxflow/internal/workflow"
)

// DefaultMaxPromptAttempts bounds how often the handler is asked about a
// single reference.
const DefaultMaxPromptAttempts = 3

// DocumentParser reads a macro document from disk.
type DocumentParser interface {
	ParseFile(ctx context.Context, path string) (*workflow.Graph, error)
}

// Options configures a Resolver.
type Options struct {
	// SearchDirs are searched, in order, after the locations relative to
	// the referencing document.
	SearchDirs []string
	// Interactive enables the Handler.
	Interactive bool
	// Skip lists references that are marked missing without searching.
	Skip []string
	// Handler is consulted for references the search cannot satisfy.
	Handler MissingHandler
	// MaxPromptAttempts defaults to DefaultMaxPromptAttempts.
	MaxPromptAttempts int
	// Parser defaults to an ingest.Parser with the built-in plugin table.
	Parser DocumentParser
	// Metrics may be nil.
	Metrics *telemetry.Metrics
}

// Resolver expands macro references. It is safe for concurrent use.
type Resolver struct {
	parser      DocumentParser
	handler     MissingHandler
	interactive bool
	maxAttempts int
	metrics     *telemetry.Metrics
	cache       *Cache

	// mu guards the settings a handler can change during a run.
	mu         sync.Mutex
	searchDirs []string
	skip       map[string]bool
	skipAll    bool

	// promptMu serializes handler calls.
	promptMu sync.Mutex
}

// New returns a Resolver with an empty cache.
func New(opts Options) *Resolver {
	r := &Resolver{
		parser:      opts.Parser,
		handler:     opts.Handler,
		interactive: opts.Interactive,
		maxAttempts: opts.MaxPromptAttempts,
		metrics:     opts.Metrics,
		cache:       NewCache(),
		searchDirs:  slices.Clone(opts.SearchDirs),
		skip:        make(map[string]bool, len(opts.Skip)),
	}
	if r.parser == nil {
		r.parser = ingest.New(nil, ingest.WithMetrics(opts.Metrics))
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = DefaultMaxPromptAttempts
	}
	for _, ref := range opts.Skip {
		r.skip[ref] = true
	}
	return r
}

// Cache exposes the resolution cache.
func (r *Resolver) Cache() *Cache { return r.cache }

// SearchDirs returns the current search directories, including any added
// by the handler.
func (r *Resolver) SearchDirs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.searchDirs)
}

// Resolve expands every unresolved macro node of g, in ascending node ID
// order, and returns the composed graph with a report of what happened.
// g is not modified. A graph without unresolved macros is returned as is
// with an empty report.
//
// Unresolvable references are not errors; they are marked missing on the
// graph and listed in the report. An error is returned only when the
// context is cancelled or a sub-workflow cannot be spliced.
func (r *Resolver) Resolve(ctx context.Context, g *workflow.Graph) (*workflow.Graph, *Report, error) {
	meta := g.Metadata()
	report := newReport(meta.SourcePath)
	if len(g.UnresolvedMacros()) == 0 {
		return g, report, nil
	}

	ctx = ctxlog.With(ctx, "document", meta.SourcePath, "run_id", report.RunID.String())
	ctxlog.FromContext(ctx).Debug("Resolving macros.", "unresolved", len(g.UnresolvedMacros()))

	var stack []string
	if meta.SourcePath != "" {
		stack = []string{canonical(meta.SourcePath)}
	}
	res, err := r.resolveGraph(ctx, g, stack, true)
	if err != nil {
		return nil, nil, err
	}
	report.Outcomes = res.outcomes
	return res.graph, report, nil
}

// resolution is the result of expanding the macros of one graph.
type resolution struct {
	graph    *workflow.Graph
	outcomes []Outcome
	paths    []string
}

// resolveGraph expands the unresolved macros of g. stack holds the
// canonical paths of the documents being expanded, outermost first.
// Requests for the same reference made by documents themselves (top) are
// collapsed across goroutines; nested ones only use the cache, so a flight
// never waits on another flight.
func (r *Resolver) resolveGraph(ctx context.Context, g *workflow.Graph, stack []string, top bool) (resolution, error) {
	res := resolution{graph: g}
	for _, n := range g.UnresolvedMacros() {
		if err := ctx.Err(); err != nil {
			return resolution{}, err
		}

		out, entry, err := r.resolveNode(ctx, g, n, stack, top)
		if err != nil {
			return resolution{}, err
		}

		if entry == nil {
			res.graph, err = workflow.WithMacroState(res.graph, n.ID, workflow.MacroRef{
				State:  workflow.MacroMissing,
				Reason: out.Reason,
				Detail: out.Detail,
			})
			if err != nil {
				return resolution{}, fmt.Errorf("marking macro at tool %d missing: %w", n.ID, err)
			}
			res.outcomes = append(res.outcomes, out)
			continue
		}

		res.graph, err = workflow.Splice(res.graph, n.ID, entry.Graph, workflow.SpliceSource{
			Path:     entry.Path,
			Location: entry.Location,
		})
		if err != nil {
			return resolution{}, fmt.Errorf("splicing %s into tool %d: %w", entry.Path, n.ID, err)
		}
		res.outcomes = append(res.outcomes, out)

		spliced, _ := res.graph.Node(n.ID)
		for _, nested := range entry.Outcomes {
			nested.NodeID = spliced.Macro.Expansion.IDMap[nested.NodeID]
			nested.Via = append([]string{n.Macro.Reference}, nested.Via...)
			res.outcomes = append(res.outcomes, nested)
		}
		for _, p := range entry.Paths {
			if !slices.Contains(res.paths, p) {
				res.paths = append(res.paths, p)
			}
		}
	}
	return res, nil
}

// result is the answer to one lookup: an entry, or the reason there is none.
type result struct {
	entry  *Entry
	cached bool
	reason workflow.MissingReason
	detail string
}

func missing(reason workflow.MissingReason, format string, args ...any) result {
	return result{reason: reason, detail: fmt.Sprintf(format, args...)}
}

func (r *Resolver) resolveNode(ctx context.Context, host *workflow.Graph, n workflow.Node, stack []string, top bool) (Outcome, *Entry, error) {
	ref := n.Macro.Reference
	out := Outcome{NodeID: n.ID, Reference: ref}
	logger := ctxlog.FromContext(ctx).With("tool_id", n.ID, "reference", ref)

	var (
		res       result
		fromCache bool
		err       error
	)
	switch {
	case ref == "":
		res = missing(workflow.ReasonNotFound, "tool carries no macro reference")
	case r.skipped(ref):
		res = missing(workflow.ReasonSkipped, "reference is in the skip list")
	default:
		if e, ok := r.cache.Get(ref); ok {
			res, fromCache = result{entry: e}, true
			break
		}
		req := MissingRequest{Document: host.Metadata().SourcePath, NodeID: n.ID, Reference: ref}
		ran := false
		lookup := func() (result, error) {
			if e, ok := r.cache.Get(ref); ok {
				return result{entry: e, cached: true}, nil
			}
			ran = true
			return r.lookup(ctx, req, host.Metadata().Dir(), stack)
		}
		if top {
			res, err = r.cache.once(ref, lookup)
			if err == nil && !ran && res.entry == nil {
				// Only entries are shared. A failure depends on the
				// caller's own directory and stack.
				if r.skipped(ref) {
					res = missing(workflow.ReasonSkipped, "reference is in the skip list")
				} else {
					res, err = lookup()
				}
			}
		} else {
			res, err = lookup()
		}
		fromCache = res.cached || !ran
		if err != nil {
			return Outcome{}, nil, err
		}
	}

	if e := res.entry; e != nil {
		if p, ok := onStack(e.Paths, stack); ok {
			res = missing(workflow.ReasonCircular, "%s is already being expanded", p)
		}
	}

	if res.entry == nil {
		out.State = workflow.MacroMissing
		out.Reason = res.reason
		out.Detail = res.detail
		r.metrics.MacroMissing(res.reason.String())
		logger.Warn("Macro left unresolved.", "reason", res.reason.String(), "detail", res.detail)
		return out, nil, nil
	}

	out.State = workflow.MacroResolved
	out.Path = res.entry.Path
	out.Location = res.entry.Location
	out.FromCache = fromCache
	r.metrics.MacroResolved(res.entry.Location, fromCache)
	logger.Debug("Macro resolved.", "path", res.entry.Path, "location", res.entry.Location, "from_cache", fromCache)
	return out, res.entry, nil
}

// lookup searches for a reference, consulting the handler when the search
// comes up empty.
func (r *Resolver) lookup(ctx context.Context, req MissingRequest, docDir string, stack []string) (result, error) {
	res, err := r.search(ctx, req.Reference, docDir, stack)
	if err != nil || res.entry != nil || res.reason == workflow.ReasonCircular {
		return res, err
	}
	return r.prompt(ctx, req, docDir, stack, res)
}

// search walks the candidate locations. The first candidate that parses
// wins; a candidate already on the stack ends the search as circular.
func (r *Resolver) search(ctx context.Context, ref, docDir string, stack []string) (result, error) {
	var parseErr error
	for c := range candidates(ref, docDir, r.SearchDirs()) {
		res, err := r.load(ctx, ref, c, stack)
		if err == nil {
			return res, nil
		}
		var pe *parseError
		if !errors.As(err, &pe) {
			return result{}, err
		}
		parseErr = pe.err
	}
	if parseErr != nil {
		return missing(workflow.ReasonParseFailed, "%v", parseErr), nil
	}
	return missing(workflow.ReasonNotFound, "no candidate file for %q", ref), nil
}

// parseError marks a candidate that exists but could not be parsed.
type parseError struct{ err error }

func (e *parseError) Error() string { return e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// load parses one candidate, resolves its own macros and caches it.
func (r *Resolver) load(ctx context.Context, ref string, c candidate, stack []string) (result, error) {
	path := canonical(c.path)
	if slices.Contains(stack, path) {
		return missing(workflow.ReasonCircular, "%s is already being expanded", path), nil
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Trying macro candidate.", "path", path, "location", c.location)

	sub, err := r.parser.ParseFile(ctx, path)
	r.metrics.MacroParsed()
	if err != nil {
		logger.Debug("Macro candidate failed to parse.", "path", path, "error", err)
		return result{}, &parseError{err: fmt.Errorf("%s: %w", path, err)}
	}

	nested, err := r.resolveGraph(ctx, sub, append(slices.Clone(stack), path), false)
	if err != nil {
		return result{}, err
	}

	entry := &Entry{
		Reference: ref,
		Path:      path,
		Location:  c.location,
		Graph:     nested.graph,
		Paths:     append([]string{path}, nested.paths...),
		Outcomes:  nested.outcomes,
	}
	return result{entry: r.cache.Put(ref, entry)}, nil
}

// prompt asks the handler what to do about a reference the search could
// not satisfy, up to maxAttempts times.
func (r *Resolver) prompt(ctx context.Context, req MissingRequest, docDir string, stack []string, res result) (result, error) {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if !r.interactive || r.handler == nil || r.skippingAll() || ctx.Err() != nil {
			return res, nil
		}
		req.Attempt = attempt
		req.Reason, req.Detail = res.reason, res.detail

		r.promptMu.Lock()
		d := r.handler.OnMissing(ctx, req)
		r.promptMu.Unlock()

		ctxlog.FromContext(ctx).Debug("Missing macro handler answered.", "reference", req.Reference, "action", d.Action.String(), "path", d.Path, "attempt", attempt)

		var err error
		switch d.Action {
		case ActionRetry:
			r.addSearchDir(d.Path)
			res, err = r.search(ctx, req.Reference, docDir, stack)
		case ActionForcePath:
			res, err = r.forced(ctx, req.Reference, d.Path, stack)
		case ActionSkipAll:
			r.setSkipAll()
			r.addSkip(req.Reference)
			return missing(workflow.ReasonSkipped, "skipped by handler"), nil
		default:
			r.addSkip(req.Reference)
			return missing(workflow.ReasonSkipped, "skipped by handler"), nil
		}
		if err != nil || res.entry != nil || res.reason == workflow.ReasonCircular {
			return res, err
		}
	}
	return res, nil
}

func (r *Resolver) forced(ctx context.Context, ref, path string, stack []string) (result, error) {
	if !fsutil.IsRegularFile(path) {
		return missing(workflow.ReasonNotFound, "%s is not a file", path), nil
	}
	res, err := r.load(ctx, ref, candidate{path: path, location: LocationHandler}, stack)
	var pe *parseError
	if errors.As(err, &pe) {
		return missing(workflow.ReasonParseFailed, "%v", pe.err), nil
	}
	return res, err
}

func (r *Resolver) skipped(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skip[ref]
}

func (r *Resolver) addSkip(ref string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skip[ref] = true
}

func (r *Resolver) skippingAll() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipAll
}

func (r *Resolver) setSkipAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipAll = true
}

func (r *Resolver) addSearchDir(dir string) {
	if dir == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.searchDirs, dir) {
		r.searchDirs = append(r.searchDirs, dir)
	}
}

func onStack(paths, stack []string) (string, bool) {
	for _, p := range paths {
		if slices.Contains(stack, p) {
			return p, true
		}
	}
	return "", false
}
