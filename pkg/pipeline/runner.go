package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/m2k/pkg/clipboard"
	m2kerrors "github.com/matzehuels/m2k/pkg/errors"
	"github.com/matzehuels/m2k/pkg/host"
	"github.com/matzehuels/m2k/pkg/katana"
	"github.com/matzehuels/m2k/pkg/material"
	"github.com/matzehuels/m2k/pkg/observability"
	"github.com/matzehuels/m2k/pkg/template"
)

// Runner executes export runs against one template store.
//
// The Runner holds no per-run state. The store is read-only, so several
// goroutines may share a Runner as long as each uses its own Scene.
type Runner struct {
	Store  *template.Store
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, the default logger is used.
func NewRunner(store *template.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Store: store, Logger: logger}
}

// Copy exports the selection's network and writes the document to sink.
//
// An unavailable sink is checked before any work and reported as
// StatusClipboardUnavailable. An empty selection, or one that reaches no
// nodes, is reported as StatusNothingToCopy. Both return a nil error.
// On error nothing is written to the sink.
func (r *Runner) Copy(ctx context.Context, scene host.Scene, sink clipboard.Sink, opts Options) (result *Result, err error) {
	logger, result, err := r.start(ctx, &opts)
	if err != nil {
		return nil, err
	}
	defer r.finish(ctx, result, &err)

	if sink == nil || !sink.Available() {
		result.Status = StatusClipboardUnavailable
		logger.Warn("clipboard unavailable, nothing exported")
		return result, nil
	}

	if err := r.build(ctx, scene, opts, logger, result); err != nil {
		return result, err
	}
	if result.Status == StatusNothingToCopy {
		return result, nil
	}

	result.Stats.CopyTime, err = r.stage(ctx, observability.StageCopy, func() (int, error) {
		if err := sink.Write(result.XML); err != nil {
			return 0, m2kerrors.Wrap(m2kerrors.ErrCodeClipboardUnavailable, err, "write to %s", sink.Name())
		}
		return len(result.XML), nil
	})
	if err != nil {
		return result, err
	}

	result.Status = StatusCopied
	result.Sink = sink.Name()
	logger.Info("copied nodes",
		"nodes", result.Stats.Emitted,
		"bytes", result.Stats.Bytes,
		"sink", result.Sink,
		"duration", result.Stats.Total())
	return result, nil
}

// Inspect runs every stage except the copy and returns what would have
// been written.
func (r *Runner) Inspect(ctx context.Context, scene host.Scene, opts Options) (result *Result, err error) {
	logger, result, err := r.start(ctx, &opts)
	if err != nil {
		return nil, err
	}
	defer r.finish(ctx, result, &err)

	if err := r.build(ctx, scene, opts, logger, result); err != nil {
		return result, err
	}
	if result.Status != StatusNothingToCopy {
		result.Status = StatusInspected
	}
	return result, nil
}

// start validates options and opens a run.
func (r *Runner) start(ctx context.Context, opts *Options) (*log.Logger, *Result, error) {
	if r.Store == nil {
		return nil, nil, m2kerrors.New(m2kerrors.ErrCodeInvalidInput, "runner has no template store")
	}
	r.applyLogger(opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, m2kerrors.Wrap(m2kerrors.ErrCodeInvalidConfig, err, "invalid options")
	}

	result := &Result{RunID: uuid.NewString()}
	observability.Pipeline().OnRunStart(ctx, result.RunID, len(opts.Selection))
	return opts.Logger.With("run", result.RunID), result, nil
}

func (r *Runner) finish(ctx context.Context, result *Result, err *error) {
	status := string(result.Status)
	if *err != nil {
		status = "failed"
	}
	observability.Pipeline().OnRunComplete(ctx, result.RunID, status, result.Stats.Total(), *err)
}

// build runs walk, extract, build and synthesize, filling result as it
// goes.
func (r *Runner) build(ctx context.Context, scene host.Scene, opts Options, logger *log.Logger, result *Result) error {
	seeds := opts.Selection
	if len(seeds) == 0 {
		seeds = scene.Selection()
	}
	for _, id := range seeds {
		if err := m2kerrors.ValidateNodeName(id); err != nil {
			return err
		}
	}
	result.Seeds = seeds
	if len(seeds) == 0 {
		result.Status = StatusNothingToCopy
		logger.Info("nothing selected")
		return nil
	}

	// Stage 1: Walk
	var ids []string
	var err error
	result.Stats.WalkTime, err = r.stage(ctx, observability.StageWalk, func() (int, error) {
		ids, err = material.Closure(scene, seeds)
		return len(ids), err
	})
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}
	result.Stats.Walked = len(ids)
	if len(ids) == 0 {
		result.Status = StatusNothingToCopy
		logger.Info("selection reaches no nodes")
		return nil
	}
	logger.Debug("walked network", "seeds", len(seeds), "nodes", len(ids), "duration", result.Stats.WalkTime)

	// Stage 2: Extract
	result.Stats.ExtractTime, err = r.stage(ctx, observability.StageExtract, func() (int, error) {
		records, err := material.NewExtractor(scene, logger).ExtractAll(ids)
		if err != nil {
			return 0, err
		}
		result.Network, err = material.NewNetwork(records)
		if err != nil {
			return 0, fmt.Errorf("extract: %w", err)
		}
		return len(records), nil
	})
	if err != nil {
		return err
	}
	result.Stats.Extracted = result.Network.Len()
	logger.Debug("extracted records", "records", result.Stats.Extracted, "duration", result.Stats.ExtractTime)

	// Stage 3: Build
	result.Stats.BuildTime, err = r.stage(ctx, observability.StageBuild, func() (int, error) {
		tree, err := material.BuildTree(result.Network, material.SceneClassifier(scene), opts.Layout)
		if err != nil {
			return 0, err
		}
		result.Tree = tree
		result.Depths = material.Resolve(tree)
		result.Placed = material.Serialize(tree, result.Depths)
		return len(result.Placed), nil
	})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	result.Stats.Orphaned = len(result.Tree.Orphaned)
	result.Stats.Terminal = len(result.Tree.Terminal)
	result.Stats.MaxDepth = result.Depths.Max()
	if cycle := result.Network.Graph().FindCycle(); cycle != nil {
		logger.Warn("network contains a cycle", "nodes", cycle)
	}
	logger.Debug("built tree",
		"placed", len(result.Placed),
		"orphaned", result.Stats.Orphaned,
		"terminal", result.Stats.Terminal,
		"depth", result.Stats.MaxDepth,
		"duration", result.Stats.BuildTime)

	// Stage 4: Synthesize
	result.Stats.SynthesizeTime, err = r.stage(ctx, observability.StageSynthesize, func() (int, error) {
		doc, err := katana.NewSynthesizer(r.Store, logger).WithContext(ctx).Document(result.Placed)
		if err != nil {
			return 0, err
		}
		xml, err := katana.WriteString(doc, opts.Indent)
		if err != nil {
			return 0, m2kerrors.Wrap(m2kerrors.ErrCodeInternal, err, "serialize document")
		}
		result.Document = doc
		result.XML = xml
		return len(result.Placed), nil
	})
	if err != nil {
		return err
	}
	result.Stats.Emitted = len(result.Placed)
	result.Stats.Bytes = len(result.XML)
	logger.Info("synthesized document",
		"nodes", result.Stats.Emitted,
		"bytes", result.Stats.Bytes,
		"duration", result.Stats.SynthesizeTime)
	return nil
}

// stage runs fn between the stage hooks. The context is checked first so
// a cancelled run stops at the next stage boundary.
func (r *Runner) stage(ctx context.Context, s observability.Stage, fn func() (int, error)) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, s)
	start := time.Now()
	n, err := fn()
	elapsed := time.Since(start)
	hooks.OnStageComplete(ctx, s, n, elapsed, err)
	return elapsed, err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
