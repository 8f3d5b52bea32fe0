// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about export runs
// and template loading. Nothing is recorded unless hooks are registered;
// the defaults are no-ops.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, observability.StageWalk)
//	// ... walk the network ...
//	observability.Pipeline().OnStageComplete(ctx, observability.StageWalk, len(ids), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names one step of an export run.
type Stage string

// Export stages, in execution order.
const (
	StageWalk       Stage = "walk"
	StageExtract    Stage = "extract"
	StageBuild      Stage = "build"
	StageSynthesize Stage = "synthesize"
	StageCopy       Stage = "copy"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from export runs.
type PipelineHooks interface {
	// Run events
	OnRunStart(ctx context.Context, runID string, seeds int)
	OnRunComplete(ctx context.Context, runID string, status string, duration time.Duration, err error)

	// Stage events. count is the number of items the stage produced
	// (nodes walked, records extracted, nodes placed, bytes written).
	OnStageStart(ctx context.Context, stage Stage)
	OnStageComplete(ctx context.Context, stage Stage, count int, duration time.Duration, err error)
}

// =============================================================================
// Template Hooks
// =============================================================================

// TemplateHooks receives events from template loading.
type TemplateHooks interface {
	// OnTemplatesLoaded records a finished template load from source
	// (a directory or "embedded").
	OnTemplatesLoaded(ctx context.Context, source string, count int, duration time.Duration, err error)

	// OnSchemaMismatch records a node type or attribute missing from the
	// templates.
	OnSchemaMismatch(ctx context.Context, nodeType, attr string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, string, int)                              {}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, string, time.Duration, error) {}
func (NoopPipelineHooks) OnStageStart(context.Context, Stage)                                  {}
func (NoopPipelineHooks) OnStageComplete(context.Context, Stage, int, time.Duration, error)    {}

// NoopTemplateHooks is a no-op implementation of TemplateHooks.
type NoopTemplateHooks struct{}

func (NoopTemplateHooks) OnTemplatesLoaded(context.Context, string, int, time.Duration, error) {}
func (NoopTemplateHooks) OnSchemaMismatch(context.Context, string, string)                    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	templateHooks TemplateHooks = NoopTemplateHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any export runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetTemplateHooks registers custom template hooks.
func SetTemplateHooks(h TemplateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		templateHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Templates returns the registered template hooks.
func Templates() TemplateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return templateHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	templateHooks = NoopTemplateHooks{}
}
