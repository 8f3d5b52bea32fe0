// Package pipeline runs a complete export: from the host selection to the
// Katana document on the clipboard.
//
// This package wires the stages together so the CLI and tests drive exports
// the same way.
//
// # Architecture
//
// An export runs these stages in order:
//
//  1. Walk: collect the selection's upstream closure
//  2. Extract: read one record per node from the host
//  3. Build: classify orphans and terminals, unroll the tree, resolve depths
//  4. Synthesize: write one Katana node per placed record
//  5. Copy: hand the document to the sink
//
// A run either delivers a complete document or writes nothing.
//
// # Usage
//
//	store, err := pipeline.LoadTemplates(ctx, "", logger)
//	runner := pipeline.NewRunner(store, logger)
//	result, err := runner.Copy(ctx, scene, clipboard.System{}, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Status, result.Stats.Emitted)
//
// [Runner.Inspect] runs the first four stages without a sink, for reporting.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/beevik/etree"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/m2k/pkg/material"
)

// =============================================================================
// Status - Run Outcome
// =============================================================================

// Status is the outcome of a run that did not fail.
type Status string

const (
	// StatusCopied means the document was delivered to the sink.
	StatusCopied Status = "copied"

	// StatusInspected means the run stopped before the sink by request.
	StatusInspected Status = "inspected"

	// StatusNothingToCopy means the selection was empty or reached no nodes.
	StatusNothingToCopy Status = "nothing to copy"

	// StatusClipboardUnavailable means the sink could not accept text; no
	// work was done.
	StatusClipboardUnavailable Status = "clipboard unavailable"
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures one export run.
type Options struct {
	// Selection overrides the host selection when non-empty.
	Selection []string

	// Layout holds the placement constants. The zero value means
	// material.DefaultLayout.
	Layout material.Layout

	// Indent pretty-prints the document with that many spaces. Zero writes
	// it on one line.
	Indent int

	// Logger receives stage logs. Defaults to the runner's logger.
	Logger *log.Logger

	// defaulted tracks whether SetDefaults has been called.
	defaulted bool
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.defaulted {
		return
	}
	if o.Layout == (material.Layout{}) {
		o.Layout = material.DefaultLayout()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.defaulted = true
}

// Validate checks the options after defaults are applied.
func (o *Options) Validate() error {
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.Indent < 0 {
		return fmt.Errorf("indent must not be negative: %d", o.Indent)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults, then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// =============================================================================
// Result
// =============================================================================

// Result holds everything a run produced. Fields past Status are only set
// as far as the run got.
type Result struct {
	// RunID identifies the run in logs and hooks.
	RunID string

	Status Status

	// Sink names where the document went, for StatusCopied.
	Sink string

	// Seeds are the node ids the walk started from.
	Seeds []string

	// Network is the extracted material network.
	Network *material.Network

	// Tree is the unrolled network.
	Tree *material.Tree

	// Depths maps every placed name to its resolved level.
	Depths material.DepthMap

	// Placed lists the records in emission order.
	Placed []material.Placed

	// Document is the synthesized paste document and XML its serialized
	// form.
	Document *etree.Document
	XML      string

	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Walked    int // Nodes in the closure
	Extracted int // Records extracted
	Emitted   int // Nodes written to the document
	Orphaned  int
	Terminal  int
	MaxDepth  int
	Bytes     int

	WalkTime       time.Duration
	ExtractTime    time.Duration
	BuildTime      time.Duration
	SynthesizeTime time.Duration
	CopyTime       time.Duration
}

// Total returns the summed stage time.
func (s Stats) Total() time.Duration {
	return s.WalkTime + s.ExtractTime + s.BuildTime + s.SynthesizeTime + s.CopyTime
}
