package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/m2k/pkg/observability"
	"github.com/matzehuels/m2k/pkg/template"
	"github.com/matzehuels/m2k/templates"
)

// EmbeddedSource names the built-in template set in logs and hooks.
const EmbeddedSource = "embedded"

// LoadTemplates loads the template store from dir, or the embedded
// RenderMan templates when dir is empty.
func LoadTemplates(ctx context.Context, dir string, logger *log.Logger) (*template.Store, error) {
	source := dir
	if source == "" {
		source = EmbeddedSource
	}

	start := time.Now()
	var (
		store *template.Store
		err   error
	)
	if dir == "" {
		store, err = template.LoadFS(templates.FS, templates.Dir)
	} else {
		store, err = template.Load(dir)
	}
	elapsed := time.Since(start)

	count := 0
	if store != nil {
		count = store.Len()
	}
	observability.Templates().OnTemplatesLoaded(ctx, source, count, elapsed, err)
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Debug("loaded templates", "source", source, "types", count, "duration", elapsed)
	}
	return store, nil
}
