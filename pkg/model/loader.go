package model

import (
	"fmt"
	"sync"

	"github.com/mudler/LocalSD/pkg/stablediffusion"
	"github.com/rs/zerolog/log"
)

// Status tracks the pipeline through its process lifetime. There is no
// transition out of StatusReady or StatusFailed: the model is loaded at most
// once and never reloaded.
type Status string

const (
	StatusUnloaded Status = "unloaded"
	StatusLoading  Status = "loading"
	StatusReady    Status = "ready"
	StatusFailed   Status = "failed"
)

// Loader holds the single process-wide pipeline handle. Load runs once at
// startup; after that the handle is read-only and requests may read it
// without synchronization.
type Loader struct {
	mu       sync.Mutex
	status   Status
	pipeline stablediffusion.Pipeline
	model    string
	device   string
	loadErr  error
}

func NewLoader() *Loader {
	return &Loader{
		status: StatusUnloaded,
	}
}

// LoadFunc constructs the pipeline. It is called at most once.
type LoadFunc func() (stablediffusion.Pipeline, error)

// Load constructs the pipeline and transitions the loader to StatusReady,
// or to StatusFailed permanently when construction fails. Calling Load a
// second time is an error regardless of the first outcome.
func (ml *Loader) Load(model, device string, fn LoadFunc) error {
	ml.mu.Lock()
	if ml.status != StatusUnloaded {
		ml.mu.Unlock()
		return fmt.Errorf("model already loaded or loading (status: %s)", ml.status)
	}
	ml.status = StatusLoading
	ml.model = model
	ml.device = device
	ml.mu.Unlock()

	log.Info().Str("model", model).Str("device", device).Msg("Loading model")

	pipeline, err := fn()

	ml.mu.Lock()
	defer ml.mu.Unlock()
	if err != nil {
		ml.status = StatusFailed
		ml.loadErr = err
		log.Error().Err(err).Str("model", model).Msg("Failed to load model")
		return fmt.Errorf("failed to load model %q: %w", model, err)
	}
	if pipeline == nil {
		ml.status = StatusFailed
		ml.loadErr = fmt.Errorf("loader didn't return a pipeline")
		return ml.loadErr
	}

	ml.pipeline = pipeline
	ml.status = StatusReady
	log.Info().Str("model", model).Str("device", device).Msg("Model loaded")
	return nil
}

// Pipeline returns the loaded handle. The second return is false unless the
// loader is in StatusReady, so a request can never observe a partially
// constructed pipeline.
func (ml *Loader) Pipeline() (stablediffusion.Pipeline, bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	if ml.status != StatusReady {
		return nil, false
	}
	return ml.pipeline, true
}

func (ml *Loader) Status() Status {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return ml.status
}

func (ml *Loader) Loaded() bool {
	return ml.Status() == StatusReady
}

func (ml *Loader) Model() string {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return ml.model
}

func (ml *Loader) Device() string {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return ml.device
}
