package backend

import (
	"context"
	"errors"
	"image"
	"math/rand"

	"github.com/mudler/LocalSD/core/schema"
	"github.com/mudler/LocalSD/pkg/model"
	"github.com/mudler/LocalSD/pkg/stablediffusion"
	"github.com/mudler/LocalSD/pkg/utils"
	"github.com/rs/zerolog/log"
)

// ErrModelNotLoaded is returned when generation is requested while the
// pipeline handle is absent (startup incomplete or failed).
var ErrModelNotLoaded = errors.New("model not loaded")

// ImageGeneration runs a single synchronous inference call against the
// process-wide pipeline. The request must already be validated. A supplied
// seed makes the pipeline's noise generation deterministic: identical inputs
// plus identical seed reproduce identical output on the same device. Without
// a seed a random one is drawn for the pipeline but not echoed back.
func ImageGeneration(ctx context.Context, loader *model.Loader, request *schema.GenerationRequest) (*schema.GenerationResponse, error) {
	pipeline, ok := loader.Pipeline()
	if !ok {
		return nil, ErrModelNotLoaded
	}

	seed := rand.Int63()
	if request.Seed != nil {
		seed = *request.Seed
	}

	log.Debug().
		Str("prompt", request.Prompt).
		Int("steps", *request.NumInferenceSteps).
		Int("width", *request.Width).
		Int("height", *request.Height).
		Int64("seed", seed).
		Msg("Generating image")

	img, err := func() (image.Image, error) {
		generationLock.Lock()
		defer generationLock.Unlock()
		return pipeline.Generate(ctx, stablediffusion.GenerateOptions{
			PositivePrompt: request.Prompt,
			NegativePrompt: *request.NegativePrompt,
			Width:          *request.Width,
			Height:         *request.Height,
			Steps:          *request.NumInferenceSteps,
			GuidanceScale:  *request.GuidanceScale,
			Seed:           seed,
		})
	}()
	if err != nil {
		if errors.Is(err, stablediffusion.ErrOutOfMemory) {
			return nil, err
		}
		log.Error().Err(err).Str("prompt", request.Prompt).Msg("Generate error")
		return nil, err
	}

	dataURL, err := utils.EncodePNGDataURL(img)
	if err != nil {
		return nil, err
	}

	return &schema.GenerationResponse{
		Image:  dataURL,
		Prompt: request.Prompt,
		Seed:   request.Seed,
		Device: loader.Device(),
		Model:  loader.Model(),
	}, nil
}
