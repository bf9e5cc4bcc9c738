package schema

import "fmt"

// Defaults applied to a GenerationRequest when the field is absent from the
// request body.
const (
	DefaultNegativePrompt = "blurry, low quality, distorted"
	DefaultSteps          = 25
	DefaultGuidanceScale  = 7.5
	DefaultDimension      = 512
)

// GenerationRequest is a single text-to-image call. Fields with pointer
// types distinguish "absent" from an explicit zero: defaults only apply to
// absent fields, explicit values pass through to the pipeline uninterpreted.
type GenerationRequest struct {
	Prompt            string   `json:"prompt" yaml:"prompt"`
	NegativePrompt    *string  `json:"negative_prompt" yaml:"negative_prompt"`
	NumInferenceSteps *int     `json:"num_inference_steps" yaml:"num_inference_steps"`
	GuidanceScale     *float64 `json:"guidance_scale" yaml:"guidance_scale"`
	Width             *int     `json:"width" yaml:"width"`
	Height            *int     `json:"height" yaml:"height"`
	Seed              *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

func (r *GenerationRequest) SetDefaults() {
	if r.NegativePrompt == nil {
		v := DefaultNegativePrompt
		r.NegativePrompt = &v
	}
	if r.NumInferenceSteps == nil {
		v := DefaultSteps
		r.NumInferenceSteps = &v
	}
	if r.GuidanceScale == nil {
		v := DefaultGuidanceScale
		r.GuidanceScale = &v
	}
	if r.Width == nil {
		v := DefaultDimension
		r.Width = &v
	}
	if r.Height == nil {
		v := DefaultDimension
		r.Height = &v
	}
}

// Validate checks the hard constraints of the pipeline's latent tiling:
// both dimensions must divide evenly by 8. Everything else (empty prompts,
// non-positive step counts, extreme guidance values) is passed through to
// the pipeline as-is.
func (r *GenerationRequest) Validate() error {
	if r.Width == nil || r.Height == nil {
		return fmt.Errorf("width and height must be set")
	}
	if *r.Width%8 != 0 || *r.Height%8 != 0 {
		return fmt.Errorf("width/height must be divisible by 8 (e.g., 512, 768)")
	}
	return nil
}

// GenerationResponse echoes the request's prompt and seed alongside the
// rendered image. Seed is null when the request was unseeded.
type GenerationResponse struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt"`
	Seed   *int64 `json:"seed"`
	Device string `json:"device"`
	Model  string `json:"model"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	Device string `json:"device"`
	Loaded bool   `json:"loaded"`
}

// APIError provides error information in the response body.
type APIError struct {
	Code    any    `json:"code,omitempty"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type ErrorResponse struct {
	Error *APIError `json:"error,omitempty"`
}
