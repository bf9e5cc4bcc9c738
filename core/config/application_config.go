package config

import (
	"context"

	"github.com/mudler/LocalSD/pkg/stablediffusion"
)

const (
	// DefaultModel is the checkpoint loaded when SD_MODEL is not set.
	DefaultModel = "runwayml/stable-diffusion-v1-5"

	// DefaultCORSAllowOrigins covers the local development frontends.
	DefaultCORSAllowOrigins = "http://localhost:5173,http://localhost:3000,http://localhost:8000"
)

type ApplicationConfig struct {
	Context context.Context

	Model     string
	Scheduler string
	AssetsDir string

	Threads int
	F16     bool
	Debug   bool

	Address          string
	CORS             bool
	CORSAllowOrigins string

	ModelConfigFile string

	// PipelineLoader overrides how the pipeline is constructed. Tests use
	// this to inject a fake; when nil the stablediffusion backend is used.
	PipelineLoader func() (stablediffusion.Pipeline, error)
}

type AppOption func(*ApplicationConfig)

func NewApplicationConfig(o ...AppOption) *ApplicationConfig {
	opt := &ApplicationConfig{
		Context:          context.Background(),
		Model:            DefaultModel,
		Scheduler:        stablediffusion.SchedulerEulerAncestral,
		Address:          ":8000",
		CORS:             true,
		CORSAllowOrigins: DefaultCORSAllowOrigins,
	}
	for _, oo := range o {
		oo(opt)
	}
	return opt
}

func WithContext(ctx context.Context) AppOption {
	return func(o *ApplicationConfig) {
		o.Context = ctx
	}
}

func WithModel(model string) AppOption {
	return func(o *ApplicationConfig) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithScheduler(scheduler string) AppOption {
	return func(o *ApplicationConfig) {
		if scheduler != "" {
			o.Scheduler = scheduler
		}
	}
}

func WithAssetsDir(dir string) AppOption {
	return func(o *ApplicationConfig) {
		o.AssetsDir = dir
	}
}

func WithThreads(threads int) AppOption {
	return func(o *ApplicationConfig) {
		o.Threads = threads
	}
}

func WithF16(f16 bool) AppOption {
	return func(o *ApplicationConfig) {
		o.F16 = f16
	}
}

func WithDebug(debug bool) AppOption {
	return func(o *ApplicationConfig) {
		o.Debug = debug
	}
}

func WithAddress(address string) AppOption {
	return func(o *ApplicationConfig) {
		if address != "" {
			o.Address = address
		}
	}
}

func WithCors(b bool) AppOption {
	return func(o *ApplicationConfig) {
		o.CORS = b
	}
}

func WithCorsAllowOrigins(origins string) AppOption {
	return func(o *ApplicationConfig) {
		if origins != "" {
			o.CORSAllowOrigins = origins
		}
	}
}

func WithModelConfigFile(path string) AppOption {
	return func(o *ApplicationConfig) {
		o.ModelConfigFile = path
	}
}

func WithPipelineLoader(fn func() (stablediffusion.Pipeline, error)) AppOption {
	return func(o *ApplicationConfig) {
		o.PipelineLoader = fn
	}
}
