package stablediffusion

import (
	"context"
	"errors"
	"image"
)

// Device labels reported by the loader and echoed in API responses.
const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// Sampling schedulers understood by the backend. EulerAncestral is swapped
// in at load time in place of the checkpoint default, it gives better
// results across prompt types.
const (
	SchedulerDefault        = "default"
	SchedulerEulerAncestral = "euler_a"
)

var (
	// ErrOutOfMemory is returned when the accelerator runs out of memory
	// mid-sampling.
	ErrOutOfMemory = errors.New("accelerator out of memory")

	// ErrUnsupported is returned by builds without the stablediffusion tag.
	ErrUnsupported = errors.New("this version of LocalSD was built without the stablediffusion tag")
)

// Pipeline is the loaded generative model. It is constructed once at startup
// and never reloaded within the process lifetime. Generate is safe to call
// from a single goroutine at a time; callers serialize access themselves.
type Pipeline interface {
	Generate(ctx context.Context, opts GenerateOptions) (image.Image, error)
}

type GenerateOptions struct {
	PositivePrompt string
	NegativePrompt string
	Width          int
	Height         int
	Steps          int
	GuidanceScale  float64
	Seed           int64
}

type Options struct {
	model            string
	device           string
	scheduler        string
	f16              bool
	attentionSlicing bool
	threads          int
	assetDir         string
}

type Option func(*Options)

func WithModel(model string) Option {
	return func(o *Options) {
		o.model = model
	}
}

func WithDevice(device string) Option {
	return func(o *Options) {
		o.device = device
	}
}

func WithScheduler(scheduler string) Option {
	return func(o *Options) {
		o.scheduler = scheduler
	}
}

func WithF16(f16 bool) Option {
	return func(o *Options) {
		o.f16 = f16
	}
}

func WithAttentionSlicing(enabled bool) Option {
	return func(o *Options) {
		o.attentionSlicing = enabled
	}
}

func WithThreads(threads int) Option {
	return func(o *Options) {
		o.threads = threads
	}
}

func WithAssetDir(dir string) Option {
	return func(o *Options) {
		o.assetDir = dir
	}
}

func NewOptions(opts ...Option) *Options {
	o := &Options{
		device:    DeviceCPU,
		scheduler: SchedulerEulerAncestral,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// New constructs the pipeline from a named pretrained model. The safety
// checker is never wired up, this is a local tool.
func New(opts ...Option) (Pipeline, error) {
	return newPipeline(NewOptions(opts...))
}
