//go:build stablediffusion
// +build stablediffusion

package stablediffusion

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	stableDiffusion "github.com/mudler/go-stable-diffusion"
)

type pipeline struct {
	opts *Options
}

func newPipeline(opts *Options) (Pipeline, error) {
	if opts.model == "" {
		return nil, fmt.Errorf("no model specified")
	}
	if opts.assetDir != "" {
		if _, err := os.Stat(opts.assetDir); err != nil {
			return nil, fmt.Errorf("asset dir not accessible: %w", err)
		}
	}
	return &pipeline{opts: opts}, nil
}

// samplerMode maps scheduler names to the sampler index of the native
// binding. Index 1 is Euler Ancestral.
func samplerMode(scheduler string) int {
	switch scheduler {
	case SchedulerEulerAncestral:
		return 1
	case SchedulerDefault:
		return 0
	default:
		return 0
	}
}

func (p *pipeline) Generate(ctx context.Context, opts GenerateOptions) (image.Image, error) {
	dst, err := os.CreateTemp("", "localsd-*.png")
	if err != nil {
		return nil, err
	}
	dst.Close()
	defer os.Remove(dst.Name())

	// The binding exposes no guidance scale, precision, thread count or
	// attention slicing parameters; those settings stop here.
	err = stableDiffusion.GenerateImage(
		opts.Height,
		opts.Width,
		samplerMode(p.opts.scheduler),
		opts.Steps,
		int(opts.Seed),
		opts.PositivePrompt,
		opts.NegativePrompt,
		dst.Name(),
		"",
		p.opts.assetDir,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "out of memory") {
			return nil, ErrOutOfMemory
		}
		return nil, err
	}

	f, err := os.Open(dst.Name())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return png.Decode(f)
}
