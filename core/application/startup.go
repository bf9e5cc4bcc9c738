package application

import (
	"github.com/mudler/LocalSD/core/config"
	"github.com/mudler/LocalSD/internal"
	"github.com/mudler/LocalSD/pkg/stablediffusion"
	"github.com/mudler/LocalSD/pkg/xsysinfo"
	"github.com/rs/zerolog/log"
)

// New builds the application and loads the pipeline exactly once. On load
// failure the returned error is meant to be fatal: the application is still
// returned with its loader in a failed state, so callers that chose to keep
// serving expose a truthful /health and fail every generation fast.
func New(opts ...config.AppOption) (*Application, error) {
	options := config.NewApplicationConfig(opts...)

	if options.ModelConfigFile != "" {
		mc, err := config.ReadModelConfigFile(options.ModelConfigFile)
		if err != nil {
			return nil, err
		}
		if err := options.ApplyModelConfig(mc); err != nil {
			return nil, err
		}
	}

	application := newApplication(options)

	log.Info().Msgf("Starting LocalSD version: %s", internal.PrintableVersion())

	caps, err := xsysinfo.CPUCapabilities()
	if err == nil {
		log.Debug().Strs("capabilities", caps).Msg("CPU capabilities")
	}
	gpus, err := xsysinfo.GPUs()
	if err == nil {
		log.Debug().Int("count", len(gpus)).Msg("GPU count")
		for _, gpu := range gpus {
			log.Debug().Msgf("GPU: %s", gpu.String())
		}
	}

	// Reduced precision and memory-saving attention only pay off on an
	// accelerator; on CPU full precision is kept.
	device := stablediffusion.DeviceCPU
	f16 := options.F16
	accelerated := xsysinfo.HasAccelerator()
	if accelerated {
		device = stablediffusion.DeviceCUDA
		f16 = true
	}

	threads := options.Threads
	if threads == 0 {
		threads = xsysinfo.CPUPhysicalCores()
	}

	log.Info().
		Str("model", options.Model).
		Str("device", device).
		Bool("f16", f16).
		Str("scheduler", options.Scheduler).
		Msg("Model configuration")

	loadPipeline := options.PipelineLoader
	if loadPipeline == nil {
		loadPipeline = func() (stablediffusion.Pipeline, error) {
			return stablediffusion.New(
				stablediffusion.WithModel(options.Model),
				stablediffusion.WithDevice(device),
				stablediffusion.WithScheduler(options.Scheduler),
				stablediffusion.WithF16(f16),
				stablediffusion.WithAttentionSlicing(accelerated),
				stablediffusion.WithThreads(threads),
				stablediffusion.WithAssetDir(options.AssetsDir),
			)
		}
	}

	if err := application.modelLoader.Load(options.Model, device, loadPipeline); err != nil {
		return application, err
	}

	return application, nil
}
