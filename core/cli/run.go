package cli

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mudler/LocalSD/core/application"
	cliContext "github.com/mudler/LocalSD/core/cli/context"
	"github.com/mudler/LocalSD/core/config"
	"github.com/mudler/LocalSD/core/http"
	"github.com/rs/zerolog/log"
)

type RunCMD struct {
	Model           string `env:"SD_MODEL,LOCALSD_MODEL" help:"Identifier of the pretrained checkpoint to load" group:"models"`
	ModelConfigFile string `env:"LOCALSD_MODEL_CONFIG,MODEL_CONFIG" help:"YAML file describing how the checkpoint should be loaded" group:"models"`
	AssetsDir       string `env:"LOCALSD_ASSETS_DIR,ASSETS_DIR" help:"Path containing the compiled model assets used for inferencing" group:"models"`
	Scheduler       string `env:"LOCALSD_SCHEDULER,SCHEDULER" default:"euler_a" help:"Sampling scheduler to swap in place of the checkpoint default" group:"models"`

	F16     bool `name:"f16" env:"LOCALSD_F16,F16" help:"Run inference with reduced precision (implied on CUDA)" group:"performance"`
	Threads int  `env:"LOCALSD_THREADS,THREADS" short:"t" help:"Number of threads used for parallel computation. Usage of the number of physical cores in the system is suggested" group:"performance"`

	Address          string `env:"LOCALSD_ADDRESS,ADDRESS" default:":8000" help:"Bind address for the API server" group:"api"`
	CORS             bool   `env:"LOCALSD_CORS,CORS" default:"true" help:"" group:"api"`
	CORSAllowOrigins string `env:"LOCALSD_CORS_ALLOW_ORIGINS,CORS_ALLOW_ORIGINS" help:"Comma separated list of allowed CORS origins" group:"api"`
}

func (r *RunCMD) Run(ctx *cliContext.Context) error {
	opts := []config.AppOption{
		config.WithContext(context.Background()),
		config.WithModel(r.Model),
		config.WithModelConfigFile(r.ModelConfigFile),
		config.WithAssetsDir(r.AssetsDir),
		config.WithScheduler(r.Scheduler),
		config.WithF16(r.F16),
		config.WithThreads(r.Threads),
		config.WithAddress(r.Address),
		config.WithCors(r.CORS),
		config.WithCorsAllowOrigins(r.CORSAllowOrigins),
		config.WithDebug(ctx.Debug || (ctx.LogLevel != nil && *ctx.LogLevel == "debug")),
	}

	// A failed model load is fatal: the process must not accept traffic
	// with no usable model.
	app, err := application.New(opts...)
	if err != nil {
		return fmt.Errorf("failed basic startup tasks with error %s", err.Error())
	}

	appHTTP, err := http.API(app)
	if err != nil {
		log.Error().Err(err).Msg("error during HTTP App construction")
		return err
	}

	log.Info().Str("address", r.Address).Msg("LocalSD is started and running")

	ctxRun, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- appHTTP.Start(r.Address)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctxRun.Done():
		// An in-flight sampling run has no cancellation point, give it a
		// moment to finish before closing connections.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return appHTTP.Shutdown(shutdownCtx)
	}
}
