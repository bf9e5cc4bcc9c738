package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/mudler/LocalSD/core/application"
	"github.com/mudler/LocalSD/core/config"
	localhttp "github.com/mudler/LocalSD/core/http"
	"github.com/mudler/LocalSD/core/schema"
	"github.com/mudler/LocalSD/pkg/stablediffusion"
	"github.com/mudler/LocalSD/pkg/utils"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakePipeline renders seeded noise so that identical seeds reproduce
// identical images, like the real pipeline on a fixed device.
type fakePipeline struct {
	err      error
	calls    int
	lastOpts stablediffusion.GenerateOptions
}

func (f *fakePipeline) Generate(ctx context.Context, opts stablediffusion.GenerateOptions) (image.Image, error) {
	f.calls++
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	rng := rand.New(rand.NewSource(opts.Seed))
	for i := range img.Pix {
		img.Pix[i] = byte(rng.Intn(256))
	}
	return img, nil
}

func postGenerate(url string, body string) (*http.Response, map[string]any) {
	resp, err := http.Post(url+"/generate", "application/json", bytes.NewBufferString(body))
	Expect(err).ToNot(HaveOccurred())
	defer resp.Body.Close()

	var decoded map[string]any
	Expect(json.NewDecoder(resp.Body).Decode(&decoded)).To(Succeed())
	return resp, decoded
}

func getHealth(url string) schema.HealthResponse {
	resp, err := http.Get(url + "/health")
	Expect(err).ToNot(HaveOccurred())
	defer resp.Body.Close()
	Expect(resp.StatusCode).To(Equal(http.StatusOK))

	var health schema.HealthResponse
	Expect(json.NewDecoder(resp.Body).Decode(&health)).To(Succeed())
	return health
}

var _ = Describe("LocalSD API", func() {
	var (
		fake *fakePipeline
		ts   *httptest.Server
	)

	startServer := func(loadErr error) {
		fake = &fakePipeline{}
		app, err := application.New(
			config.WithModel("test/checkpoint"),
			config.WithPipelineLoader(func() (stablediffusion.Pipeline, error) {
				if loadErr != nil {
					return nil, loadErr
				}
				return fake, nil
			}),
		)
		if loadErr == nil {
			Expect(err).ToNot(HaveOccurred())
		} else {
			Expect(err).To(HaveOccurred())
		}
		Expect(app).ToNot(BeNil())

		e, err := localhttp.API(app)
		Expect(err).ToNot(HaveOccurred())
		ts = httptest.NewServer(e)
	}

	AfterEach(func() {
		if ts != nil {
			ts.Close()
		}
	})

	Context("with a loaded model", func() {
		BeforeEach(func() {
			startServer(nil)
		})

		It("reports readiness", func() {
			health := getHealth(ts.URL)
			Expect(health.Status).To(Equal("ok"))
			Expect(health.Model).To(Equal("test/checkpoint"))
			Expect(health.Loaded).To(BeTrue())
			Expect(health.Device).ToNot(BeEmpty())

			resp, err := http.Get(ts.URL + "/readyz")
			Expect(err).ToNot(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("generates an image and echoes the seed", func() {
			resp, body := postGenerate(ts.URL, `{"prompt": "a red circle", "width": 512, "height": 512, "seed": 42}`)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			Expect(body["image"]).To(HavePrefix("data:image/png;base64,"))
			Expect(body["prompt"]).To(Equal("a red circle"))
			Expect(body["seed"]).To(BeNumerically("==", 42))
			Expect(body["model"]).To(Equal("test/checkpoint"))
			Expect(body["device"]).To(Equal(getHealth(ts.URL).Device))

			// The payload decodes back to pixels of the requested size.
			img, err := utils.DecodePNGDataURL(body["image"].(string))
			Expect(err).ToNot(HaveOccurred())
			Expect(img.Bounds().Dx()).To(Equal(512))
			Expect(img.Bounds().Dy()).To(Equal(512))
		})

		It("applies request defaults", func() {
			resp, _ := postGenerate(ts.URL, `{"prompt": "x"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			Expect(fake.lastOpts.NegativePrompt).To(Equal(schema.DefaultNegativePrompt))
			Expect(fake.lastOpts.Steps).To(Equal(schema.DefaultSteps))
			Expect(fake.lastOpts.GuidanceScale).To(Equal(schema.DefaultGuidanceScale))
			Expect(fake.lastOpts.Width).To(Equal(schema.DefaultDimension))
			Expect(fake.lastOpts.Height).To(Equal(schema.DefaultDimension))
		})

		It("is deterministic for a fixed seed", func() {
			_, first := postGenerate(ts.URL, `{"prompt": "a red circle", "seed": 42}`)
			_, second := postGenerate(ts.URL, `{"prompt": "a red circle", "seed": 42}`)
			_, third := postGenerate(ts.URL, `{"prompt": "a red circle", "seed": 43}`)

			Expect(first["image"]).To(Equal(second["image"]))
			Expect(first["image"]).ToNot(Equal(third["image"]))
		})

		It("rejects dimensions not divisible by 8 without running inference", func() {
			resp, body := postGenerate(ts.URL, `{"prompt": "x", "width": 513, "height": 512}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

			errBody := body["error"].(map[string]any)
			Expect(errBody["message"]).To(ContainSubstring("divisible by 8"))
			Expect(fake.calls).To(Equal(0))
		})

		It("maps accelerator OOM to 507", func() {
			fake.err = stablediffusion.ErrOutOfMemory

			resp, body := postGenerate(ts.URL, `{"prompt": "x"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusInsufficientStorage))

			errBody := body["error"].(map[string]any)
			Expect(errBody["message"]).To(ContainSubstring("out of memory"))
			Expect(errBody["message"]).To(ContainSubstring("fewer steps"))
		})

		It("surfaces other pipeline failures as 500 with the raw message", func() {
			fake.err = errors.New("sampling exploded")

			resp, body := postGenerate(ts.URL, `{"prompt": "x"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))

			errBody := body["error"].(map[string]any)
			Expect(errBody["message"]).To(ContainSubstring("sampling exploded"))
		})
	})

	Context("when the model failed to load", func() {
		BeforeEach(func() {
			startServer(errors.New("checkpoint not found"))
		})

		It("still answers health checks", func() {
			health := getHealth(ts.URL)
			Expect(health.Status).To(Equal("ok"))
			Expect(health.Loaded).To(BeFalse())

			resp, err := http.Get(ts.URL + "/readyz")
			Expect(err).ToNot(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
		})

		It("fails generation fast without touching the pipeline", func() {
			resp, body := postGenerate(ts.URL, `{"prompt": "x"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))

			errBody := body["error"].(map[string]any)
			Expect(strings.ToLower(errBody["message"].(string))).To(ContainSubstring("model not loaded"))
			Expect(fake.calls).To(Equal(0))
		})
	})
})
