//go:build !stablediffusion
// +build !stablediffusion

package stablediffusion

func newPipeline(opts *Options) (Pipeline, error) {
	return nil, ErrUnsupported
}
