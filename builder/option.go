package builder

import (
	"github.com/entquery/nestedwrite/config"
	"github.com/entquery/nestedwrite/telemetry"
)

// options is the builder's resolved configuration for one BuildNested call,
// assembled from defaults plus any Option overrides, the way entc/gen.Config
// is threaded through a single NewGraph call.
type options struct {
	log *telemetry.Logger
	cfg *config.BuilderConfig
}

// Option configures a BuildNested call.
type Option func(*options)

// WithLogger injects a telemetry.Logger; the default is telemetry.Nop().
func WithLogger(l *telemetry.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithConfig overrides the default config.BuilderConfig.
func WithConfig(cfg *config.BuilderConfig) Option {
	return func(o *options) { o.cfg = cfg }
}

func resolveOptions(opts ...Option) *options {
	o := &options{log: telemetry.Nop(), cfg: config.DefaultBuilderConfig()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
