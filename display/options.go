package display

import (
	"go.uber.org/zap"

	"display-generator/primitive"
	"display-generator/schema"
)

// Option configures a codec.
type Option func(*config)

type config struct {
	variants  map[string]any
	caps      map[string]Capability
	logger    *zap.Logger
	widthMode schema.WidthMode
	lenient   primitive.CategoryEnum
	types     map[string]*schema.TypeDef
}

func newConfig(opts []Option) *config {
	cfg := &config{
		variants: map[string]any{},
		caps:     map[string]Capability{},
		logger:   zap.NewNop(),
		types:    map[string]*schema.TypeDef{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithVariant binds an enum variant to a prototype value. The prototype's
// dynamic type is the variant's Go type; unit variants parse to the
// prototype itself.
func WithVariant(name string, prototype any) Option {
	return func(c *config) {
		c.variants[name] = prototype
	}
}

// WithCapability registers the capability a field's "with" names.
func WithCapability(name string, capability Capability) Option {
	return func(c *config) {
		c.caps[name] = capability
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWidthMode overrides the definition's width mode.
func WithWidthMode(mode schema.WidthMode) Option {
	return func(c *config) {
		c.widthMode = mode
	}
}

// WithLenient enables lenient text forms when parsing primitive values.
func WithLenient(categories primitive.CategoryEnum) Option {
	return func(c *config) {
		c.lenient = categories
	}
}

// WithTypes makes definitions of nested types known, for deep path
// validation and bound inference.
func WithTypes(defs ...*schema.TypeDef) Option {
	return func(c *config) {
		for _, d := range defs {
			c.types[d.Name] = d
		}
	}
}
