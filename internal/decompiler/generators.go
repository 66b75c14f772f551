package decompiler

import "io"

// Generator emits the body of a native method at emission time. The
// structuring stage only resolves and attaches generators; invoking
// them is the emitter's business.
type Generator interface {
	Generate(w io.Writer, method string) error
}

// GeneratorFactory produces a fresh generator instance
type GeneratorFactory func() Generator

// GeneratorRegistry maps generator IDs, as named by the
// unflat.GeneratedBy annotation, to factories. Registries are plain
// values wired in by the caller; there is no global one.
type GeneratorRegistry struct {
	factories map[string]GeneratorFactory
}

// NewGeneratorRegistry creates an empty registry
func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{factories: make(map[string]GeneratorFactory)}
}

// Register binds a generator ID to a factory, replacing any previous
// binding for the same ID.
func (r *GeneratorRegistry) Register(id string, factory GeneratorFactory) {
	r.factories[id] = factory
}

// Resolve instantiates the generator registered under id
func (r *GeneratorRegistry) Resolve(id string) (Generator, bool) {
	factory, ok := r.factories[id]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(w io.Writer, method string) error

// Generate implements Generator
func (f GeneratorFunc) Generate(w io.Writer, method string) error {
	return f(w, method)
}
