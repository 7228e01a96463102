package inference

import (
	"fmt"

	"credintel/internal/config"
	"credintel/internal/port"
)

// ProviderFactory is a function that creates an InferenceClient from a provider config.
type ProviderFactory func(cfg *config.InferenceConfig) (port.InferenceClient, error)

// registry of inference provider factories, populated explicitly via
// RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an inference provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewClient creates an InferenceClient using the registered factory.
func NewClient(cfg *config.InferenceConfig) (port.InferenceClient, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown inference provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
