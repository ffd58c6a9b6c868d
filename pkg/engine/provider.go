package engine

import (
	"fmt"
	"sync"

	"github.com/openai/openai-go/option"

	"github.com/germanamz/llm7chat/pkg/modeladapter"
	"github.com/germanamz/llm7chat/pkg/providers/openai"
	"github.com/germanamz/llm7chat/pkg/providers/openaisdk"
)

// ClientFactory creates a Completer from a Config.
type ClientFactory func(cfg Config) (modeladapter.Completer, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[string]ClientFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories[ClientNative] = newNative
		factories[ClientSDK] = newSDK
	})
}

// RegisterClient registers a custom client factory under the given kind.
// It can be called before New to swap the transport, e.g. in tests.
func RegisterClient(kind string, factory ClientFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[kind] = factory
}

func getFactory(kind string) (ClientFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[kind]
	return f, ok
}

func newNative(cfg Config) (modeladapter.Completer, error) {
	a := openai.New(cfg.BaseURL, cfg.APIKey)
	a.Headers = cfg.Headers
	a.MaxTokens = cfg.MaxTokens
	a.Temperature = cfg.Temperature

	return a, nil
}

func newSDK(cfg Config) (modeladapter.Completer, error) {
	opts := make([]option.RequestOption, 0, len(cfg.Headers))
	for k, v := range cfg.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}

	a := openaisdk.New(cfg.BaseURL, cfg.APIKey, opts...)
	a.MaxTokens = cfg.MaxTokens
	a.Temperature = cfg.Temperature

	return a, nil
}

// buildCompleter creates a Completer using the factory registered for
// cfg.Client. An empty kind selects the native client.
func buildCompleter(cfg Config) (modeladapter.Completer, error) {
	kind := cfg.Client
	if kind == "" {
		kind = ClientNative
	}

	factory, ok := getFactory(kind)
	if !ok {
		return nil, fmt.Errorf("engine: unknown client %q", kind)
	}

	return factory(cfg)
}
