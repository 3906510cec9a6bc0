// Package app assembles a ready-to-use network stack from configuration:
// observability provider, HTTP client, interceptor chain and the optional
// retrying decorator.
package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"

	"github.com/gaborage/netbricks/config"
	"github.com/gaborage/netbricks/interceptor"
	"github.com/gaborage/netbricks/logger"
	"github.com/gaborage/netbricks/network"
	"github.com/gaborage/netbricks/observability"
	"github.com/gaborage/netbricks/retry"
)

// Stack holds the components built by New. Service is what callers should
// use; it is Client itself unless retries are enabled.
type Stack struct {
	Config   *config.Config
	Logger   logger.Logger
	Provider observability.Provider
	Client   *network.Client
	Retry    *retry.Handler
	Service  network.Service
}

// Option customizes New.
type Option func(*options)

type options struct {
	roundTripper  nethttp.RoundTripper
	tokenProvider interceptor.TokenProvider
	sink          func(string)
	providerOpts  []observability.Option
	extraRequest  []network.RequestInterceptor
	extraResponse []network.ResponseInterceptor
}

// WithRoundTripper replaces the default HTTP transport.
func WithRoundTripper(rt nethttp.RoundTripper) Option {
	return func(o *options) { o.roundTripper = rt }
}

// WithTokenProvider injects bearer tokens from p, overriding client.auth.
func WithTokenProvider(p interceptor.TokenProvider) Option {
	return func(o *options) { o.tokenProvider = p }
}

// WithLogSink also sends logging interceptor lines to fn.
func WithLogSink(fn func(string)) Option {
	return func(o *options) { o.sink = fn }
}

// WithProviderOptions forwards options to observability.NewProvider.
func WithProviderOptions(opts ...observability.Option) Option {
	return func(o *options) { o.providerOpts = append(o.providerOpts, opts...) }
}

// WithRequestInterceptors appends interceptors after the configured ones.
func WithRequestInterceptors(interceptors ...network.RequestInterceptor) Option {
	return func(o *options) { o.extraRequest = append(o.extraRequest, interceptors...) }
}

// WithResponseInterceptors appends interceptors after the configured ones.
func WithResponseInterceptors(interceptors ...network.ResponseInterceptor) Option {
	return func(o *options) { o.extraResponse = append(o.extraResponse, interceptors...) }
}

// New builds a Stack from cfg. A nil log is replaced by one built from cfg.Log.
//
// Request interceptors run as rate limit, request ID, user agent, auth,
// caller extras, logging. Response interceptors run as logging, metrics,
// caller extras.
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*Stack, error) {
	if cfg == nil {
		return nil, errors.New("app: config is nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.New(cfg.Log.Level, cfg.Log.Pretty)
	}

	provider, err := observability.NewProvider(&cfg.Observability,
		append([]observability.Option{observability.WithLogger(log)}, o.providerOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create observability provider: %w", err)
	}

	client, err := buildClient(cfg, log, provider, &o)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, err
	}

	stack := &Stack{
		Config:   cfg,
		Logger:   log,
		Provider: provider,
		Client:   client,
		Service:  client,
	}

	if cfg.Retry.Enabled {
		rc := retryConfiguration(cfg.Retry)
		if err := rc.Validate(); err != nil {
			_ = stack.Close(context.Background())
			return nil, err
		}
		stack.Retry = retry.New(rc, retry.WithLogger(log))
		stack.Service = retry.Wrap(client, stack.Retry)
	}

	log.Info().
		Str("base_url", cfg.Client.BaseURL).
		Bool("retry", cfg.Retry.Enabled).
		Bool("observability", cfg.Observability.Enabled).
		Msg("Network stack ready")
	return stack, nil
}

func buildClient(cfg *config.Config, log logger.Logger, provider observability.Provider, o *options) (*network.Client, error) {
	cc := cfg.Client

	level := interceptor.LevelNone
	if cc.Logging.Level != "" {
		parsed, err := interceptor.ParseLevel(cc.Logging.Level)
		if err != nil {
			return nil, config.NewInvalidFieldError("client.logging.level", err.Error(), nil)
		}
		level = parsed
	}
	loggingOpts := []interceptor.LoggingOption{
		interceptor.WithLogger(log),
		interceptor.WithPreviewLimit(cc.Logging.PreviewLimit),
	}
	if o.sink != nil {
		loggingOpts = append(loggingOpts, interceptor.WithSink(o.sink))
	}
	logging := interceptor.NewLogging(level, loggingOpts...)

	metrics, err := interceptor.NewMetrics(provider.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create client metrics: %w", err)
	}

	hc := &nethttp.Client{Timeout: cc.Timeout, Transport: o.roundTripper}
	b := network.NewBuilder(log).
		WithBaseURL(cc.BaseURL).
		WithTransport(hc).
		WithDefaultHeaders(cc.DefaultHeaders)

	if cc.RateLimit.RPS > 0 {
		b.WithRequestInterceptor(interceptor.NewRateLimit(cc.RateLimit.RPS, cc.RateLimit.Burst))
	}
	if cc.RequestID.Enabled {
		b.WithRequestInterceptor(interceptor.NewRequestID(cc.RequestID.Header))
	}
	if cc.UserAgent != "" {
		b.WithRequestInterceptor(interceptor.NewUserAgent(cc.UserAgent))
	}
	if auth := authInterceptor(cc.Auth, o.tokenProvider); auth != nil {
		b.WithRequestInterceptor(auth)
	}
	b.WithRequestInterceptor(o.extraRequest...)
	b.WithRequestInterceptor(logging)

	b.WithResponseInterceptor(logging, metrics)
	b.WithResponseInterceptor(o.extraResponse...)

	if cfg.Observability.Enabled {
		b.WithTracing(provider.TracerProvider(), provider.Propagator())
	}

	return b.Build()
}

func authInterceptor(cfg config.AuthConfig, provider interceptor.TokenProvider) *interceptor.Auth {
	if provider != nil {
		return interceptor.NewBearer(provider)
	}
	switch cfg.Type {
	case "bearer":
		return interceptor.NewBearer(interceptor.StaticToken(cfg.Token))
	case "apikey":
		return interceptor.NewAPIKey(cfg.Header, cfg.Token)
	default:
		return nil
	}
}

func retryConfiguration(cfg config.RetryConfig) retry.Configuration {
	rc := retry.Configuration{
		MaxRetries:           cfg.MaxRetries,
		BaseDelay:            cfg.BaseDelay,
		MaxDelay:             cfg.MaxDelay,
		ExponentialBackoff:   cfg.Exponential,
		RetryableStatusCodes: retry.StatusCodes(cfg.StatusCodes...),
	}
	if len(cfg.StatusCodes) == 0 {
		rc.RetryableStatusCodes = retry.StatusCodes(retry.DefaultRetryableStatusCodes...)
	}
	return rc
}

// Close releases the client and flushes telemetry.
func (s *Stack) Close(ctx context.Context) error {
	clientErr := s.Client.Close()
	return errors.Join(clientErr, observability.Shutdown(ctx, s.Provider, 0))
}
