// Package errorbot reports errors and unhandled panics to ErrorBot.
//
// A Reporter sends one JSON report per call with a single synchronous
// HTTP POST. Failures are printed to the console and dropped: nothing is
// queued, batched or retried, and no failure is ever returned to or panics
// into the caller of ReportError.
//
// Typical startup sequence:
//
//	func main() {
//		rep, err := errorbot.New(errorbot.Config{APIKey: key, Project: "billing"})
//		if err != nil {
//			log.Fatal(err)
//		}
//		rep.Init()
//		defer errorbot.Recover()
//
//		// ...
//		rep.ReportError(ctx, "disk full", errorbot.WithType("warning"))
//	}
package errorbot

import (
	"net/http"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/rise-and-shine/errorbot/cfgloader"
	"github.com/rise-and-shine/errorbot/observability/logger"
)

// DefaultEndpoint is the ErrorBot report API.
const DefaultEndpoint = "https://errorbot.fyi/api/v1/report"

// Config defines the identity a Reporter reports under.
type Config struct {
	// APIKey authenticates reports through the X-API-Key header.
	APIKey string `yaml:"api_key" validate:"required_unless=Disable true" mask:"true"`

	// Project names the project reports are filed under.
	Project string `yaml:"project" validate:"required_unless=Disable true"`

	// Disable turns ReportError into a no-op. Panics are still handled by Recover.
	Disable bool `yaml:"disable" default:"false"`
}

// Reporter sends error reports for one project. It is immutable after New
// and safe for concurrent use.
type Reporter struct {
	apiKey   string
	project  string
	endpoint string
	disabled bool

	client   *http.Client
	console  *Console
	log      logger.Logger
	fallback Handler
}

// Option customizes a Reporter.
type Option func(*Reporter)

// WithEndpoint overrides DefaultEndpoint, e.g. for a self-hosted ErrorBot or tests.
func WithEndpoint(url string) Option {
	return func(r *Reporter) {
		r.endpoint = url
	}
}

// WithHTTPClient replaces the default pooled client. A nil client is ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Reporter) {
		if c != nil {
			r.client = c
		}
	}
}

// WithConsole redirects the success and failure lines. A nil console is ignored.
func WithConsole(c *Console) Option {
	return func(r *Reporter) {
		if c != nil {
			r.console = c
		}
	}
}

// WithLogger sets the logger used for failure details.
func WithLogger(l logger.Logger) Option {
	return func(r *Reporter) {
		r.log = l
	}
}

// WithFallback sets the handler interrupts are delegated to. Defaults to DefaultHandler.
func WithFallback(h Handler) Option {
	return func(r *Reporter) {
		r.fallback = h
	}
}

// New validates cfg and creates a Reporter.
// The HTTP client keeps transport defaults: no timeout is imposed.
func New(cfg Config, opts ...Option) (*Reporter, error) {
	if err := cfgloader.Validate(cfg); err != nil {
		return nil, err
	}

	r := &Reporter{
		apiKey:   cfg.APIKey,
		project:  cfg.Project,
		endpoint: DefaultEndpoint,
		disabled: cfg.Disable,
		client:   cleanhttp.DefaultPooledClient(),
		console:  NewConsole(),
		fallback: DefaultHandler,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fallback == nil {
		r.fallback = DefaultHandler
	}
	if r.log == nil {
		r.log = logger.Named("errorbot")
	}

	return r, nil
}

// Init installs r as the process-wide handler for panics caught by Recover.
// Calling Init again, on r or another Reporter, replaces the previous handler.
func (r *Reporter) Init() {
	Install(r)
}

// Project returns the configured project name.
func (r *Reporter) Project() string {
	return r.project
}
