package cfgloader

const defaultDir = "./config"

// Options holds configuration options for Load and MustLoad.
type Options struct {
	// Silent disables logging of the loaded config.
	Silent bool
	// Dir is the directory holding the ${ENVIRONMENT}.yaml files.
	Dir string
	// Environment overrides the ENVIRONMENT variable.
	Environment string
}

// Option is a functional option for configuring Load behavior.
type Option func(*Options)

// WithSilent disables config logging.
func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}

// WithDir loads config files from dir instead of ./config.
func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}

// WithEnvironment selects the environment explicitly instead of reading ENVIRONMENT.
func WithEnvironment(env string) Option {
	return func(o *Options) {
		o.Environment = env
	}
}

func buildOptions(opts []Option) Options {
	o := Options{Dir: defaultDir}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
