// Package cfgloader provides a simple way to load and validate configuration at the start of an application.
package cfgloader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/errorbot/mask"
	"github.com/rise-and-shine/errorbot/observability/logger"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

// CodeInvalidConfig is returned when the config cannot be read, parsed or validated.
const CodeInvalidConfig = "INVALID_CONFIG"

// MustLoad is Load that logs the failure and exits the process with status 1.
func MustLoad[T any](opts ...Option) T {
	config, err := Load[T](opts...)
	if err != nil {
		logger.Named("cfgloader").Errorx(err)
		_ = logger.Sync()
		os.Exit(1)
	}
	return config
}

// Load reads ${ENVIRONMENT}.yaml from the config directory into T.
//
// A .env file in the working directory is loaded first if present, and
// ${VAR} references in the YAML are expanded from the environment.
// Fields missing from the file take their `default` struct tag, then the
// result is checked against the `validate` tags (go-playground/validator).
//
// Example:
//
//	type Config struct {
//	    APIKey  string `yaml:"api_key" validate:"required" mask:"true"`
//	    Project string `yaml:"project" validate:"required"`
//	    Level   string `yaml:"level" default:"info"`
//	}
//
// Unless WithSilent is given, the loaded config is logged with fields tagged
// `mask:"true"` hidden.
func Load[T any](opts ...Option) (T, error) {
	var config T
	o := buildOptions(opts)

	if reflect.ValueOf(&config).Elem().Kind() == reflect.Pointer {
		return config, invalid("type argument must not be a pointer", nil)
	}

	_ = godotenv.Load()

	env, err := defineEnvironment(o.Environment)
	if err != nil {
		return config, err
	}

	path := filepath.Join(o.Dir, env+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, invalid(fmt.Sprintf("config file not found: %s", path), errx.D{"path": path})
		}
		return config, errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}

	data = []byte(os.ExpandEnv(string(data)))

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, invalid(fmt.Sprintf("failed to unmarshal %s config: %v", env, err), errx.D{"path": path})
	}

	if err = defaults.Set(&config); err != nil {
		return config, invalid(fmt.Sprintf("failed to set default values: %v", err), nil)
	}

	if err = Validate(&config); err != nil {
		return config, err
	}

	if !o.Silent {
		logger.Named("cfgloader").
			With("environment", env, "config", mask.StructToOrdMap(config)).
			Info("loaded config")
	}

	return config, nil
}

// Validate checks v against its `validate` struct tags and reports every failing field.
func Validate(v any) error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return invalid(err.Error(), nil)
	}

	failed := make([]string, 0, len(errs))
	for _, fe := range errs {
		tag := fe.Tag()
		if fe.Param() != "" {
			tag += "=" + fe.Param()
		}
		failed = append(failed, fmt.Sprintf("%s: %s", fe.Namespace(), tag))
	}

	return invalid("invalid config fields -> "+strings.Join(failed, ", "), errx.D{"fields": failed})
}

func defineEnvironment(override string) (string, error) {
	env := override
	if env == "" {
		env = os.Getenv("ENVIRONMENT")
	}
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		return "", invalid(
			"ENVIRONMENT is not set or invalid. Choices are: production, staging, dev, local, test",
			errx.D{"environment": env},
		)
	}
	return env, nil
}

func invalid(msg string, details errx.D) error {
	if details == nil {
		details = errx.D{}
	}
	return errx.New("[cfgloader]: "+msg,
		errx.WithCode(CodeInvalidConfig),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(details),
	)
}
