package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/paragrid/internal/app"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "PARAGRID_"

// fileConfig is the layout of the --config YAML file.
type fileConfig struct {
	Models    []string `yaml:"models"`
	LogLevel  string   `yaml:"log_level"`
	LogFormat string   `yaml:"log_format"`
	CacheSize int      `yaml:"cache_size"`
	Queries   []string `yaml:"queries"`

	Healthcheck struct {
		Port int `yaml:"port"`
	} `yaml:"healthcheck"`

	View struct {
		URL       string   `yaml:"url"`
		Namespace string   `yaml:"namespace"`
		Events    []string `yaml:"events"`
		Insecure  bool     `yaml:"insecure"`
	} `yaml:"view"`
}

func readConfigFile(path string) (*fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	fc := &fileConfig{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return fc, nil
}

func (fc *fileConfig) apply(cfg *app.Config) {
	cfg.ModelPaths = fc.Models
	cfg.LogLevel = fc.LogLevel
	cfg.LogFormat = fc.LogFormat
	cfg.CacheSize = fc.CacheSize
	cfg.Queries = fc.Queries
	cfg.HealthcheckPort = fc.Healthcheck.Port
	cfg.ViewURL = fc.View.URL
	cfg.ViewNamespace = fc.View.Namespace
	cfg.ViewEvents = fc.View.Events
	cfg.ViewInsecure = fc.View.Insecure
}

// lookupFunc reads one PARAGRID_* variable by its unprefixed name.
type lookupFunc func(name string) (string, bool)

// environment returns a lookup over the process environment. Values from
// envFile fill in names the process environment does not set.
func environment(envFile string) (lookupFunc, error) {
	var fromFile map[string]string
	if envFile != "" {
		var err error
		if fromFile, err = godotenv.Read(envFile); err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
	}
	return func(name string) (string, bool) {
		key := EnvPrefix + name
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fromFile[key]
		return v, ok
	}, nil
}

func applyEnv(cfg *app.Config, lookup lookupFunc) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if v, ok := lookup(name); ok {
			*dst = splitList(v)
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	flag := func(name string, dst *bool) {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	list("MODELS", &cfg.ModelPaths)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	num("CACHE_SIZE", &cfg.CacheSize)
	list("QUERIES", &cfg.Queries)
	num("HEALTHCHECK_PORT", &cfg.HealthcheckPort)
	str("VIEW_URL", &cfg.ViewURL)
	str("VIEW_NAMESPACE", &cfg.ViewNamespace)
	list("VIEW_EVENTS", &cfg.ViewEvents)
	flag("VIEW_INSECURE", &cfg.ViewInsecure)

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// build layers the config file, the environment and the flags that were
// set explicitly, then applies mode and validates the result.
func (o *options) build(cmd *cobra.Command, args []string, mode func(*app.Config)) (*app.Config, error) {
	cfg := app.Config{}

	if o.configFile != "" {
		fc, err := readConfigFile(o.configFile)
		if err != nil {
			return nil, &ExitError{Code: 2, Message: err.Error()}
		}
		fc.apply(&cfg)
	}

	lookup, err := environment(o.envFile)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if flags.Changed("cache-size") {
		cfg.CacheSize = o.cacheSize
	}
	if flags.Changed("query") {
		cfg.Queries = o.queries
	}
	if flags.Changed("healthcheck-port") {
		cfg.HealthcheckPort = o.healthcheckPort
	}
	if flags.Changed("view-url") {
		cfg.ViewURL = o.viewURL
	}
	if flags.Changed("view-namespace") {
		cfg.ViewNamespace = o.viewNamespace
	}
	if flags.Changed("view-events") {
		cfg.ViewEvents = o.viewEvents
	}
	if flags.Changed("view-insecure") {
		cfg.ViewInsecure = o.viewInsecure
	}
	if len(args) > 0 {
		cfg.ModelPaths = args
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	mode(&cfg)

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, nil
}
