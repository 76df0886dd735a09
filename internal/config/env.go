package config

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable histctl reads.
const EnvPrefix = "HISTCTL_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envSetter applies one environment value to a Config.
type envSetter func(c *Config, value string) error

// envMapping maps environment variables to the settings they override.
var envMapping = map[string]envSetter{
	EnvPrefix + "HISTORY_MAX_ENTRIES": func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		c.History.MaxEntries = n
		return err
	},
	EnvPrefix + "LOG_LEVEL": func(c *Config, v string) error {
		c.Logging.Level = v
		return nil
	},
	EnvPrefix + "LOG_FILE": func(c *Config, v string) error {
		c.Logging.File = v
		return nil
	},
	EnvPrefix + "LOG_JOURNAL": func(c *Config, v string) error {
		return setBool(&c.Logging.Journal, v)
	},
	EnvPrefix + "TRACING_ENABLED": func(c *Config, v string) error {
		return setBool(&c.Tracing.Enabled, v)
	},
	EnvPrefix + "TRACING_STDOUT": func(c *Config, v string) error {
		return setBool(&c.Tracing.Stdout, v)
	},
	EnvPrefix + "TRACING_FILE": func(c *Config, v string) error {
		c.Tracing.File = v
		return nil
	},
	EnvPrefix + "TRACING_SERVICE_NAME": func(c *Config, v string) error {
		c.Tracing.ServiceName = v
		return nil
	},
	EnvPrefix + "DEMO_START": func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		c.Demo.Start = n
		return err
	},
	EnvPrefix + "DEMO_STEP": func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		c.Demo.Step = n
		return err
	},
}

// EnvVars returns the recognized environment variable names, sorted.
func EnvVars() []string {
	names := make([]string, 0, len(envMapping))
	for name := range envMapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyEnv overrides settings from the environment. Empty values are
// treated as set. A value that fails to parse leaves the setting unchanged.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	var errs []error
	for _, name := range EnvVars() {
		val, ok := lookup(name)
		if !ok {
			continue
		}
		next := *c
		if err := envMapping[name](&next, val); err != nil {
			errs = append(errs, &EnvError{Var: name, Value: val, Err: err})
			continue
		}
		*c = next
	}
	return errors.Join(errs...)
}

// setBool parses the boolean spellings accepted in the environment.
func setBool(dst *bool, s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0", "":
		*dst = false
	default:
		return errors.New("not a boolean")
	}
	return nil
}
