package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader reads Sections from a config file, the environment and flags.
// Precedence: changed flags, then environment, then file, then defaults.
type Loader struct {
	name      string
	envPrefix string
	v         *viper.Viper
}

// NewLoader creates a loader for the named application. Environment
// variables use the upper-cased name as prefix, e.g. MASTER_APP_PORT.
func NewLoader(name string) *Loader {
	return &Loader{
		name:      name,
		envPrefix: strings.ToUpper(strings.ReplaceAll(name, "-", "_")),
		v:         viper.New(),
	}
}

// Viper returns the underlying viper instance.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load fills s, whose flags must already be registered on fs and parsed.
// Sections that appear in none of the sources are set to nil.
func (l *Loader) Load(configFile string, s *Sections, fs *pflag.FlagSet) (*Sections, error) {
	// Flags write into the section structs, so changed values are captured
	// before the file overwrites them.
	changed := changedFlags(fs)

	if err := l.readConfig(configFile); err != nil {
		return nil, err
	}
	expandEnvVars(l.v)

	// Flatten overrides written by the expansion into one layer so parent
	// keys unmarshal with every nested value.
	merged := viper.New()
	if err := merged.MergeConfigMap(l.v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	targets := map[string]interface{}{
		KeyApp:        s.App,
		KeyLog:        s.Log,
		KeySwagger:    s.Swagger,
		KeyI18n:       s.I18n,
		KeyDatabase:   s.Database,
		KeyMiddleware: s.Middleware,
		KeyJWT:        s.JWT,
	}

	present := make(map[string]bool, len(targets))
	for key, target := range targets {
		if isNil(target) || !merged.IsSet(key) {
			continue
		}
		present[key] = true
		if err := merged.UnmarshalKey(key, target); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config section %q: %w", key, err)
		}
	}

	if fs != nil {
		if err := l.applyFlagsAndEnv(fs, changed, present); err != nil {
			return nil, err
		}
	}

	if !present[KeyApp] {
		s.App = nil
	}
	if !present[KeyLog] {
		s.Log = nil
	}
	if !present[KeySwagger] {
		s.Swagger = nil
	}
	if !present[KeyI18n] {
		s.I18n = nil
	}
	if !present[KeyDatabase] {
		s.Database = nil
	}
	if !present[KeyMiddleware] {
		s.Middleware = nil
	}
	if !present[KeyJWT] {
		s.JWT = nil
	}
	return s, nil
}

func (l *Loader) readConfig(configFile string) error {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(l.name)
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("./configs")
		l.v.AddConfigPath(filepath.Join(os.Getenv("HOME"), "."+l.name))
		l.v.AddConfigPath("/etc/" + l.name)
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, continue without it
	}
	return nil
}

// flagValue is a changed flag's value as parsed from the command line.
type flagValue struct {
	value string
	slice []string
}

func changedFlags(fs *pflag.FlagSet) map[string]flagValue {
	changed := make(map[string]flagValue)
	if fs == nil {
		return changed
	}
	fs.Visit(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			changed[f.Name] = flagValue{slice: append([]string(nil), sv.GetSlice()...)}
			return
		}
		changed[f.Name] = flagValue{value: f.Value.String()}
	})
	return changed
}

// applyFlagsAndEnv re-applies the changed flag snapshot over file values
// and sets unchanged flags from the environment. Either marks the section
// present.
func (l *Loader) applyFlagsAndEnv(fs *pflag.FlagSet, changed map[string]flagValue, present map[string]bool) error {
	var fromEnv []*pflag.Flag
	fs.VisitAll(func(f *pflag.Flag) {
		if _, ok := changed[f.Name]; !ok {
			fromEnv = append(fromEnv, f)
		}
	})

	for _, f := range fromEnv {
		val, ok := os.LookupEnv(l.envKey(f.Name))
		if !ok {
			continue
		}
		if err := fs.Set(f.Name, val); err != nil {
			return fmt.Errorf("invalid value for %s: %w", l.envKey(f.Name), err)
		}
		present[sectionOf(f.Name)] = true
	}

	for name, val := range changed {
		var err error
		if sv, ok := fs.Lookup(name).Value.(pflag.SliceValue); ok {
			err = sv.Replace(val.slice)
		} else {
			err = fs.Set(name, val.value)
		}
		if err != nil {
			return fmt.Errorf("failed to re-apply flag %s: %w", name, err)
		}
		present[sectionOf(name)] = true
	}
	return nil
}

func (l *Loader) envKey(flagName string) string {
	key := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(flagName))
	return l.envPrefix + "_" + key
}

func sectionOf(flagName string) string {
	section, _, _ := strings.Cut(flagName, ".")
	return section
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands ${VAR} and $VAR references in string and string
// list config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		switch val := v.Get(key).(type) {
		case string:
			if expanded := expandString(val); expanded != val {
				v.Set(key, expanded)
			}
		case []interface{}:
			changed := false
			out := make([]interface{}, len(val))
			for i, item := range val {
				out[i] = item
				if str, ok := item.(string); ok {
					if expanded := expandString(str); expanded != str {
						out[i] = expanded
						changed = true
					}
				}
			}
			if changed {
				v.Set(key, out)
			}
		}
	}
}

func expandString(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}
		if envVal := os.Getenv(varName); envVal != "" {
			return envVal
		}
		return match
	})
}
