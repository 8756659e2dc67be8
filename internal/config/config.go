// Package config holds the settings of the mkparents command, read from
// command line flags and an optional JSON configuration file.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const (
	// DefaultMode is the mode of created directories, before the umask.
	DefaultMode = "0755"
	// DefaultFileMode is the mode of files written with --stdin.
	DefaultFileMode = "0644"
)

// Config is the effective configuration. JSON keys match the flag names.
type Config struct {
	Owner      string           `json:"owner,omitempty"`
	Mode       string           `json:"mode,omitempty"`
	FileMode   string           `json:"file-mode,omitempty"`
	Quiet      bool             `json:"quiet,omitempty"`
	MaxRetries int              `json:"max-retries,omitempty"`
	LogLevel   string           `json:"log-level,omitempty"`
	LogFormat  log.OutputFormat `json:"log-format,omitempty"`
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		Mode:       DefaultMode,
		FileMode:   DefaultFileMode,
		MaxRetries: -1,
		LogLevel:   "info",
		LogFormat:  log.TextFormat,
	}
}

// InstallFlags adds the configuration flags to flags.
func (conf *Config) InstallFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&conf.Owner, "owner", "o", conf.Owner, `Owner of created directories, as "user[:group]"`)
	flags.StringVarP(&conf.Mode, "mode", "m", conf.Mode, "Permission bits of created directories (octal)")
	flags.StringVar(&conf.FileMode, "file-mode", conf.FileMode, "Permission bits of the file written with --stdin (octal)")
	flags.BoolVarP(&conf.Quiet, "quiet", "q", conf.Quiet, "Do not print a message when a directory cannot be created")
	flags.IntVar(&conf.MaxRetries, "max-retries", conf.MaxRetries, "Give up after this many concurrent-creation retries per directory (-1 for no limit)")
	flags.StringVarP(&conf.LogLevel, "log-level", "l", conf.LogLevel, `Set the logging level ("trace"|"debug"|"info"|"warn"|"error"|"fatal"|"panic")`)
	flags.Var(newLogFormatValue(&conf.LogFormat), "log-format", `Set the logging format ("text"|"json")`)
}

// MergeConfigFile reads configFile and applies its values on top of conf.
// A directive that is also set on the command line is a conflict, as is a
// directive that is not a configuration option. A missing file is not an error unless
// required is set.
func MergeConfigFile(conf *Config, flags *pflag.FlagSet, configFile string, required bool) error {
	if configFile == "" {
		return nil
	}
	b, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.Wrap(err, "unable to read configuration file")
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.Wrapf(cerrdefs.ErrInvalidArgument, "unable to parse %s: %v", configFile, err)
	}

	var unknown, conflicts []string
	directives := fileDirectives()
	for key := range raw {
		f := flags.Lookup(key)
		if f == nil || !directives[key] {
			unknown = append(unknown, key)
			continue
		}
		if f.Changed {
			conflicts = append(conflicts, fmt.Sprintf("%s: (from flag: %v, from file: %s)", key, f.Value, raw[key]))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return errors.Wrapf(cerrdefs.ErrInvalidArgument, "the following directives don't match any configuration option: %s", strings.Join(unknown, ", "))
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return errors.Wrapf(cerrdefs.ErrInvalidArgument, "the following directives are specified both as a flag and in the configuration file: %s", strings.Join(conflicts, ", "))
	}

	if err := json.Unmarshal(b, conf); err != nil {
		return errors.Wrapf(cerrdefs.ErrInvalidArgument, "unable to parse %s: %v", configFile, err)
	}
	return nil
}

// fileDirectives returns the keys a configuration file may set. Flags that
// only make sense on the command line, such as --config-file, are not among
// them.
func fileDirectives() map[string]bool {
	t := reflect.TypeFor[Config]()
	keys := make(map[string]bool, t.NumField())
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}

// Validate checks conf for values that cannot be used.
func Validate(conf *Config) error {
	if _, err := ParseMode(conf.Mode); err != nil {
		return err
	}
	if _, err := ParseMode(conf.FileMode); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(conf.LogLevel); err != nil {
		return errors.Wrapf(cerrdefs.ErrInvalidArgument, "invalid log level: %s", conf.LogLevel)
	}
	switch conf.LogFormat {
	case log.TextFormat, log.JSONFormat, "":
	default:
		return errors.Wrapf(cerrdefs.ErrInvalidArgument, "invalid log format: %s", conf.LogFormat)
	}
	return nil
}

// ParseMode parses an octal permission string such as "0755" or "2775".
// The setuid, setgid and sticky bits are translated to their os.FileMode
// counterparts.
func ParseMode(s string) (os.FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil || n > 0o7777 {
		return 0, errors.Wrapf(cerrdefs.ErrInvalidArgument, "invalid mode %q", s)
	}
	mode := os.FileMode(n & 0o777)
	if n&0o4000 != 0 {
		mode |= os.ModeSetuid
	}
	if n&0o2000 != 0 {
		mode |= os.ModeSetgid
	}
	if n&0o1000 != 0 {
		mode |= os.ModeSticky
	}
	return mode, nil
}

type logFormatValue struct {
	format *log.OutputFormat
}

func newLogFormatValue(p *log.OutputFormat) *logFormatValue {
	return &logFormatValue{format: p}
}

func (v *logFormatValue) String() string {
	if v.format == nil {
		return ""
	}
	return string(*v.format)
}

func (v *logFormatValue) Set(s string) error {
	switch f := log.OutputFormat(s); f {
	case log.TextFormat, log.JSONFormat:
		*v.format = f
		return nil
	default:
		return errors.Errorf("invalid log format: %s", s)
	}
}

func (*logFormatValue) Type() string {
	return "string"
}
