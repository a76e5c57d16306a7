package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/vyPal/MiniPascal/lib/logger"
	"github.com/vyPal/MiniPascal/util"
	"gopkg.in/yaml.v3"
)

const (
	ConfigName = "mpconf"
	ConfigFile = ConfigName + ".yaml"
	EnvPrefix  = "MINIPASCAL"
)

type MpConf struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Description string        `yaml:"description" mapstructure:"description"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Main        string        `yaml:"main" mapstructure:"main"`
	SourceDir   string        `yaml:"source" mapstructure:"source"`
	Author      string        `yaml:"author" mapstructure:"author"`
	License     string        `yaml:"license" mapstructure:"license"`
	Requires    string        `yaml:"requires,omitempty" mapstructure:"requires"`
	Log         logger.Config `yaml:"log" mapstructure:"log"`
	Diagnostics Diagnostics   `yaml:"diagnostics" mapstructure:"diagnostics"`
}

type Diagnostics struct {
	Color       bool `yaml:"color" mapstructure:"color"`
	ShowTokens  bool `yaml:"showTokens" mapstructure:"showtokens"`
	ShowSymbols bool `yaml:"showSymbols" mapstructure:"showsymbols"`
	SyntaxOnly  bool `yaml:"syntaxOnly" mapstructure:"syntaxonly"`
}

func (c *MpConf) CreateDefault(name string) {
	if name == "." || name == "" {
		name = "NewProgram"
	}
	c.Name = name
	c.Description = "A new MiniPascal program"
	c.Version = "1.0.0"
	c.Main = "main.pas"
	c.SourceDir = "src"
	c.Author = "Anonymous"
	c.License = "MIT"
	c.Log = logger.DefaultConfig()
	c.Diagnostics = Diagnostics{Color: true}
}

// MainPath is the entry source file of a project rooted at dir.
func (c *MpConf) MainPath(dir string) string {
	return filepath.Join(dir, c.SourceDir, c.Main)
}

func (c *MpConf) Validate() error {
	if c.Version != "" {
		if _, err := util.Parse(c.Version); err != nil {
			return errors.Wrap(err, "config version")
		}
	}
	if c.Requires != "" {
		if _, err := util.Parse(strings.TrimLeft(c.Requires, "~^<>")); err != nil {
			return errors.Wrap(err, "config requires")
		}
	}
	return c.Log.Validate()
}

// CheckRequires reports whether the running compiler version satisfies the
// project's requires constraint.
func (c *MpConf) CheckRequires(version string) error {
	if c.Requires == "" {
		return nil
	}
	current, err := util.Parse(version)
	if err != nil {
		return err
	}
	ok, err := current.Satisfies(c.Requires)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("project requires minipascal %s, running %s", c.Requires, version)
	}
	return nil
}

func (c *MpConf) Save(path string, overwrite bool) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		if !overwrite && !util.PromptYN(path+" already exists. Overwrite?", false) {
			return nil
		}
	}

	yml, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrapf(os.WriteFile(path, yml, 0644), "writing %s", path)
}

func newViper(defaults MpConf) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("name", defaults.Name)
	v.SetDefault("description", defaults.Description)
	v.SetDefault("version", defaults.Version)
	v.SetDefault("main", defaults.Main)
	v.SetDefault("source", defaults.SourceDir)
	v.SetDefault("author", defaults.Author)
	v.SetDefault("license", defaults.License)
	v.SetDefault("requires", defaults.Requires)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.maxsize", defaults.Log.MaxSize)
	v.SetDefault("log.maxage", defaults.Log.MaxAge)
	v.SetDefault("log.maxbackups", defaults.Log.MaxBackups)
	v.SetDefault("log.compress", defaults.Log.Compress)
	v.SetDefault("diagnostics.color", defaults.Diagnostics.Color)
	v.SetDefault("diagnostics.showtokens", defaults.Diagnostics.ShowTokens)
	v.SetDefault("diagnostics.showsymbols", defaults.Diagnostics.ShowSymbols)
	v.SetDefault("diagnostics.syntaxonly", defaults.Diagnostics.SyntaxOnly)
	return v
}

func decode(v *viper.Viper) (MpConf, error) {
	var conf MpConf
	if err := v.Unmarshal(&conf); err != nil {
		return MpConf{}, errors.Wrap(err, "decoding config")
	}
	if err := conf.Validate(); err != nil {
		return MpConf{}, err
	}
	return conf, nil
}

// GetMpConf loads mpconf.yaml from dir. A missing file is not an error: the
// defaults, with MINIPASCAL_* environment overrides, are returned instead.
func GetMpConf(dir string) (MpConf, error) {
	var defaults MpConf
	defaults.CreateDefault(filepath.Base(dir))

	v := newViper(defaults)
	v.SetConfigName(ConfigName)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return MpConf{}, errors.Wrapf(err, "reading %s", filepath.Join(dir, ConfigFile))
		}
	}
	return decode(v)
}

// LoadFile loads an explicitly named config file, which must exist.
func LoadFile(path string) (MpConf, error) {
	var defaults MpConf
	defaults.CreateDefault(filepath.Base(filepath.Dir(path)))

	v := newViper(defaults)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return MpConf{}, errors.Wrapf(err, "reading %s", path)
	}
	return decode(v)
}
