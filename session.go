package main

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/MiniPascal/lib/logger"
	"github.com/vyPal/MiniPascal/lib/project"
	"go.uber.org/zap"
)

var sessionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "The path to the config file. Defaults to ./" + project.ConfigFile,
	},
	&cli.StringFlag{
		Name:    "input-str",
		Aliases: []string{"s"},
		Usage:   "Check a string instead of a file",
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "Override the configured log level (debug, info, warn, error)",
	},
}

// session holds what every command that reads a program needs: the
// resolved config and a logger built from it.
type session struct {
	conf project.MpConf
	log  *zap.Logger
}

func newSession(c *cli.Context) (*session, error) {
	var conf project.MpConf
	var err error
	if path := c.String("config"); path != "" {
		conf, err = project.LoadFile(path)
	} else {
		conf, err = project.GetMpConf(".")
	}
	if err != nil {
		return nil, err
	}

	if level := c.String("log-level"); level != "" {
		conf.Log.Level = level
		if err := conf.Log.Validate(); err != nil {
			return nil, err
		}
	}
	if err := conf.CheckRequires(version); err != nil {
		return nil, err
	}
	if !conf.Diagnostics.Color {
		color.NoColor = true
	}

	log, err := logger.New(conf.Log)
	if err != nil {
		return nil, err
	}
	return &session{conf: conf, log: log}, nil
}

// open returns the program source named on the command line, the one given
// with --input-str, or the project's main file, in that order of preference.
func (s *session) open(c *cli.Context) (string, io.ReadCloser, error) {
	if c.IsSet("input-str") {
		return "<input>", io.NopCloser(strings.NewReader(c.String("input-str"))), nil
	}

	filename := c.Args().First()
	if filename == "" {
		filename = s.conf.MainPath(".")
		if _, err := os.Stat(filename); err != nil {
			return "", nil, errors.New("no file specified")
		}
	}

	file, err := os.Open(filename)
	if err != nil {
		return "", nil, errors.Wrapf(err, "opening source %s", filename)
	}
	return filename, file, nil
}

func exitError(err error) error {
	return cli.Exit(color.RedString("Error: %s", err), 1)
}
