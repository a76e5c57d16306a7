package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/MiniPascal/lib/project"
	"github.com/vyPal/MiniPascal/util"
)

const sampleProgram = `program hello;
{ Sum the numbers from 1 to n. }
const n = 10;
var i, sum;
begin
  i := 1;
  sum := 0;
  while i <= n do
  begin
    sum := sum + i;
    i := i + 1;
  end;
  write(sum);
end.
`

func init() {
	commands = append(commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize a new MiniPascal project",
		Category:  "project",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "The name of the project",
			},
			&cli.StringFlag{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "The version of the project",
			},
			&cli.StringFlag{
				Name:    "main",
				Aliases: []string{"m"},
				Usage:   "The main file of the project",
			},
			&cli.StringFlag{
				Name:    "author",
				Aliases: []string{"a"},
				Usage:   "The author of the project",
			},
			&cli.StringFlag{
				Name:    "license",
				Aliases: []string{"l"},
				Usage:   "The license of the project",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Accept defaults without prompting",
			},
		},
		Action: initProject,
	})
}

func initProject(c *cli.Context) error {
	w := c.App.Writer
	rootDir := c.Args().First()
	if rootDir == "" {
		rootDir = "."
	}
	yes := c.Bool("yes")

	if files, err := os.ReadDir(rootDir); err == nil {
		if len(files) > 0 && !yes && !util.PromptYN("The directory is not empty, continue?", false) {
			return nil
		}
	} else if os.IsNotExist(err) {
		if err := os.MkdirAll(rootDir, 0755); err != nil {
			return exitError(err)
		}
		fmt.Fprintln(w, "Created directory:", rootDir)
	} else {
		return exitError(err)
	}

	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return exitError(err)
	}

	conf := project.MpConf{}
	conf.CreateDefault(filepath.Base(abs))
	if !yes && !util.PromptYN("Use default configuration?", true) {
		conf.Name = util.PromptString("Project name", conf.Name)
		conf.Description = util.PromptString("Project description", conf.Description)
		conf.Version = util.PromptString("Project version", conf.Version)
		conf.Main = util.PromptString("Main file", conf.Main)
		conf.Author = util.PromptString("Author", conf.Author)
		conf.License = util.PromptString("License", conf.License)
	}
	for flag, dst := range map[string]*string{
		"name":    &conf.Name,
		"version": &conf.Version,
		"main":    &conf.Main,
		"author":  &conf.Author,
		"license": &conf.License,
	} {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	if err := conf.Validate(); err != nil {
		return exitError(err)
	}

	srcDir := filepath.Join(rootDir, conf.SourceDir)
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		return exitError(err)
	}

	mainPath := conf.MainPath(rootDir)
	if _, err := os.Stat(mainPath); os.IsNotExist(err) {
		if err := os.WriteFile(mainPath, []byte(sampleProgram), 0644); err != nil {
			return exitError(err)
		}
		fmt.Fprintln(w, "Created file:", mainPath)
	}

	confPath := filepath.Join(rootDir, project.ConfigFile)
	if err := conf.Save(confPath, yes); err != nil {
		return exitError(err)
	}
	fmt.Fprintln(w, "Created file:", confPath)

	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, color.GreenString("Project initialized successfully!"))
	fmt.Fprintln(w, "Run 'cd", rootDir, "&& minipascal check' to check the program.")
	fmt.Fprintln(w, "----------------------------------------")
	return nil
}
