package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/weft/config"
	"github.com/dhamidi/weft/lang/codebase"
	"github.com/dhamidi/weft/lang/parser"
	"github.com/dhamidi/weft/lang/syntax"
)

// app carries the global flags and the loaded configuration to every
// subcommand.
type app struct {
	configPath string
	verbose    int
	noColor    bool

	cfg *config.Config
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var logPath *string
	if cfg.Log.File != "" {
		logPath = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity+a.verbose, logPath)

	if a.noColor {
		color.NoColor = true
	}
	return nil
}

func (a *app) parserOptions() []parser.Option {
	return []parser.Option{parser.WithFuel(a.cfg.Parser.Fuel)}
}

func (a *app) codebaseOptions() []codebase.Option {
	return []codebase.Option{
		codebase.WithCacheSize(a.cfg.Codebase.CacheSize),
		codebase.WithWorkers(a.cfg.Codebase.Workers),
		codebase.WithParserOptions(a.parserOptions()...),
	}
}

func (a *app) diagnosticStyle() parser.Style {
	return parser.Style{
		Location: color.New(color.Bold).SprintFunc(),
		Label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		Caret:    color.New(color.FgGreen, color.Bold).SprintFunc(),
	}
}

// readSource reads a named file, or standard input for "-".
func readSource(in io.Reader, name string) (syntax.Source, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(in)
		name = "<stdin>"
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return syntax.Source{}, fmt.Errorf("read %s: %w", name, err)
	}
	return syntax.Source{Name: name, Text: data}, nil
}

// expandPaths replaces directories by the source files below them. "-" is
// kept for readSource.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if arg == "-" {
			paths = append(paths, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := codebase.SourceFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
		paths = append(paths, files...)
	}
	return paths, nil
}
