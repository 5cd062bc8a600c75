package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/matgraph"
	"github.com/gogpu/matgraph/config"
)

// defaultConfigFile is read from the working directory when --config is
// not given.
const defaultConfigFile = "matgraph.yaml"

const matgraphcVersion = "0.1.0-dev"

// app is the state shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "matgraphc",
		Short: "Compile material graphs to HLSL pixel shaders",
		Long: "matgraphc compiles material node graphs (YAML or JSON documents) to\n" +
			"HLSL pixel shader source and a resource manifest.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "project file (default: ./"+defaultConfigFile+" when present)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newCompileCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
		newFormatCmd(a),
		newNodesCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads the project file and builds the logger. Flags override the
// file.
func (a *app) setup() error {
	cfg := config.Default()
	path := a.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = cfg.Logger(a.stderr)
	return nil
}

// compileOptions returns pipeline options for the loaded configuration.
// The slot hints are shared by every graph compiled in one invocation.
func (a *app) compileOptions() (*matgraph.CompileOptions, error) {
	hopts, err := a.cfg.HLSLOptions()
	if err != nil {
		return nil, err
	}
	return &matgraph.CompileOptions{HLSL: hopts, Logger: a.log}, nil
}

// jobs returns flag when positive, else the configured default.
func (a *app) jobs(flag int) int {
	if flag > 0 {
		return flag
	}
	if a.cfg.Compile.Jobs > 0 {
		return a.cfg.Compile.Jobs
	}
	return 1
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the matgraphc version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := io.WriteString(a.stdout, "matgraphc version "+matgraphcVersion+"\n")
			return err
		},
	}
}
