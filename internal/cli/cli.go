// Package cli implements the blockgraph command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blockgraph/internal/di"
	"github.com/goliatone/go-blockgraph/internal/graph"
	"github.com/goliatone/go-blockgraph/internal/logging"
	"github.com/goliatone/go-blockgraph/internal/logging/console"
	"github.com/goliatone/go-blockgraph/internal/runtimeconfig"
	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

const appName = "blockgraph"

// Version is set at build time.
var Version = "dev"

// CLI holds the global flag values shared by every command.
type CLI struct {
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string
}

// New returns a CLI whose diagnostics go to stderr.
func New(stderr io.Writer) *CLI {
	if stderr == nil {
		stderr = os.Stderr
	}
	return &CLI{stderr: stderr}
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Convert content graph snapshots into typed block trees",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	flags.StringVar(&c.logFormat, "log-format", "", "structured log format (json|console|pretty); selects the go-logger provider")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.tocCommand())
	root.AddCommand(c.validateCommand())
	return root
}

// config loads the file named by --config over the defaults and applies
// the logging flags.
func (c *CLI) config() (runtimeconfig.Config, error) {
	cfg := runtimeconfig.DefaultConfig()
	if path := strings.TrimSpace(c.configPath); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if cfg, err = runtimeconfig.Load(f); err != nil {
			return cfg, err
		}
	}
	if level := strings.TrimSpace(c.logLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(c.logFormat); format != "" {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = format
	}
	return cfg, cfg.Validate()
}

// session is the per-invocation wiring: validated config, decoded snapshot
// and the container built over them.
type session struct {
	cfg       runtimeconfig.Config
	snapshot  *graph.Snapshot
	container *di.Container
	logger    interfaces.Logger
}

func (c *CLI) open(snapshotPath string) (*session, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	snap, err := graph.DecodeSnapshot(f, graph.DecodeOptions{ValidateSchema: cfg.Snapshot.ValidateSchema})
	if err != nil {
		return nil, err
	}

	opts := []di.Option{di.WithDirectory(snap.Users)}
	if cfg.Logging.Provider == "console" {
		level, err := console.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
		opts = append(opts, di.WithLoggerProvider(console.NewProvider(console.Options{
			Writer: c.stderr,
			Level:  level,
		})))
	}
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}

	logger := logging.CLILogger(container.LoggerProvider())
	logger.Debug("snapshot.loaded", "path", snapshotPath, "nodes", len(snap.Graph), "users", len(snap.Users))
	return &session{cfg: cfg, snapshot: snap, container: container, logger: logger}, nil
}
