package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-blockgraph/internal/commands"
	"github.com/goliatone/go-blockgraph/internal/logging"
	"github.com/goliatone/go-blockgraph/internal/output"
)

type buildOptions struct {
	snapshot string
	root     string
	format   string
	query    string
}

func (c *CLI) buildCommand() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Convert one page of a snapshot",
		Example: `  blockgraph build --snapshot export.json --root 4a1f0c2e-9b7d-4c55-8f4e-1d2c3b4a5f60
  blockgraph build --snapshot export.json --root <id> --format markdown
  blockgraph build --snapshot export.json --root <id> --query '.headings[].slug'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.render(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "snapshot JSON file (required)")
	cmd.Flags().StringVar(&opts.root, "root", "", "root page id (required)")
	cmd.Flags().StringVar(&opts.format, "format", string(output.FormatJSON), "output format (json|ndjson|markdown|html|toc)")
	cmd.Flags().StringVar(&opts.query, "query", "", "jq expression applied to json or ndjson output")
	_ = cmd.MarkFlagRequired("snapshot")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

func (c *CLI) tocCommand() *cobra.Command {
	opts := &buildOptions{format: string(output.FormatTOC)}
	cmd := &cobra.Command{
		Use:   "toc",
		Short: "Print the table of contents of one page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.render(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "snapshot JSON file (required)")
	cmd.Flags().StringVar(&opts.root, "root", "", "root page id (required)")
	_ = cmd.MarkFlagRequired("snapshot")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

func (c *CLI) render(cmd *cobra.Command, opts *buildOptions) error {
	s, err := c.open(opts.snapshot)
	if err != nil {
		return err
	}

	printer, err := output.NewPrinter(
		output.WithExporter(s.container.Exporter()),
		output.WithRenderer(s.container.Renderer()),
		output.WithQuery(opts.query),
	)
	if err != nil {
		return err
	}

	handler := commands.NewRenderDocumentHandler(
		commands.GraphSource(s.container.Documents(), s.snapshot.Graph),
		printer,
		logging.CommandsLogger(s.container.LoggerProvider()),
	)
	return handler.Execute(cmd.Context(), commands.RenderDocumentCommand{
		RootID: opts.root,
		Format: opts.format,
		Output: cmd.OutOrStdout(),
	})
}
