package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blockgraph/internal/blocktree"
)

func (c *CLI) validateCommand() *cobra.Command {
	var snapshotPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Decode a snapshot and build every page in it",
		Long: `validate decodes the snapshot, checks it against the envelope schema
when snapshot.validate_schema is set, then builds every live node whose type
is a configured container. One line per page is printed with its block and
anomaly counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.open(snapshotPath)
			if err != nil {
				return err
			}

			roots := s.roots()
			docs, err := s.container.Documents().BuildMany(cmd.Context(), s.snapshot.Graph, roots)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nodes=%d users=%d pages=%d\n", len(s.snapshot.Graph), len(s.snapshot.Users), len(docs))
			for _, doc := range docs {
				fmt.Fprintf(out, "%s\t%s\tblocks=%d\tanomalies=%d\n", doc.RootID, doc.Title, blocktree.Count(doc.Blocks), len(doc.Anomalies))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "snapshot JSON file (required)")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

// roots returns the live container nodes sorted by id.
func (s *session) roots() []string {
	var ids []string
	for id, node := range s.snapshot.Graph {
		if node == nil || !node.Alive {
			continue
		}
		if slices.Contains(s.cfg.Builder.ContainerTypes, node.Type) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
