package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chronograph-db/chronograph/cmd/chronograph/internal/tui"
	"github.com/chronograph-db/chronograph/internal/graphview"
	"github.com/chronograph-db/chronograph/internal/ids"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "read-only traversal queries over the active graph",
	}
	cmd.AddCommand(
		newGraphHasPathCmd(),
		newGraphShortestPathCmd(),
		newGraphAllPathsCmd(),
		newGraphAllConnectedPathsCmd(),
		newGraphNeighborsCmd(),
	)
	return cmd
}

func newGraphHasPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "has-path <a> <b>",
		Short: "report whether any active-edge path connects a and b",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.Graph.HasPath(rootCtx, ids.Id(args[0]), ids.Id(args[1]))
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSONOrLine(cmd.OutOrStdout(), map[string]bool{"connected": ok})
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), tui.OKStyle.Render("connected"))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), tui.FailStyle.Render("no path"))
			}
			return nil
		},
	}
}

func newGraphShortestPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shortest-path <a> <b>",
		Short: "print the shortest active-edge path from a to b",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.Graph.ShortestPath(rootCtx, ids.Id(args[0]), ids.Id(args[1]))
			if err != nil {
				return err
			}
			return printPath(cmd.OutOrStdout(), path)
		},
	}
}

func newGraphAllPathsCmd() *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "all-paths <a> <b>",
		Short: "enumerate every simple path from a to b",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := app.Graph.AllPaths(rootCtx, ids.Id(args[0]), ids.Id(args[1]), maxDepth)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), tui.FailStyle.Render("no path"))
				return nil
			}
			for i, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", tui.MutedStyle.Render(fmt.Sprintf("path %d:", i+1)))
				if err := printPath(cmd.OutOrStdout(), p); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum edge count to search (0 uses the default)")
	return cmd
}

func newGraphAllConnectedPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all-connected-paths",
		Short: "shortest path for every unordered pair of active nodes that has one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := app.Graph.AllConnectedPaths(rootCtx)
			if err != nil {
				return err
			}
			if jsonOutput {
				type pair struct {
					A    string         `json:"a"`
					B    string         `json:"b"`
					Path graphview.Path `json:"path"`
				}
				out := make([]pair, 0, len(all))
				for k, p := range all {
					out = append(out, pair{A: k[0].String(), B: k[1].String(), Path: p})
				}
				return printJSONOrLine(cmd.OutOrStdout(), out)
			}
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), tui.FailStyle.Render("no connected pairs"))
				return nil
			}
			for k, p := range all {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", tui.MutedStyle.Render(k[0].String()+" <-> "+k[1].String()+":"))
				if err := printPath(cmd.OutOrStdout(), p); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newGraphNeighborsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "neighbors <id>",
		Short: "list distinct active node ids adjacent to id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			neighbors, err := app.Graph.Neighbors(rootCtx, ids.Id(args[0]))
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSONOrLine(cmd.OutOrStdout(), neighbors)
			}
			for _, n := range neighbors {
				fmt.Fprintln(cmd.OutOrStdout(), n.String())
			}
			return nil
		},
	}
}

func printPath(w io.Writer, path graphview.Path) error {
	if jsonOutput {
		return printJSONOrLine(w, path)
	}
	for _, elem := range path {
		if elem.Node != nil {
			fmt.Fprintln(w, tui.AccentStyle.Render(elem.Node.Locator.ID.String()))
		}
		if elem.Edge != nil {
			fmt.Fprintln(w, tui.MutedStyle.Render("  --[" + elem.Edge.Type + "]-->"))
		}
	}
	return nil
}
