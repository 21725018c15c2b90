package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chronograph-db/chronograph/cmd/chronograph/internal/tui"
	"github.com/chronograph-db/chronograph/internal/engine"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
)

func newEdgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "create, update, expire, and inspect edges",
	}
	cmd.AddCommand(newEdgeAddCmd(), newEdgeShowCmd(), newEdgeUpdateCmd(), newEdgeExpireCmd(), newEdgeHistoryCmd())
	return cmd
}

func newEdgeAddCmd() *cobra.Command {
	var typ, class, source, target string
	var components []string
	var at string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "create an edge at version 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := resolveAt(at)
			if err != nil {
				return err
			}
			srcLoc, err := ids.ParseLocator(source)
			if err != nil {
				return err
			}
			tgtLoc, err := ids.ParseLocator(target)
			if err != nil {
				return err
			}
			comps, err := parseLocators(components)
			if err != nil {
				return err
			}
			e, err := app.Edge.Add(rootCtx, typ, srcLoc, tgtLoc, payload.Data{Class: class, Attrs: map[string]any{}}, comps, ts)
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), e.Locator, tui.OKStyle.Render("created edge"))
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "edge type")
	cmd.Flags().StringVar(&class, "class", "", "payload class")
	cmd.Flags().StringVar(&source, "source", "", "source node locator (id@version)")
	cmd.Flags().StringVar(&target, "target", "", "target node locator (id@version)")
	cmd.Flags().StringSliceVar(&components, "component", nil, "component locator, repeatable")
	cmd.Flags().StringVar(&at, "at", "", "effective instant (default now)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newEdgeShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "show an edge's active version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, found, err := app.Edge.FindActive(rootCtx, ids.Id(args[0]))
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), tui.WarnStyle.Render("no active version found"))
				return nil
			}
			return printJSONOrLine(cmd.OutOrStdout(), e)
		},
	}
	return cmd
}

func newEdgeUpdateCmd() *cobra.Command {
	var typ, class string
	var setComponents []string
	var clearComponents bool
	var at string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "create a superseding edge version (endpoints unchanged)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := resolveAt(at)
			if err != nil {
				return err
			}
			upd := engine.EdgeUpdate{}
			if typ != "" {
				upd.Type = &typ
			}
			if class != "" {
				d := payload.Data{Class: class, Attrs: map[string]any{}}
				upd.Data = &d
			}
			if clearComponents {
				empty := []ids.Locator{}
				upd.Components = &empty
			} else if len(setComponents) > 0 {
				comps, perr := parseLocators(setComponents)
				if perr != nil {
					return perr
				}
				upd.Components = &comps
			}
			e, err := app.Edge.Update(rootCtx, ids.Id(args[0]), upd, ts)
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), e.Locator, tui.OKStyle.Render("updated edge"))
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "new type (unset keeps current)")
	cmd.Flags().StringVar(&class, "class", "", "new payload class (unset keeps current)")
	cmd.Flags().StringSliceVar(&setComponents, "component", nil, "replacement component locator, repeatable")
	cmd.Flags().BoolVar(&clearComponents, "clear-components", false, "remove all component memberships")
	cmd.Flags().StringVar(&at, "at", "", "effective instant (default now)")
	return cmd
}

func newEdgeExpireCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "expire <id>",
		Short: "expire an edge (no cascade)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := resolveAt(at)
			if err != nil {
				return err
			}
			e, err := app.Edge.Expire(rootCtx, ids.Id(args[0]), ts)
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), e.Locator, tui.WarnStyle.Render("expired edge"))
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "effective instant (default now)")
	return cmd
}

func newEdgeHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "list every version of an edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := app.Edge.FindAllVersions(rootCtx, ids.Id(args[0]))
			if err != nil {
				return err
			}
			if jsonOutput {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(versions)
			}
			rows := make([][]string, 0, len(versions))
			for _, v := range versions {
				expired := "-"
				if v.HasExpired() {
					expired = v.Expired.Format(time.RFC3339)
				}
				rows = append(rows, []string{fmt.Sprint(v.Locator.Version), v.Type, v.Source.ID.String(), v.Target.ID.String(), expired})
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.Table([]string{"version", "type", "source", "target", "expired"}, rows))
			return nil
		},
	}
}
