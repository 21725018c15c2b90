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

func newComponentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "component",
		Short: "create, update, expire, and inspect components",
	}
	cmd.AddCommand(
		newComponentAddCmd(),
		newComponentShowCmd(),
		newComponentUpdateCmd(),
		newComponentExpireCmd(),
		newComponentHistoryCmd(),
	)
	return cmd
}

func newComponentAddCmd() *cobra.Command {
	var typ, class string
	var at string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "create a component at version 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := resolveAt(at)
			if err != nil {
				return err
			}
			c, err := app.Component.Add(rootCtx, typ, payload.Data{Class: class, Attrs: map[string]any{}}, ts)
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), c.Locator, tui.OKStyle.Render("created component"))
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "component type")
	cmd.Flags().StringVar(&class, "class", "", "payload class")
	cmd.Flags().StringVar(&at, "at", "", "effective instant (default now)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newComponentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "show a component's active version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, found, err := app.Component.FindActive(rootCtx, ids.Id(args[0]))
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), tui.WarnStyle.Render("no active version found"))
				return nil
			}
			return printJSONOrLine(cmd.OutOrStdout(), c)
		},
	}
}

func newComponentUpdateCmd() *cobra.Command {
	var typ, class string
	var at string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "create a superseding component version, cascading to every referencing node and edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := resolveAt(at)
			if err != nil {
				return err
			}
			upd := engine.ComponentUpdate{}
			if typ != "" {
				upd.Type = &typ
			}
			if class != "" {
				d := payload.Data{Class: class, Attrs: map[string]any{}}
				upd.Data = &d
			}
			c, err := app.Component.Update(rootCtx, ids.Id(args[0]), upd, ts)
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), c.Locator, tui.OKStyle.Render("updated component (cascade applied)"))
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "new type (unset keeps current)")
	cmd.Flags().StringVar(&class, "class", "", "new payload class (unset keeps current)")
	cmd.Flags().StringVar(&at, "at", "", "effective instant (default now)")
	return cmd
}

func newComponentHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "list every version of a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := app.Component.FindAllVersions(rootCtx, ids.Id(args[0]))
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(versions)
			}
			rows := make([][]string, 0, len(versions))
			for _, v := range versions {
				expired := "-"
				if v.HasExpired() {
					expired = v.Expired.Format(time.RFC3339)
				}
				rows = append(rows, []string{fmt.Sprint(v.Locator.Version), v.Type, v.Created.Format(time.RFC3339), expired})
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.Table([]string{"version", "type", "created", "expired"}, rows))
			return nil
		},
	}
}

func newComponentExpireCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "expire <id>",
		Short: "expire a component (no cascade, by design)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := resolveAt(at)
			if err != nil {
				return err
			}
			c, err := app.Component.Expire(rootCtx, ids.Id(args[0]), ts)
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), c.Locator, tui.WarnStyle.Render("expired component"))
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "effective instant (default now)")
	return cmd
}
