package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/chronograph-db/chronograph/cmd/chronograph/internal/tui"
	"github.com/chronograph-db/chronograph/internal/engine"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
)

func newNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "create, update, expire, and inspect nodes",
	}
	cmd.AddCommand(
		newNodeAddCmd(),
		newNodeAddFormCmd(),
		newNodeShowCmd(),
		newNodeUpdateCmd(),
		newNodeExpireCmd(),
		newNodeHistoryCmd(),
	)
	return cmd
}

func newNodeAddCmd() *cobra.Command {
	var typ, class string
	var components []string
	var at string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "create a node at version 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := resolveAt(at)
			if err != nil {
				return err
			}
			comps, err := parseLocators(components)
			if err != nil {
				return err
			}
			n, err := app.Node.Add(rootCtx, typ, payload.Data{Class: class, Attrs: map[string]any{}}, comps, ts)
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), n.Locator, tui.OKStyle.Render("created node"))
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "node type")
	cmd.Flags().StringVar(&class, "class", "", "payload class")
	cmd.Flags().StringSliceVar(&components, "component", nil, "component locator (id@version), repeatable")
	cmd.Flags().StringVar(&at, "at", "", "effective instant (RFC3339 or natural language, default now)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// newNodeAddFormCmd offers an interactive huh form for node creation,
// grounded on the teacher's cmd/bd/create_form.go.
func newNodeAddFormCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-form",
		Short: "create a node using an interactive form",
		RunE: func(cmd *cobra.Command, args []string) error {
			var typ, class, componentsInput string
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Type").Description("Node type").Value(&typ).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("type is required")
						}
						return nil
					}),
				huh.NewInput().Title("Payload class").Value(&class),
				huh.NewInput().Title("Components").Description("Comma-separated id@version locators (optional)").Value(&componentsInput),
			)).WithTheme(huh.ThemeDracula())

			if err := form.Run(); err != nil {
				if err == huh.ErrUserAborted {
					fmt.Fprintln(cmd.OutOrStdout(), "cancelled.")
					return nil
				}
				return err
			}

			var compStrs []string
			for _, c := range strings.Split(componentsInput, ",") {
				if c = strings.TrimSpace(c); c != "" {
					compStrs = append(compStrs, c)
				}
			}
			comps, err := parseLocators(compStrs)
			if err != nil {
				return err
			}
			n, err := app.Node.Add(rootCtx, typ, payload.Data{Class: class, Attrs: map[string]any{}}, comps, time.Now())
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), n.Locator, tui.OKStyle.Render("created node"))
		},
	}
}

func newNodeShowCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "show a node's active (or as-of) version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ids.Id(args[0])
			var (
				found bool
				err   error
			)
			if at != "" {
				ts, perr := resolveAt(at)
				if perr != nil {
					return perr
				}
				node, f, e := app.Node.FindAt(rootCtx, id, ts)
				found, err = f, e
				if err == nil && found {
					return printJSONOrLine(cmd.OutOrStdout(), node)
				}
			} else {
				node, f, e := app.Node.FindActive(rootCtx, id)
				found, err = f, e
				if err == nil && found {
					return printJSONOrLine(cmd.OutOrStdout(), node)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.WarnStyle.Render("no active version found"))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "show the version active at this instant instead of the current one")
	return cmd
}

func newNodeUpdateCmd() *cobra.Command {
	var typ, class string
	var setComponents []string
	var clearComponents bool
	var at string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "create a superseding version, cascading to incident edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := resolveAt(at)
			if err != nil {
				return err
			}
			upd := engine.NodeUpdate{}
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
			n, err := app.Node.Update(rootCtx, ids.Id(args[0]), upd, ts)
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), n.Locator, tui.OKStyle.Render("updated node"))
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "new type (unset keeps current)")
	cmd.Flags().StringVar(&class, "class", "", "new payload class (unset keeps current)")
	cmd.Flags().StringSliceVar(&setComponents, "component", nil, "replacement component locator, repeatable")
	cmd.Flags().BoolVar(&clearComponents, "clear-components", false, "remove all component memberships")
	cmd.Flags().StringVar(&at, "at", "", "effective instant (default now)")
	return cmd
}

func newNodeExpireCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "expire <id>",
		Short: "expire a node and every actively-incident edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := resolveAt(at)
			if err != nil {
				return err
			}
			n, err := app.Node.Expire(rootCtx, ids.Id(args[0]), ts)
			if err != nil {
				return err
			}
			return printEntity(cmd.OutOrStdout(), n.Locator, tui.WarnStyle.Render("expired node"))
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "effective instant (default now)")
	return cmd
}

func newNodeHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "list every version of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := app.Node.FindAllVersions(rootCtx, ids.Id(args[0]))
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
