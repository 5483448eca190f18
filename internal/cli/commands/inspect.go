package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/schemagen/internal/cli/ui"
	"github.com/conduit-lang/schemagen/internal/compiler/attr"
	"github.com/conduit-lang/schemagen/internal/compiler/pipeline"
	"github.com/conduit-lang/schemagen/internal/compiler/typegraph"
)

// NewInspectCommand creates the inspect command, which lists the generated
// declarations and the attributes attached to them
func NewInspectCommand(global *globalFlags) *cobra.Command {
	gen := &generateFlags{}
	var typeName string

	cmd := &cobra.Command{
		Use:   "inspect <schema>",
		Short: "Show the inferred types and their attributes",
		Long: `Build the type graph for a schema and list every generated class and
enum with its attributes, plus every property whose type carries attributes.`,
		Example: `  schemagen inspect player.json
  schemagen inspect player.json --type Player`,
		Args: exactArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, gen)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg, global)
			if err != nil {
				return err
			}
			defer logger.Sync()

			res, err := pipeline.Run(pipelineOptions(args[0], cfg, logger))
			if err != nil {
				return err
			}

			rows := inspectRows(res)
			if typeName != "" {
				rows, err = filterRows(cmd, rows, typeName, global.noColor)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			ui.Header(out, fmt.Sprintf("Types in %s", args[0]), global.noColor)
			opts := res.Extension.Options()
			kv := ui.NewKeyValueTable(out, global.noColor)
			kv.AddRow("Marker key", opts.MarkerKey)
			kv.AddRow("Default key", opts.DefaultKey)
			kv.AddRow("Supertype", opts.Supertype)
			kv.Render()
			fmt.Fprintln(out)
			table := ui.NewTable(out, []string{"NAME", "KIND", "REFERENCE", "ATTRIBUTES"}, global.noColor)
			for _, r := range rows {
				table.AddRow(r.name, r.kind, r.ref, r.attrs)
			}
			table.Render()
			return nil
		},
	}

	addGenerateFlags(cmd, gen)
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Only show this type and its properties")
	return cmd
}

type inspectRow struct {
	owner string
	name  string
	kind  string
	ref   string
	attrs string
}

// inspectRows lists declarations in graph order, each followed by its
// properties that carry attributes
func inspectRows(res *pipeline.Result) []inspectRow {
	var rows []inspectRow
	res.Graph.Walk(func(n *typegraph.Node) {
		name, ok := res.Names[n]
		if !ok {
			return
		}
		rows = append(rows, inspectRow{
			owner: name,
			name:  name,
			kind:  n.Kind.String(),
			ref:   n.Ref,
			attrs: formatAttrs(n.Attrs),
		})
		for _, p := range n.Properties {
			if p.Type.Attrs.Len() == 0 || p.Type.IsNamed() {
				continue
			}
			rows = append(rows, inspectRow{
				owner: name,
				name:  name + "." + p.Name,
				kind:  p.Type.Kind.String(),
				ref:   p.Type.Ref,
				attrs: formatAttrs(p.Type.Attrs),
			})
		}
	})
	return rows
}

func filterRows(cmd *cobra.Command, rows []inspectRow, typeName string, noColor bool) ([]inspectRow, error) {
	var out []inspectRow
	var known []string
	for _, r := range rows {
		if r.owner == r.name {
			known = append(known, r.name)
		}
		if r.owner == typeName {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		fmt.Fprint(cmd.ErrOrStderr(), ui.TypeNotFoundError(typeName, known, noColor))
		return nil, errReported
	}
	return out, nil
}

func formatAttrs(s attr.Set) string {
	entries := s.Entries()
	if len(entries) == 0 {
		return "-"
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Kind + "=" + e.Value
	}
	return strings.Join(parts, ", ")
}
