package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dwcexport/internal/dwca"
)

type fieldJSON struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Term  string `json:"term"`
	Group string `json:"group"`
}

func newFieldsCommand(ctx *commandContext) *cobra.Command {
	var variantFlag string

	cmd := &cobra.Command{
		Use:         "fields",
		Short:       "List the columns a table can carry",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := dwca.ParseVariant(variantFlag)
			if err != nil {
				return err
			}
			catalog := variant.Catalog()
			list := catalog.Fields()

			if ctx.JSONMode() {
				out := make([]fieldJSON, 0, len(list))
				for _, f := range list {
					out = append(out, fieldJSON{ID: f.ID, Name: f.Name, Term: f.Term, Group: f.Group.String()})
				}
				return writeJSON(cmd, out)
			}

			rows := make([][]string, 0, len(list))
			for _, f := range list {
				rows = append(rows, []string{strconv.Itoa(f.ID), f.Name, f.Group.String(), f.Term})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s core: %d fields\n", catalog.Name(), catalog.Len())
			fmt.Fprint(out, renderTable(
				[]string{"ID", "Name", "Group", "Term"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&variantFlag, "variant", "occurrence", "Archive variant (occurrence or event)")
	return cmd
}
