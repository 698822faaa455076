package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"personnel/internal/client/view"
	"personnel/internal/shared/models"
)

// printedColumns drops the Actions column, which only the interactive screen uses.
const printedColumns = 6

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newListCmd(cc *cliContext) *cobra.Command {
	var mode, output string
	c := &cobra.Command{
		Use:   "list",
		Short: "List personnel records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sort, ok := models.ParseSortMode(mode)
			if !ok {
				return fmt.Errorf("invalid --mode %q: use ascend or descend", mode)
			}
			people, err := cc.client.List(cmd.Context(), sort)
			if err != nil {
				return err
			}
			return writePeople(cmd.OutOrStdout(), output, people, cc)
		},
	}
	c.Flags().StringVar(&mode, "mode", string(models.SortAscend), "Order by creation time: ascend or descend")
	c.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return c
}

func newGetCmd(cc *cliContext) *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "get ID",
		Short: "Show one personnel record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cc.client.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("personnel with id %s: empty response", args[0])
			}
			return writePeople(cmd.OutOrStdout(), output, []models.Person{*p}, cc)
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return c
}

func newAddCmd(cc *cliContext) *cobra.Command {
	var in models.PersonInput
	var hobby string
	c := &cobra.Command{
		Use:   "add",
		Short: "Create a personnel record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Hobby = models.OptionalString(hobby)
			p, err := cc.client.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			name := in.Name
			if p != nil {
				name = p.Name
			}
			fmt.Fprintf(cmd.OutOrStdout(), "personnel [%s] created successfully\n", name)
			return nil
		},
	}
	c.Flags().StringVar(&in.ID, "id", "", "13-digit record id")
	c.Flags().StringVar(&in.Name, "name", "", "Name, up to 8 characters")
	c.Flags().StringVar(&in.Tel, "tel", "", "11-digit phone number starting with 1")
	c.Flags().StringVar(&in.Email, "email", "", "Email address")
	c.Flags().StringVar(&hobby, "hobby", "", "Optional hobby")
	for _, name := range []string{"id", "name", "tel", "email"} {
		_ = c.MarkFlagRequired(name)
	}
	return c
}

func newUpdateCmd(cc *cliContext) *cobra.Command {
	var id, name, tel, email, hobby string
	var clearHobby bool
	c := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a personnel record",
		Long:  "Change fields of a personnel record. Only the flags given are sent; --id renames the record.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch models.PersonPatch
			if flags.Changed("id") {
				patch.ID = &id
			}
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("tel") {
				patch.Tel = &tel
			}
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("hobby") {
				patch.Hobby = &hobby
			}
			patch.ClearHobby = clearHobby
			if patch.Hobby != nil && patch.ClearHobby {
				return errors.New("--hobby and --clear-hobby are mutually exclusive")
			}
			if patch.Empty() {
				return errors.New("nothing to update: pass at least one of --id, --name, --tel, --email, --hobby, --clear-hobby")
			}
			p, err := cc.client.Patch(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			label := args[0]
			if p != nil {
				label = p.Name
			}
			fmt.Fprintf(cmd.OutOrStdout(), "personnel [%s] updated successfully\n", label)
			return nil
		},
	}
	c.Flags().StringVar(&id, "id", "", "New record id")
	c.Flags().StringVar(&name, "name", "", "New name")
	c.Flags().StringVar(&tel, "tel", "", "New phone number")
	c.Flags().StringVar(&email, "email", "", "New email address")
	c.Flags().StringVar(&hobby, "hobby", "", "New hobby")
	c.Flags().BoolVar(&clearHobby, "clear-hobby", false, "Remove the hobby")
	return c
}

func newDeleteCmd(cc *cliContext) *cobra.Command {
	var yes bool
	c := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a personnel record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Delete personnel [%s]? [y/N] ", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
			}
			if err := cc.client.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "personnel [%s] deleted successfully\n", id)
			return nil
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return c
}

// confirm asks on the command's input. A non-interactive stdin is refused
// so scripts cannot delete by piping arbitrary text.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false, errors.New("stdin is not a terminal: pass --yes to delete without confirmation")
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func writePeople(w io.Writer, format string, people []models.Person, cc *cliContext) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(models.PersonList{Items: people, Count: len(people)})
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(models.PersonList{Items: people, Count: len(people)}); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
	default:
		return fmt.Errorf("unknown output format %q: use table, json or yaml", format)
	}

	if len(people) == 0 {
		fmt.Fprintln(w, view.PlaceholderEmpty)
		return nil
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(view.Columns[:printedColumns]...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, p := range people {
		t.Row(view.BuildRow(p, cc.loc)[:printedColumns]...)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "count: %d\n", len(people))
	return nil
}
