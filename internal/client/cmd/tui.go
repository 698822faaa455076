package cmd

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"personnel/internal/client/tui"
	"personnel/internal/client/view"
)

func newTUICmd(cc *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:         "tui",
		Short:       "Open the interactive personnel screen",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{ownsTerminal: "true"},
		RunE:        cc.runTUI,
	}
}

func (cc *cliContext) runTUI(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive screen needs a terminal; use list, get, add, update or delete instead")
	}
	m := tui.New(cc.client,
		view.WithLogger(cc.logger.Named("view")),
		view.WithLocation(cc.loc),
		view.WithContext(cmd.Context()),
	)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
