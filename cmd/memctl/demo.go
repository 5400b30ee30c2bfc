package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/pkg/scenario"
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo [name]...",
		Short: "Run builtin scenarios",
		Long: `The demo command runs the bundled scenarios. Without arguments it runs
all of them in order. Use "memctl list" to see their names.

Example:
  memctl demo
  memctl demo best-fit-reuse next-fit-wrap-around`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scripts, err := selectBuiltins(args)
			if err != nil {
				return err
			}
			return runScripts(cmd.Context(), scripts)
		},
	}
	return cmd
}

func selectBuiltins(names []string) ([]*scenario.Script, error) {
	if len(names) == 0 {
		return scenario.Builtins()
	}
	scripts := make([]*scenario.Script, 0, len(names))
	for _, name := range names {
		s, err := scenario.Builtin(name)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}
