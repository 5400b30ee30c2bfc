package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/pkg/scenario"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List builtin scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

type scenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	Policy      string `json:"policy"`
	Steps       int    `json:"steps"`
}

func runList() error {
	scripts, err := scenario.Builtins()
	if err != nil {
		return err
	}

	infos := make([]scenarioInfo, 0, len(scripts))
	for _, s := range scripts {
		kind, _ := s.DefaultPolicy()
		infos = append(infos, scenarioInfo{
			Name:        s.Name,
			Description: s.Description,
			Capacity:    s.EffectiveCapacity(),
			Policy:      string(kind),
			Steps:       len(s.Steps),
		})
	}

	if jsonOut {
		return printJSON(infos)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Capacity", "Policy", "Steps", "Description")
	for _, in := range infos {
		t.Row(in.Name, strconv.Itoa(in.Capacity), in.Policy, strconv.Itoa(in.Steps), in.Description)
	}
	printInfo("%s\n", t.Render())
	return nil
}
