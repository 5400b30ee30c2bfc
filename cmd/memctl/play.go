package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/internal/logger"
	"github.com/joshuapare/memkit/mem/history"
	"github.com/joshuapare/memkit/mem/printer"
	"github.com/joshuapare/memkit/pkg/scenario"
)

var playPlain bool

func init() {
	cmd := newPlayCmd()
	cmd.Flags().BoolVar(&playPlain, "plain", false, "Print every step instead of starting the interactive player")
	rootCmd.AddCommand(cmd)
}

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <script.toml|builtin>",
		Short: "Replay a scenario step by step",
		Long: `The play command runs a scenario while recording every change to the pool,
then lets you step forwards and backwards through the recorded layouts.

Example:
  memctl play next-fit-wrap-around
  memctl play fragmentation.toml
  memctl play best-fit-reuse --plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runPlay(ctx context.Context, arg string) error {
	s, err := loadScript(arg)
	if err != nil {
		return err
	}
	steps, err := recordSteps(ctx, s)
	if err != nil {
		return err
	}
	printVerbose("Recorded %d steps from %s\n", len(steps), s.Name)

	if playPlain {
		return printSteps(steps)
	}

	m := newPlayModel(s.Name, steps)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("playback: %w", err)
	}
	return nil
}

func recordSteps(ctx context.Context, s *scenario.Script) ([]history.Step, error) {
	rec := history.NewRecorder(0)
	_, err := scenario.Run(ctx, s, scenario.Options{Logger: logger.L, Observer: rec})
	if err != nil && !errors.Is(err, scenario.ErrExpectation) {
		return nil, err
	}
	return rec.Steps(), nil
}

func printSteps(steps []history.Step) error {
	p, err := newPrinter()
	if err != nil {
		return err
	}
	if p.Options().Format == printer.FormatJSON {
		return printJSON(steps)
	}
	for _, st := range steps {
		printInfo("Step %d: %s\n", st.Seq, st.Event)
		if err := p.PrintLayout(st.Layout); err != nil {
			return err
		}
	}
	return p.PrintTimeline(history.Timeline(steps))
}

// playModel is the bubbletea model for interactive playback.
type playModel struct {
	title  string
	player *history.Player
	keys   KeyMap
	help   help.Model
	width  int
}

func newPlayModel(title string, steps []history.Step) playModel {
	p := history.NewPlayer(steps)
	p.Seek(0)
	return playModel{
		title:  title,
		player: p,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

func (m playModel) Init() tea.Cmd { return nil }

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.player.Next()
		case key.Matches(msg, m.keys.Prev):
			m.player.Prev()
		case key.Matches(msg, m.keys.First):
			m.player.Rewind()
			m.player.Next()
		case key.Matches(msg, m.keys.Last):
			m.player.Seek(m.player.Len() - 1)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m playModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("memctl play: %s", m.title))

	st, ok := m.player.Current()
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left,
			header, "No recorded steps.", m.help.View(m.keys))
	}

	var body bytes.Buffer
	opts := printer.DefaultOptions()
	if m.width > 0 {
		opts.BarWidth = min(opts.BarWidth, max(m.width-8, 8))
	}
	p := printer.New(&body, opts)
	_ = p.PrintLayout(st.Layout)
	_ = p.PrintStats(st.Stats)

	status := fmt.Sprintf("step %d/%d", m.player.Pos()+1, m.player.Len())
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		eventStyle.Render(st.Event.String()),
		paneStyle.Render(strings.TrimRight(body.String(), "\n")),
		statusStyle.Render(status),
		m.help.View(m.keys),
	)
}
