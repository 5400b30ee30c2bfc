package scenario

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/mem/history"
	"github.com/joshuapare/memkit/mem/printer"
	"github.com/joshuapare/memkit/pkg/types"
)

func parse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return s
}

func TestParse(t *testing.T) {
	s := parse(t, `
name = "tiny"
capacity = 300
policy = "best"
auto_coalesce = true

[[layout]]
size = 100
owner = "A"

[[layout]]
size = 200

[[step]]
op = "free"
owner = "A"
`)
	assert.Equal(t, "tiny", s.Name)
	assert.True(t, s.AutoCoalesce)
	assert.Equal(t, []types.Segment{{Size: 100, Owner: "A"}, {Size: 200}}, s.Layout)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, "free A", s.Steps[0].String())
	assert.Equal(t, OutcomeOK, s.Steps[0].Outcome())

	kind, err := s.DefaultPolicy()
	require.NoError(t, err)
	assert.Equal(t, types.BestFit, kind)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"syntax":         `name = `,
		"unknown key":    "name = \"x\"\ncapacty = 10",
		"bad policy":     `policy = "buddy"`,
		"negative cap":   `capacity = -1`,
		"unknown op":     "[[step]]\nop = \"defrag\"",
		"missing op":     "[[step]]\nowner = \"A\"",
		"missing size":   "[[step]]\nop = \"alloc\"\nowner = \"A\"",
		"missing owner":  "[[step]]\nop = \"alloc\"\nsize = 5",
		"free no owner":  "[[step]]\nop = \"free\"",
		"bare compare":   "[[step]]\nop = \"compare\"",
		"bad expect":     "[[step]]\nop = \"free\"\nowner = \"A\"\nexpect = \"boom\"",
		"compact fails":  "[[step]]\nop = \"compact\"\nexpect = \"no-fit\"",
		"bad step pol":   "[[step]]\nop = \"alloc\"\nowner = \"A\"\nsize = 1\npolicy = \"buddy\"",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(src))
			require.ErrorIs(t, err, ErrInvalidScript)
		})
	}
}

func TestValidate_NamesStep(t *testing.T) {
	_, err := Parse(strings.NewReader("[[step]]\nop = \"reset\"\n\n[[step]]\nop = \"free\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2 (free)")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	require.NoError(t, os.WriteFile(path, []byte("capacity = 64\n[[step]]\nop = \"show\"\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name)
	assert.Equal(t, path, s.Source)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestEffectiveCapacity(t *testing.T) {
	assert.Equal(t, 64, (&Script{Capacity: 64}).EffectiveCapacity())
	assert.Equal(t, 30, (&Script{Layout: []types.Segment{{Size: 10}, {Size: 20}}}).EffectiveCapacity())
	assert.Equal(t, types.DefaultCapacity, (&Script{}).EffectiveCapacity())
}

func TestBuiltins_AllPass(t *testing.T) {
	scripts, err := Builtins()
	require.NoError(t, err)
	require.Len(t, scripts, 10)

	seen := map[string]bool{}
	for _, s := range scripts {
		assert.False(t, seen[s.Name], "duplicate builtin name %s", s.Name)
		seen[s.Name] = true

		t.Run(s.Name, func(t *testing.T) {
			rep, err := Run(t.Context(), s, Options{})
			require.NoError(t, err)
			assert.Zero(t, rep.Failures)
			assert.Len(t, rep.Results, len(s.Steps))
		})
	}
}

func TestBuiltin_Lookup(t *testing.T) {
	s, err := Builtin("best-fit-reuse")
	require.NoError(t, err)
	assert.Equal(t, "builtin", s.Source)

	_, err = Builtin("nope")
	require.Error(t, err)
}

func TestRun_BestFitReuse(t *testing.T) {
	s, err := Builtin("best-fit-reuse")
	require.NoError(t, err)

	rep, err := Run(t.Context(), s, Options{})
	require.NoError(t, err)

	var q4 *types.AllocationInfo
	for _, r := range rep.Results {
		if r.Info != nil && r.Info.Owner == "Q4" {
			q4 = r.Info
		}
	}
	require.NotNil(t, q4)
	assert.Equal(t, 1, q4.Index)
	assert.Equal(t, 500, q4.Offset)

	want := []types.Segment{
		{Size: 500, Owner: "Q1"}, {Size: 350, Owner: "Q4"}, {Size: 50}, {Size: 300, Owner: "Q3"}, {Size: 9040},
	}
	if diff := cmp.Diff(want, rep.Final.Segments()); diff != "" {
		t.Fatalf("final layout mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_CoalesceCompact(t *testing.T) {
	s, err := Builtin("coalesce-compact")
	require.NoError(t, err)

	rep, err := Run(t.Context(), s, Options{})
	require.NoError(t, err)
	assert.Equal(t, []types.Segment{{Size: 200, Owner: "P2"}, {Size: 100, Owner: "P3"}, {Size: 724}}, rep.Final.Segments())
	assert.Equal(t, 0, rep.Stats.ExternalFragmentation)
	assert.Equal(t, 1, rep.Counters.Compactions)
}

func TestRun_Rejections(t *testing.T) {
	s, err := Builtin("rejections")
	require.NoError(t, err)

	rep, err := Run(t.Context(), s, Options{})
	require.NoError(t, err)

	outcomes := map[string]bool{}
	for _, r := range rep.Results {
		outcomes[r.Outcome] = true
	}
	for _, want := range []string{"ok", "invalid-size", "duplicate-owner", "invalid-owner", "not-found", "no-fit"} {
		assert.True(t, outcomes[want], want)
	}
}

func TestRun_ExpectationFailure(t *testing.T) {
	s := parse(t, `
name = "wrong"
capacity = 100

[[step]]
op = "alloc"
owner = "A"
size = 200

[[step]]
op = "alloc"
owner = "A"
size = 50
`)
	rep, err := Run(t.Context(), s, Options{})
	require.ErrorIs(t, err, ErrExpectation)
	assert.Equal(t, 1, rep.Failures)
	assert.False(t, rep.Results[0].Matched)
	assert.Equal(t, "invalid-size", rep.Results[0].Outcome)
	require.ErrorIs(t, rep.Results[0].Err, types.ErrInvalidSize)
	assert.True(t, rep.Results[1].Matched)
}

func TestRun_InvalidLayout(t *testing.T) {
	s := parse(t, "capacity = 100\n[[layout]]\nsize = 50\n")
	_, err := Run(t.Context(), s, Options{})
	require.ErrorIs(t, err, ErrInvalidScript)
	require.ErrorIs(t, err, types.ErrInvalidLayout)
}

func TestRun_ContextCancelled(t *testing.T) {
	s, err := Builtin("first-fit-sequential")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	rep, err := Run(ctx, s, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rep.Results)
}

func TestRun_PrintsAndRecords(t *testing.T) {
	s, err := Builtin("rejections")
	require.NoError(t, err)

	var buf bytes.Buffer
	rec := history.NewRecorder(0)
	_, err = Run(t.Context(), s, Options{
		Printer:  printer.New(&buf, printer.DefaultOptions()),
		Observer: rec,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "== rejections ==")
	assert.Contains(t, out, "alloc E 400 (first-fit): no-fit")
	assert.Contains(t, out, "Policy comparison for 400 KB")
	assert.Contains(t, out, "External fragmentation:")
	assert.NotContains(t, out, "✗")

	tl := rec.Timeline()
	require.NotEmpty(t, tl)
	assert.Equal(t, "compact (2 moved)", tl[len(tl)-2].Label)
}

func TestRun_Verbose(t *testing.T) {
	s := parse(t, "capacity = 100\n[[step]]\nop = \"alloc\"\nowner = \"A\"\nsize = 10\n")

	var quiet, loud bytes.Buffer
	_, err := Run(t.Context(), s, Options{Printer: printer.New(&quiet, printer.DefaultOptions())})
	require.NoError(t, err)
	_, err = Run(t.Context(), s, Options{Printer: printer.New(&loud, printer.DefaultOptions()), Verbose: true})
	require.NoError(t, err)

	assert.NotContains(t, quiet.String(), "Memory layout")
	assert.NotContains(t, quiet.String(), "at offset")
	assert.Contains(t, loud.String(), "Memory layout")
	assert.Contains(t, loud.String(), "A → block 0 at offset 0 KB")
}
