package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml"

	"github.com/joshuapare/memkit/pkg/types"
)

var (
	// ErrInvalidScript is wrapped by every parse and validation failure.
	ErrInvalidScript = errors.New("invalid scenario script")
	// ErrExpectation is returned by Run when a step's outcome differs from its expect value.
	ErrExpectation = errors.New("scenario expectation failed")
)

// Op is a script step operation.
type Op string

const (
	OpAlloc    Op = "alloc"
	OpFree     Op = "free"
	OpCoalesce Op = "coalesce"
	OpCompact  Op = "compact"
	OpReset    Op = "reset"
	OpCompare  Op = "compare"
	OpShow     Op = "show"
)

// Outcome names matched by a step's expect field. Error outcomes are the
// ErrKind strings.
const OutcomeOK = "ok"

var knownOutcomes = map[string]bool{
	OutcomeOK:                            true,
	types.ErrKindInvalidSize.String():    true,
	types.ErrKindDuplicateOwner.String(): true,
	types.ErrKindNoFit.String():          true,
	types.ErrKindNotFound.String():       true,
	types.ErrKindInvalidOwner.String():   true,
}

// Script is a named list of allocator operations, optionally starting from a
// preset layout.
type Script struct {
	Name         string          `toml:"name"`
	Description  string          `toml:"description"`
	Capacity     int             `toml:"capacity"`
	Policy       string          `toml:"policy"`
	AutoCoalesce bool            `toml:"auto_coalesce"`
	Layout       []types.Segment `toml:"layout"`
	Steps        []Step          `toml:"step"`

	// Source is the file the script came from, or "builtin".
	Source string `toml:"-"`
}

// Step is one operation. Expect defaults to "ok".
type Step struct {
	Op     Op     `toml:"op"`
	Owner  string `toml:"owner"`
	Size   int    `toml:"size"`
	Policy string `toml:"policy"`
	Expect string `toml:"expect"`
}

// String renders the step the way run output shows it.
func (s Step) String() string {
	switch s.Op {
	case OpAlloc:
		out := fmt.Sprintf("alloc %s %d", s.Owner, s.Size)
		if s.Policy != "" {
			out += " (" + s.Policy + ")"
		}
		return out
	case OpFree:
		return "free " + s.Owner
	case OpCompare:
		if s.Owner != "" {
			return "compare " + s.Owner
		}
		return fmt.Sprintf("compare %d", s.Size)
	default:
		return string(s.Op)
	}
}

// Outcome returns the expected outcome, "ok" when unset.
func (s Step) Outcome() string {
	if s.Expect == "" {
		return OutcomeOK
	}
	return s.Expect
}

// Parse decodes a TOML script and validates it. Unknown keys are rejected.
func Parse(r io.Reader) (*Script, error) {
	s := &Script{}
	if err := toml.NewDecoder(r).Strict(true).Decode(s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Source = path
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// EffectiveCapacity is Capacity, or the layout total when Capacity is unset,
// or types.DefaultCapacity when both are.
func (s *Script) EffectiveCapacity() int {
	if s.Capacity > 0 {
		return s.Capacity
	}
	total := 0
	for _, seg := range s.Layout {
		total += seg.Size
	}
	if total > 0 {
		return total
	}
	return types.DefaultCapacity
}

// DefaultPolicy returns the script-level policy, first-fit when unset.
func (s *Script) DefaultPolicy() (types.PolicyKind, error) {
	if s.Policy == "" {
		return types.FirstFit, nil
	}
	return types.ParsePolicy(s.Policy)
}

// Validate checks the structure of the script. Layout invariants are checked
// when the script runs.
func (s *Script) Validate() error {
	if s.Capacity < 0 {
		return fmt.Errorf("%w: negative capacity %d", ErrInvalidScript, s.Capacity)
	}
	if _, err := s.DefaultPolicy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("%w: step %d (%s): %w", ErrInvalidScript, i+1, st.Op, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	expect := s.Outcome()
	if !knownOutcomes[expect] {
		return fmt.Errorf("unknown expect %q", s.Expect)
	}
	if s.Policy != "" {
		if _, err := types.ParsePolicy(s.Policy); err != nil {
			return err
		}
	}
	owner := strings.TrimSpace(s.Owner)

	switch s.Op {
	case OpAlloc:
		if s.Size == 0 && expect != types.ErrKindInvalidSize.String() {
			return errors.New("missing size")
		}
		if owner == "" && expect != types.ErrKindInvalidOwner.String() {
			return errors.New("missing owner")
		}
	case OpFree:
		if owner == "" {
			return errors.New("missing owner")
		}
	case OpCompare:
		if owner == "" && s.Size == 0 {
			return errors.New("compare needs a size or an owner")
		}
	case OpCoalesce, OpCompact, OpReset, OpShow:
		if expect != OutcomeOK {
			return fmt.Errorf("%s cannot fail", s.Op)
		}
	case "":
		return errors.New("missing op")
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	return nil
}
