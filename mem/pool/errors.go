package pool

import (
	"fmt"

	"github.com/joshuapare/memkit/pkg/types"
)

func preconditionf(format string, args ...any) error {
	return fmt.Errorf("pool: "+format+": %w", append(args, types.ErrPrecondition)...)
}

func layoutf(format string, args ...any) error {
	return fmt.Errorf("pool: "+format+": %w", append(args, types.ErrInvalidLayout)...)
}
