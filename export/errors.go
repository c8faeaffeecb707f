package export

import (
	"errors"
	"fmt"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

var (
	// ErrUnavailable is returned when the NATS server cannot be reached. Retrying later may succeed.
	ErrUnavailable = errors.New("export sink unavailable")

	// ErrInvalidRunID is returned for run ids that are not valid KV key tokens.
	ErrInvalidRunID = fmt.Errorf("%w: invalid run id", types.ErrInvalidConfig)

	// ErrRunNotFound is returned when no summary exists for a run id.
	ErrRunNotFound = errors.New("run not found")
)
