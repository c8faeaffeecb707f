package strategy

import (
	"fmt"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// ErrNoRanks indicates that no ranks were provided for placement.
var ErrNoRanks = fmt.Errorf("%w: no ranks available for placement", types.ErrInvalidConfig)
