package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// ReplayExtension is the file extension of per-rank record files.
const ReplayExtension = ".vom"

// Replay rebuilds a population from recorded per-rank files.
//
// Rank r reads "<stem>.<r>.vom". Each non-empty line is one record whose
// fields are separated by commas and/or whitespace:
//
//	phase,object,time          object assignment to this rank
//	phase,from,to,volume       communication from object to object
//
// Records of other phases are skipped. Lines starting with '#' are comments.
type Replay struct {
	fsys   fs.FS
	stem   string
	ranks  int
	phase  int
	logger types.Logger
}

var _ types.PopulationSource = (*Replay)(nil)

// ReplayOption configures a Replay source.
type ReplayOption func(*Replay)

// WithReplayLogger sets the logger.
func WithReplayLogger(logger types.Logger) ReplayOption {
	return func(r *Replay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReplay creates a replay source.
//
// Parameters:
//   - fsys: File system holding the record files (e.g. os.DirFS(dir))
//   - stem: File name stem, may contain a directory relative to fsys
//   - ranks: Number of ranks (one file each)
//   - phase: Phase whose records are loaded
//
// Returns:
//   - *Replay: Source ready to populate
//
// Example:
//
//	src := source.NewReplay(os.DirFS("logs"), "lb_data", 4, 0)
//	pop, err := src.Populate(ctx)
func NewReplay(fsys fs.FS, stem string, ranks, phase int, opts ...ReplayOption) *Replay {
	r := &Replay{
		fsys:   fsys,
		stem:   stem,
		ranks:  ranks,
		phase:  phase,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// FileName returns the record file of rank.
func (r *Replay) FileName(rank int) string {
	return fmt.Sprintf("%s.%d%s", r.stem, rank, ReplayExtension)
}

type edgeRecord struct {
	file     string
	line     int
	from, to types.ObjectID
	volume   float64
}

// Populate reads every rank file and builds the population.
//
// Returns:
//   - *types.Population: Replayed population
//   - error: types.ErrMalformedRecord with file and line for unparsable
//     records, types.ErrInvalidConfig for missing files or duplicate objects
func (r *Replay) Populate(ctx context.Context) (*types.Population, error) {
	if r.fsys == nil {
		return nil, fmt.Errorf("%w: replay file system is required", types.ErrInvalidConfig)
	}
	if r.ranks < 1 {
		return nil, fmt.Errorf("%w: replay ranks must be >= 1, got %d", types.ErrInvalidConfig, r.ranks)
	}

	ranks := make([]*types.Rank, r.ranks)
	for i := range ranks {
		ranks[i] = types.NewRank(types.RankID(i))
	}
	pop, err := types.NewPopulation(ranks)
	if err != nil {
		return nil, err
	}

	var edges []edgeRecord
	for i := range r.ranks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rankEdges, err := r.readRank(pop, i)
		if err != nil {
			return nil, err
		}
		edges = append(edges, rankEdges...)
	}

	if err := connectEdges(pop, edges); err != nil {
		return nil, err
	}

	r.logger.Debug("replay population loaded",
		"stem", r.stem,
		"phase", r.phase,
		"ranks", pop.NumRanks(),
		"objects", pop.NumObjects(),
		"edges", len(edges),
	)

	return pop, nil
}

func (r *Replay) readRank(pop *types.Population, rank int) ([]edgeRecord, error) {
	name := r.FileName(rank)
	f, err := r.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", types.ErrInvalidConfig, name, err)
	}
	defer f.Close()

	var edges []edgeRecord
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, isSeparator)
		malformed := func(reason string) error {
			return fmt.Errorf("%w: %s:%d: %s", types.ErrMalformedRecord, name, line, reason)
		}

		if len(fields) != 3 && len(fields) != 4 {
			return nil, malformed(fmt.Sprintf("expected 3 or 4 fields, got %d", len(fields)))
		}

		phase, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, malformed("invalid phase " + strconv.Quote(fields[0]))
		}
		if phase != r.phase {
			continue
		}

		switch len(fields) {
		case 3:
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, malformed("invalid object id " + strconv.Quote(fields[1]))
			}
			load, err := parseNonNegative(fields[2])
			if err != nil {
				return nil, malformed("invalid time " + strconv.Quote(fields[2]))
			}
			o := types.NewObject(types.ObjectID(id), load, nil)
			if err := pop.Assign(o, types.RankID(rank), false); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, line, err)
			}

		case 4:
			from, errFrom := strconv.Atoi(fields[1])
			to, errTo := strconv.Atoi(fields[2])
			if err := errors.Join(errFrom, errTo); err != nil {
				return nil, malformed("invalid object id in communication record")
			}
			volume, err := parseNonNegative(fields[3])
			if err != nil {
				return nil, malformed("invalid volume " + strconv.Quote(fields[3]))
			}
			edges = append(edges, edgeRecord{
				file:   name,
				line:   line,
				from:   types.ObjectID(from),
				to:     types.ObjectID(to),
				volume: volume,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", types.ErrInvalidConfig, name, err)
	}

	return edges, nil
}

// connectEdges attaches communication records once every object is known.
func connectEdges(pop *types.Population, edges []edgeRecord) error {
	for _, e := range edges {
		from, to := pop.Object(e.from), pop.Object(e.to)
		if from == nil || to == nil {
			return fmt.Errorf("%w: %s:%d: communication between unknown objects %d and %d",
				types.ErrMalformedRecord, e.file, e.line, e.from, e.to)
		}
		if from.Communicator() == nil {
			from.SetCommunicator(types.NewObjectCommunicator())
		}
		if to.Communicator() == nil {
			to.SetCommunicator(types.NewObjectCommunicator())
		}
		from.Communicator().Sent[e.to] += e.volume
		to.Communicator().Received[e.from] += e.volume
	}

	return nil
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t'
}

func parseNonNegative(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("value must be finite and non-negative")
	}

	return v, nil
}
