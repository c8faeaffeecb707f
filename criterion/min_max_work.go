package criterion

import (
	"math"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// minMaxWork accepts a move that strictly lowers max(work(src), work(dst)).
//
// Work of a rank is its load plus beta times the communication volume its
// objects exchange with objects on other ranks. Both sides use the ranks'
// actual loads, not the gossip view.
//
// Score = max(wSrc, wDst) - max(wSrc', wDst'); accepted iff Score > 0.
type minMaxWork struct {
	beta float64
}

var _ types.Criterion = (*minMaxWork)(nil)

func (*minMaxWork) Name() string { return MinMaxWork.String() }

func (m *minMaxWork) Evaluate(c types.Candidate) types.Decision {
	moved := movedSet(c.Objects)
	load := c.Load()

	srcBefore := c.Source.Load()
	dstBefore := c.Destination.Load()
	srcAfter := srcBefore - load
	dstAfter := dstBefore + load

	if m.beta > 0 && c.Lookup != nil {
		srcID, dstID := c.Source.ID(), c.Destination.ID()
		before := func(o *types.Object) types.RankID { return o.Owner() }
		after := func(o *types.Object) types.RankID {
			if _, ok := moved[o.ID()]; ok {
				return dstID
			}

			return o.Owner()
		}

		residents := rankResidents(c.Source, c.Destination)
		srcBefore += m.beta * offRankVolume(residents, srcID, before, c.Lookup)
		dstBefore += m.beta * offRankVolume(residents, dstID, before, c.Lookup)
		srcAfter += m.beta * offRankVolume(residents, srcID, after, c.Lookup)
		dstAfter += m.beta * offRankVolume(residents, dstID, after, c.Lookup)
	}

	score := math.Max(srcBefore, dstBefore) - math.Max(srcAfter, dstAfter)

	return types.Decision{Score: score, Accept: score > 0}
}

// rankResidents returns every object of both ranks, migratable and sentinel.
func rankResidents(ranks ...*types.Rank) []*types.Object {
	var out []*types.Object
	for _, r := range ranks {
		out = append(out, r.Objects()...)
		out = append(out, r.Sentinels()...)
	}

	return out
}

// offRankVolume sums the volume that objects placed on rank exchange with
// objects placed elsewhere, under the given placement function.
func offRankVolume(
	objects []*types.Object,
	rank types.RankID,
	placement func(*types.Object) types.RankID,
	lookup func(types.ObjectID) *types.Object,
) float64 {
	total := 0.0
	for _, o := range objects {
		if placement(o) != rank {
			continue
		}
		comm := o.Communicator()
		for _, peerID := range comm.Peers() {
			peer := lookup(peerID)
			if peer == nil || placement(peer) == rank {
				continue
			}
			total += comm.Volume(peerID)
		}
	}

	return total
}

func movedSet(objects []*types.Object) map[types.ObjectID]struct{} {
	set := make(map[types.ObjectID]struct{}, len(objects))
	for _, o := range objects {
		set[o.ID()] = struct{}{}
	}

	return set
}
