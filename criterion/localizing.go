package criterion

import "github.com/DARMA-tasking/LB-analysis-framework-sub001/types"

// strictLocalizing rejects a move if any moved object communicates with an
// object that stays on the source.
//
// Score is -1 on rejection and 1 otherwise; accepted iff Score > 0.
type strictLocalizing struct{}

var _ types.Criterion = (*strictLocalizing)(nil)

func (*strictLocalizing) Name() string { return StrictLocalizing.String() }

func (*strictLocalizing) Evaluate(c types.Candidate) types.Decision {
	moved := movedSet(c.Objects)
	for _, o := range c.Objects {
		for _, peer := range o.Communicator().Peers() {
			if _, alsoMoving := moved[peer]; alsoMoving {
				continue
			}
			if c.Source.HasObject(peer) {
				return types.Decision{Score: -1, Accept: false}
			}
		}
	}

	return types.Decision{Score: 1, Accept: true}
}

// relaxedLocalizing weighs the volume the moved objects exchange with the
// destination against the volume they exchange with what remains on the
// source.
//
// Score = vol(destination) - vol(source); accepted iff Score >= 0.
type relaxedLocalizing struct{}

var _ types.Criterion = (*relaxedLocalizing)(nil)

func (*relaxedLocalizing) Name() string { return RelaxedLocalizing.String() }

func (*relaxedLocalizing) Evaluate(c types.Candidate) types.Decision {
	moved := movedSet(c.Objects)
	toDst, toSrc := 0.0, 0.0
	for _, o := range c.Objects {
		comm := o.Communicator()
		for _, peer := range comm.Peers() {
			if _, alsoMoving := moved[peer]; alsoMoving {
				continue
			}
			switch {
			case c.Destination.HasObject(peer):
				toDst += comm.Volume(peer)
			case c.Source.HasObject(peer):
				toSrc += comm.Volume(peer)
			}
		}
	}

	score := toDst - toSrc

	return types.Decision{Score: score, Accept: score >= 0}
}
