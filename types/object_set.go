package types

import "slices"

// objectSet holds objects keyed by id with a sorted id index and a cached
// load sum.
//
// The sum is always taken in id order, so it is bit-for-bit identical to a
// fresh summation regardless of the insertion and removal history.
type objectSet struct {
	byID     map[ObjectID]*Object
	ids      []ObjectID
	sum      float64
	sumValid bool
}

func newObjectSet() *objectSet {
	return &objectSet{byID: make(map[ObjectID]*Object), sumValid: true}
}

func (s *objectSet) len() int { return len(s.ids) }

func (s *objectSet) has(id ObjectID) bool {
	_, ok := s.byID[id]

	return ok
}

func (s *objectSet) add(o *Object) {
	if _, ok := s.byID[o.id]; ok {
		s.byID[o.id] = o
		s.sumValid = false

		return
	}

	s.byID[o.id] = o
	i, _ := slices.BinarySearch(s.ids, o.id)
	s.ids = slices.Insert(s.ids, i, o.id)
	s.sumValid = false
}

func (s *objectSet) remove(id ObjectID) (*Object, bool) {
	o, ok := s.byID[id]
	if !ok {
		return nil, false
	}

	delete(s.byID, id)
	if i, found := slices.BinarySearch(s.ids, id); found {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
	s.sumValid = false

	return o, true
}

// sorted returns the objects ordered by id in a new slice.
func (s *objectSet) sorted() []*Object {
	out := make([]*Object, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.byID[id]
	}

	return out
}

// total returns the summed load, recomputing it only after a mutation.
func (s *objectSet) total() float64 {
	if !s.sumValid {
		s.sum = 0
		for _, id := range s.ids {
			s.sum += s.byID[id].load
		}
		s.sumValid = true
	}

	return s.sum
}
