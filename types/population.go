package types

import (
	"fmt"
	"maps"
	"slices"
)

// EdgeKey identifies a directed rank-to-rank communication edge.
type EdgeKey struct {
	From RankID
	To   RankID
}

// Population is the ordered set of ranks together with the object index.
//
// It is the single owner of object placement: objects enter through Assign
// and move only through Migrate, which keeps every object on exactly one
// rank. Inter-rank communication edges are derived lazily from object
// communicators and the whole cache is marked stale by any migration.
type Population struct {
	ranks   []*Rank
	byID    map[RankID]*Rank
	objects map[ObjectID]*Object

	edges      map[EdgeKey]float64
	edgesStale bool
}

// NewPopulation creates a population over the given ranks.
//
// Parameters:
//   - ranks: Ordered ranks; index order is the distribution order
//
// Returns:
//   - *Population: Population with an empty object index
//   - error: ErrInvalidConfig on nil or duplicate ranks
func NewPopulation(ranks []*Rank) (*Population, error) {
	p := &Population{
		ranks:      make([]*Rank, 0, len(ranks)),
		byID:       make(map[RankID]*Rank, len(ranks)),
		objects:    make(map[ObjectID]*Object),
		edgesStale: true,
	}

	for _, r := range ranks {
		if r == nil {
			return nil, fmt.Errorf("%w: nil rank", ErrInvalidConfig)
		}
		if _, dup := p.byID[r.id]; dup {
			return nil, fmt.Errorf("%w: duplicate rank id %d", ErrInvalidConfig, r.id)
		}
		p.ranks = append(p.ranks, r)
		p.byID[r.id] = r

		for _, set := range []*objectSet{r.migratable, r.sentinels} {
			for _, o := range set.sorted() {
				if err := p.index(o); err != nil {
					return nil, err
				}
			}
		}
	}

	return p, nil
}

func (p *Population) index(o *Object) error {
	if _, dup := p.objects[o.id]; dup {
		return fmt.Errorf("%w: duplicate object id %d", ErrInvalidConfig, o.id)
	}
	p.objects[o.id] = o

	return nil
}

// Assign places a new object on a rank.
//
// The first assignment also records the object's source rank.
//
// Parameters:
//   - o: Unassigned object
//   - rank: Destination rank id
//   - sentinel: Whether the object is pinned to the rank
//
// Returns:
//   - error: ErrInvalidConfig for unknown ranks or duplicate ids
func (p *Population) Assign(o *Object, rank RankID, sentinel bool) error {
	r, ok := p.byID[rank]
	if !ok {
		return fmt.Errorf("%w: unknown rank %d", ErrInvalidConfig, rank)
	}
	if o.owner != NoRank {
		return fmt.Errorf("%w: object %d already owned by rank %d", ErrOwnership, o.id, o.owner)
	}
	if err := p.index(o); err != nil {
		return err
	}

	if o.sourceRank == NoRank {
		o.sourceRank = rank
	}
	r.addObject(o, sentinel)
	p.edgesStale = true

	return nil
}

// Migrate moves a migratable object from src to dst atomically.
//
// Parameters:
//   - o: Object to move
//   - src: Current owner
//   - dst: New owner
//
// Returns:
//   - error: ErrOwnership when src does not hold the object or a rank is unknown
func (p *Population) Migrate(o *Object, src, dst RankID) error {
	from, ok := p.byID[src]
	if !ok {
		return fmt.Errorf("%w: unknown source rank %d", ErrOwnership, src)
	}
	to, ok := p.byID[dst]
	if !ok {
		return fmt.Errorf("%w: unknown destination rank %d", ErrOwnership, dst)
	}
	if o.owner != src {
		return fmt.Errorf("%w: object %d is owned by rank %d, not %d", ErrOwnership, o.id, o.owner, src)
	}
	if to.HasObject(o.id) {
		return fmt.Errorf("%w: object %d already present on rank %d", ErrOwnership, o.id, dst)
	}

	if _, removed := from.removeObject(o.id); !removed {
		return fmt.Errorf("%w: object %d is not migratable on rank %d", ErrOwnership, o.id, src)
	}
	to.addObject(o, false)
	p.edgesStale = true

	return nil
}

// Ranks returns the ranks in population order.
func (p *Population) Ranks() []*Rank {
	return slices.Clone(p.ranks)
}

// Rank returns the rank with the given id.
func (p *Population) Rank(id RankID) (*Rank, bool) {
	r, ok := p.byID[id]

	return r, ok
}

// RankIDs returns the rank ids in population order.
func (p *Population) RankIDs() []RankID {
	ids := make([]RankID, len(p.ranks))
	for i, r := range p.ranks {
		ids[i] = r.id
	}

	return ids
}

// NumRanks returns the number of ranks.
func (p *Population) NumRanks() int { return len(p.ranks) }

// NumObjects returns the number of indexed objects.
func (p *Population) NumObjects() int { return len(p.objects) }

// Object returns the object with the given id, or nil.
func (p *Population) Object(id ObjectID) *Object { return p.objects[id] }

// Objects returns all objects sorted by id.
func (p *Population) Objects() []*Object {
	return sortedObjects(p.objects)
}

// TotalLoad returns the summed load of all ranks.
func (p *Population) TotalLoad() float64 {
	total := 0.0
	for _, r := range p.ranks {
		total += r.Load()
	}

	return total
}

// AverageLoad returns the mean rank load, 0 for an empty population.
func (p *Population) AverageLoad() float64 {
	if len(p.ranks) == 0 {
		return 0
	}

	return p.TotalLoad() / float64(len(p.ranks))
}

// LoadDistribution returns the rank loads in population order.
func (p *Population) LoadDistribution() []float64 {
	loads := make([]float64, len(p.ranks))
	for i, r := range p.ranks {
		loads[i] = r.Load()
	}

	return loads
}

// CheckOwnership verifies that every indexed object lives on exactly one rank
// and that its owner field agrees.
func (p *Population) CheckOwnership() error {
	seen := make(map[ObjectID]RankID, len(p.objects))
	for _, r := range p.ranks {
		for _, set := range []*objectSet{r.migratable, r.sentinels} {
			for _, o := range set.sorted() {
				if prev, dup := seen[o.id]; dup {
					return fmt.Errorf("%w: object %d found on ranks %d and %d", ErrOwnership, o.id, prev, r.id)
				}
				seen[o.id] = r.id
				if o.owner != r.id {
					return fmt.Errorf("%w: object %d on rank %d records owner %d", ErrOwnership, o.id, r.id, o.owner)
				}
			}
		}
	}

	for _, id := range sortedKeys(p.objects) {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: object %d is not on any rank", ErrOwnership, id)
		}
	}

	return nil
}

// CheckCommunication verifies communicator symmetry across all objects.
func (p *Population) CheckCommunication() error {
	lookup := func(id ObjectID) *Object { return p.objects[id] }
	for _, id := range sortedKeys(p.objects) {
		o := p.objects[id]
		if err := o.communicator.CheckSymmetry(id, lookup); err != nil {
			return err
		}
	}

	return nil
}

// Edges returns the directed inter-rank communication volumes.
//
// The map is rebuilt on first access after any placement change; only
// off-rank pairs are recorded.
func (p *Population) Edges() map[EdgeKey]float64 {
	if p.edgesStale || p.edges == nil {
		p.edges = p.buildEdges()
		p.edgesStale = false
	}

	return maps.Clone(p.edges)
}

// EdgesStale reports whether the edge cache will be rebuilt on next access.
func (p *Population) EdgesStale() bool { return p.edgesStale || p.edges == nil }

// UndirectedEdges folds directed edges onto unordered rank pairs (From < To).
func (p *Population) UndirectedEdges() map[EdgeKey]float64 {
	out := make(map[EdgeKey]float64)
	for k, w := range p.Edges() {
		if k.From > k.To {
			k.From, k.To = k.To, k.From
		}
		out[k] += w
	}

	return out
}

func (p *Population) buildEdges() map[EdgeKey]float64 {
	edges := make(map[EdgeKey]float64)
	for _, id := range sortedKeys(p.objects) {
		o := p.objects[id]
		if o.communicator == nil {
			continue
		}
		for _, peer := range sortedKeys(o.communicator.Sent) {
			other, ok := p.objects[peer]
			if !ok || other.owner == o.owner {
				continue
			}
			edges[EdgeKey{From: o.owner, To: other.owner}] += o.communicator.Sent[peer]
		}
	}

	return edges
}

// Clone returns a deep copy with fresh ranks, objects and communicators.
func (p *Population) Clone() *Population {
	ranks := make([]*Rank, len(p.ranks))
	for i, r := range p.ranks {
		ranks[i] = NewRank(r.id)
	}

	clone := &Population{
		ranks:      ranks,
		byID:       make(map[RankID]*Rank, len(ranks)),
		objects:    make(map[ObjectID]*Object, len(p.objects)),
		edgesStale: true,
	}
	for _, r := range ranks {
		clone.byID[r.id] = r
	}

	for _, id := range sortedKeys(p.objects) {
		src := p.objects[id]
		o := &Object{
			id:         src.id,
			load:       src.load,
			sourceRank: src.sourceRank,
			owner:      NoRank,
		}
		if src.communicator != nil {
			o.communicator = &ObjectCommunicator{
				Sent:     maps.Clone(src.communicator.Sent),
				Received: maps.Clone(src.communicator.Received),
			}
		}
		clone.objects[id] = o

		if owner, ok := p.byID[src.owner]; ok {
			sentinel := owner.sentinels.has(id)
			clone.byID[src.owner].addObject(o, sentinel)
		}
	}

	return clone
}
