package sim

// Store is the index-addressed backing storage for particles. All slots
// are allocated up front at the population cap so concurrent readers can
// never observe a resize, and a particle never moves slot once written.
//
// The store itself carries no synchronization: slot i is written only by
// the worker that owns i for the current tick (either the particle's own
// stepping worker, or the worker whose split reserved i). That ownership
// is enforced by the reservation protocol in Counter, not here.
type Store struct {
	slots []Particle
}

// NewStore allocates storage for capacity particles.
func NewStore(capacity int) *Store {
	return &Store{slots: make([]Particle, capacity)}
}

// Read returns a copy of the particle in slot i.
func (s *Store) Read(i int) Particle {
	return s.slots[i]
}

// Write stores p into slot i.
func (s *Store) Write(i int, p Particle) {
	s.slots[i] = p
}

// Live returns the first n slots as a read-only view for rendering.
// The view is valid until the next Step call on the owning world.
func (s *Store) Live(n int) []Particle {
	return s.slots[:n]
}

// Cap returns the slot capacity.
func (s *Store) Cap() int {
	return len(s.slots)
}
