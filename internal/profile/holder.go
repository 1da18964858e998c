package profile

import "sync/atomic"

// Holder publishes the active profile to the pipeline. Swapping is
// atomic: a frame being processed observes either the old profile or the
// new one in full, never a partial mix.
type Holder struct {
	current atomic.Pointer[Profile]
}

// NewHolder creates a Holder with the given initial profile.
func NewHolder(p *Profile) *Holder {
	h := &Holder{}
	h.current.Store(p)
	return h
}

// Current returns the active profile. The returned value must be treated
// as read-only.
func (h *Holder) Current() *Profile {
	return h.current.Load()
}

// Swap atomically replaces the active profile and returns the previous
// one. The new profile must already be validated.
func (h *Holder) Swap(p *Profile) *Profile {
	return h.current.Swap(p)
}
