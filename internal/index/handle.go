package index

import "sync/atomic"

// Handle holds the live index behind an atomic pointer. Readers always
// see either the previous fully-built index or the new one, never a
// partially populated index; rebuilds construct off to the side and Swap
// in one step.
type Handle struct {
	ptr atomic.Pointer[Index]
}

func NewHandle(ix *Index) *Handle {
	h := &Handle{}
	if ix == nil {
		ix = New()
	}
	h.ptr.Store(ix)
	return h
}

func (h *Handle) Load() *Index {
	return h.ptr.Load()
}

func (h *Handle) Swap(ix *Index) {
	h.ptr.Store(ix)
}
