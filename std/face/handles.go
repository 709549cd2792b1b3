package face

// PendingInterestHandle is returned by Express. Cancel removes the
// pending Interest without invoking any callback (P1); it is safe to
// call from any goroutine and safe to call more than once.
type PendingInterestHandle struct {
	face *Face
	id   uint64
}

func (h PendingInterestHandle) Cancel() {
	if h.face == nil || h.face.closed.Load() {
		return
	}
	h.face.post(func() { h.face.cancelPending(h.id) })
}

// InterestFilterHandle is returned by SetInterestFilter. Cancel
// removes the filter; it is safe to call from any goroutine.
type InterestFilterHandle struct {
	face *Face
	id   uint64
}

func (h InterestFilterHandle) Cancel() {
	if h.face == nil || h.face.closed.Load() {
		return
	}
	h.face.post(func() { h.face.unsetInterestFilter(h.id) })
}

// RegisteredPrefixHandle is returned by RegisterPrefix/AnnouncePrefix.
// Cancel and Unregister are the only operations safe to call from a
// goroutine other than the loop's.
type RegisteredPrefixHandle struct {
	face *Face
	id   uint64
}

// Cancel drops the handle's bookkeeping. On a still-pending
// registration this has no network effect: the command was never
// acknowledged, so there is nothing in the RIB to undo. On a
// registration that already succeeded, Cancel still issues a
// RibUnregisterCommand fire-and-forget (no onSuccess/onFailure) so the
// forwarder's RIB doesn't keep a route this handle no longer owns. A
// handle already cancelled or unregistered is a no-op, per 4.4's
// "Unrecognized id ... cancel is a no-op".
func (h RegisteredPrefixHandle) Cancel() {
	if h.face == nil || h.face.closed.Load() {
		return
	}
	h.face.post(func() { h.face.cancelRegistration(h.id) })
}

// Unregister issues RibUnregisterCommand for the handle's prefix and
// invokes onSuccess or onFailure on completion. An unrecognized id
// (already cancelled/unregistered, or from a destroyed Face) calls
// onFailure with no network effect: synchronously when the Face is
// closed, otherwise on the Face's loop goroutine.
func (h RegisteredPrefixHandle) Unregister(onSuccess func(), onFailure func(reason string)) {
	if h.face == nil || h.face.closed.Load() {
		if onFailure != nil {
			onFailure("Unrecognized registered prefix handle")
		}
		return
	}
	h.face.post(func() { h.face.unregister(h.id, onSuccess, onFailure) })
}
