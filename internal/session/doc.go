// Package session owns the client's authenticated state.
//
// [Store] is the single authoritative in-memory session, durable across runs
// through a [Persister]. SetAuth and Logout replace the whole session
// atomically: no subscriber ever observes a user without its token or vice
// versa. Every mutation bumps an epoch counter so in-flight request handlers
// can detect that the session changed since they were issued and discard
// stale responses.
//
// The capability gate ([CanAccess], [IsAuthenticated], [HasElevatedRole]) is
// the one place access decisions are derived from a session, so gating cannot
// drift between surfaces.
package session
