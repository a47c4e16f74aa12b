// Package api implements the HTTP client for the ScienceHub backend.
//
// [Client] is the single chokepoint for backend calls. It resolves the base
// URL once, attaches the bearer credential from the session store, and maps
// response statuses onto the shared error taxonomy:
//
//   - 401 : [shared.ErrUnauthorized], callers should force a logout
//   - 403 : [shared.ErrForbidden], role insufficient
//   - 404 : [shared.ErrNotFound]
//   - 400/422 : [ValidationError], wrapping [shared.ErrValidation] with
//     field-level messages
//   - 5xx and other failures : [shared.ErrServerError]
//   - no response at all : [shared.ErrNetworkFailure]
//
// A call that requires authentication fails with [shared.ErrNotAuthenticated]
// before any I/O when no token is held; callers surface that as "log in
// first", not as a network error. The client never retries.
//
// [ResolveAssetURL] turns the backend's relative cover and PDF paths into
// absolute URLs; it is pure and deterministic.
package api
