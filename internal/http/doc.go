// Package http provides HTTP handlers and middleware for the studio API.
//
// The router exposes the following endpoints:
//   - POST /api/sessions: issues a session token. Body: {"email","password"}.
//     Response: {"token","expires_at","member"} with the token also surfaced
//     via the `X-Session-Token` header and a `session_token` cookie.
//   - POST /api/sessions/refresh: rotates the current session token.
//     DELETE /api/sessions/current revokes it and clears the cookie.
//   - GET /api/layout?path=...: resolves the chrome, redirect and sidebar the
//     frontend applies before rendering the given pathname.
//   - GET /api/profile: the caller's own member record. POST
//     /api/profile/sync-purchase-status recomputes the caller's purchase flag
//     from their settled orders.
//   - GET /api/members, POST /api/members, GET/PUT/DELETE /api/members/{id}:
//     member administration endpoints exchanging the `memberDTO` payload
//     defined in member_handler.go.
//   - GET /api/trainers, POST /api/trainers, PUT/DELETE /api/trainers/{id}:
//     trainer catalog endpoints. Listing is available to any authenticated
//     principal while mutations require admin privileges.
//   - GET /api/schedule/calendar?month=M&year=Y: the assembled month, a
//     date-keyed schedule map, the flat listing, and the full-week grid
//     cells in render order.
//   - POST /api/schedule/{group|semi-private|private},
//     GET/PUT/DELETE /api/schedule/{type}/{id}: schedule management. Detail
//     responses carry the signup, waitlist and cancelled booking sub-lists;
//     mutations additionally carry trainer and room conflict warnings.
//   - POST /api/schedule/{type}/{id}/bookings and
//     POST /api/bookings/{id}/cancel: booking lifecycle.
//   - GET/POST /api/recurring-classes, DELETE /api/recurring-classes/{id}:
//     weekly class templates expanded into the calendar on read.
//   - GET/POST /api/packages, GET/PUT/DELETE /api/packages/{id}: the package
//     catalog sold through the purchase flow.
//   - GET/POST /api/orders, GET /api/orders/{id}: purchases. POST
//     /api/payments/notification is the unauthenticated gateway callback that
//     settles pending orders.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
