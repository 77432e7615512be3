// Package serve owns the connection lifecycle of the horus server: the
// read-only route table, the per-connection state machine (read, parse,
// dispatch, respond, close) and the accept loop that spawns one worker
// per connection.
//
// This package is internal to horus. The public SDK in the root package
// converts its registered routes into [RouteInfo] values and wires them
// into a [Registry], a [ConnHandler] and a [Loop].
package serve
