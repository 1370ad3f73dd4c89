// Package acs implements the automated circulation system side of the SIP2
// exchange: the action set that turns parsed request messages into typed
// response messages.
//
// Business logic stays outside this package. Each remote library system is
// described by a RemoteHandlers value, a typed capability set of callback
// functions (patron lookup, checkout execution, ...). Actions call those
// handlers and assemble responses from the results plus protocol
// configuration.
//
// The Dispatcher routes an inbound command code to its Action and returns a
// tagged Result: either a response message or an explicit suppression reason
// (unauthenticated client, unknown command, unimplemented action), so that
// callers and tests can tell intentional silence from a bug.
package acs
