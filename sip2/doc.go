// Package sip2 implements the wire format of the Standard Interchange
// Protocol version 2 (SIP2), the line-oriented text protocol spoken between
// library self-check terminals and an automated circulation system (ACS).
//
// A SIP2 line starts with a 2-digit command code, followed by fixed-width
// positional fields, followed by pipe-terminated variable fields of the form
// <2-char tag><value>|. When error detection is enabled a trailer of
// AY<sequence digit> and AZ<4-hex checksum> is appended before the line
// terminator.
//
// The package provides:
//   - FixedField / VarField definitions and an immutable Registry
//   - a Catalog of MessageType descriptors keyed by command code
//   - Message, the structured form of one request or response
//   - Codec, which parses raw lines into Messages and serializes Messages
//     back into wire text, computing the checksum trailer
//
// Field registries and catalogs are built once at startup and are read-only
// afterwards, so they can be shared freely across connections.
package sip2
