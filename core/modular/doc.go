// Package modular assembles the bus from independently-authored modules.
//
// A module never references another module's types. Instead it contributes
// three binding sets at startup: command handlers for the process-wide
// command dispatcher, event handlers for its own event dispatcher, and
// broadcast registrations declaring which cross-module messages it wants to
// receive (routed by bare type name, delivered as transcoded instances of
// the module's own declared types).
//
// New performs the entire startup registration pass and fails fast on any
// configuration defect. After New returns, the broadcast registry is frozen
// and the wiring is immutable for the process lifetime.
//
// The delivery strategy between modules (synchronous fan-out or a queued
// background pipeline) is chosen by broker.Config and is invisible to
// publisher code.
package modular
