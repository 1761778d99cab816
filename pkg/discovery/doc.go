// Package discovery implements the field discovery engine.
//
// A catalog endpoint documents some request fields and silently requires
// others. The engine probes a simulated backend to work out which
// undocumented fields are really required and which are merely tolerated.
//
// # Components
//
//   - ConfigStore holds one FieldConfig per Method. Each config lists the
//     documented required fields, the documented optional fields, the
//     candidate undocumented fields and the fields the backend actually
//     requires.
//   - Simulator is the oracle. It checks a request body against the
//     actualRequired list of the current config.
//   - Engine runs the five discovery phases and records every attempt in
//     the shared Result for the method.
//   - Policy turns a FieldConfig into the allowed/required lists route
//     handlers check incoming bodies against.
//
// # Phases
//
//  1. Baseline with the documented required fields only.
//  2. Add the documented optional fields one at a time.
//  3. Probe each candidate undocumented field on its own; a field whose
//     addition makes the request succeed is recorded as required and kept
//     in the body for later phases.
//  4. When more than one field was discovered, drop each one in turn to
//     confirm it is needed. Diagnostic only.
//  5. Add each remaining candidate to the accumulated body; fields that keep
//     the request successful are recorded as optional.
//
// Probing is one field at a time. A backend that needs two undocumented
// fields together is never satisfied in phase 3 and nothing is discovered.
// Once one probe succeeds every later probe succeeds too, so all following
// candidates are recorded as required.
//
// # Shared results
//
// Each method has a single Result that every run resets and repopulates.
// Concurrent runs for the same method interleave their attempts in that
// record and readers may observe a run in progress. Individual mutations are
// serialized so interleaving never corrupts the record.
package discovery
