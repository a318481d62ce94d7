// Package metrics derives secondary weather quantities from raw observations.
//
// Every function in this package is a pure function of its arguments. Callers are
// responsible for substituting documented defaults for missing inputs before calling
// in; nothing here knows about absent fields.
package metrics
