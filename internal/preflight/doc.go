// Package preflight provides readiness checks for the filesystem paths and
// controller endpoint the panel depends on.
//
// The CLI "queuepanel check" command runs RunAll and prints one line per
// check. Checks never modify state beyond opening and closing a probe
// connection to the controller.
package preflight
