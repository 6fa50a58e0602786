// Package workspace tracks registered documents so the analysis pipeline can
// see them. A registration binds a text snapshot to a stable key and yields
// an opaque handle used for later updates, re-analysis, and unregistration.
package workspace
