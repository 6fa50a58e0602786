// Package app wires the contained-document pipeline together: it scans a
// host document, binds an adapter per embedded region, and exposes the
// analysis results. It is the layer the command-line front end drives.
package app
