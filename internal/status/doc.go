// Package status builds the per-cycle status block shown on the
// device's local display.
//
// The reporter consumes cycle outcomes from the collection loop and
// translates them into short human-readable lines: a greeting, the
// backend link state, the upload result, and the latest readings. It
// holds no state of its own; every block is derived entirely from the
// outcome it was handed.
package status
