// Package display renders status lines on local output devices.
//
// The status reporter produces a small block of coloured text lines
// each cycle; renderers put that block somewhere a person can see it.
// Two implementations exist:
//
//   - Terminal writes ANSI-styled lines to an io.Writer (stdout on
//     the device console, standing in for the handheld's screen).
//   - MQTT publishes the block as a retained JSON document so a
//     dashboard can mirror the on-device display.
//
// Renderers are fire-and-forget: they must not block the collection
// loop and they swallow their own delivery errors (logging them where
// a logger is configured). Multi fans one block out to several
// renderers.
package display
