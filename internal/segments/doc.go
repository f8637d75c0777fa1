// Package segments converts provider word timestamps into caption segments
// and re-splits overlong segments for display.
//
// The package is pure: no I/O, no logging, no clock. Builders guarantee that
// output ids form a contiguous 1-based sequence and that segment ordering
// follows word order. Timing is carried in seconds; provider words arrive in
// milliseconds and are converted at the boundary here.
package segments
