// Package storage abstracts the object store holding uploaded media.
//
// The upload flow and the caption workflows talk to this interface only; the
// default implementation keeps objects on the local filesystem under the
// configured upload directory, which is also what tests use. A hosted bucket
// backend satisfies the same four operations.
package storage
