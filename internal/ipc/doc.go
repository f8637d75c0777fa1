// Package ipc exposes the api facade to local clients via JSON-RPC over a
// Unix domain socket. The CLI talks to a running serve process through
// this package instead of opening the library database itself.
package ipc
