// Package api is the operation facade consumed by the CLI and the IPC
// server.
//
// It composes the library store, object storage, the transcription
// client, and the render orchestrator into the operations a caller works
// with: register a video, generate or edit captions, render exports, and
// manage the video catalog. Lifecycle status transitions on videos and
// exports happen here; the collaborators stay persistence-free.
package api
