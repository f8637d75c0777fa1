// Package scribe is the HTTP client for the speech-to-text provider.
//
// The provider exposes three endpoints: a binary upload that returns a
// payload URL, a job submission that returns a job id, and a polling
// endpoint that reports job status and, on completion, word-level
// timestamps. Responses are validated here so malformed provider payloads
// surface as transcription errors instead of propagating zero values.
package scribe
