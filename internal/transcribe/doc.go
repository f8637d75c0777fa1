// Package transcribe turns a media file into timed caption segments.
//
// A Transcriber uploads the media to the speech-to-text provider, submits
// a transcription job, and polls until the job reaches a terminal state.
// Completed jobs with word-level timestamps are grouped into caption
// windows; jobs without word timing fall back to a single segment spanning
// the reported audio duration.
package transcribe
