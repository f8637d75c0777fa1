// Package services defines the shared error taxonomy and context helpers used
// by the transcription and render clients and the workflows that call them.
//
// Every failure surfaced to a caller carries one of the exported sentinel
// errors so the API layer can classify it without string matching. Wrap is
// the single constructor; it prefixes component and operation context so
// messages stay human-readable while errors.Is keeps working.
package services
