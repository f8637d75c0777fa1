// Command capforge is the CLI for the capforge captioning service. Most
// subcommands talk to a running serve process over its Unix socket; the
// transcribe and config subcommands work standalone.
package main
