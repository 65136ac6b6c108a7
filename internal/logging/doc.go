// Package logging constructs slog loggers for the CLI.
//
// Loggers write to stderr by default and additionally to a file under the
// configured log directory. The console format uses slog's text handler;
// the json format is intended for piping into log tooling.
package logging
