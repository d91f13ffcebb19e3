// Package logging configures the process-wide logrus logger of the sfmeta
// command: a terse console sink ("LEVEL|message") and an optional detailed
// file sink, each with its own level.
package logging
