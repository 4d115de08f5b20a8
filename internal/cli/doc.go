// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// layers a YAML config file, PARAGRID_* environment variables (optionally
// read from a .env file) and command-line flags into the application's
// configuration, in that order of precedence.
package cli
