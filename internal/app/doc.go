// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle of a loaded model: load,
// update, query and serve, decoupled from any specific entrypoint like a CLI.
package app
