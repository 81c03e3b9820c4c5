// Package cli assembles the galaxy-bootstrap command hierarchy, wiring
// configuration loading, structured logging, and the bootstrap subcommands.
package cli
