// Package pyenv provisions the project-local Python virtual environment,
// installs the generator's dependencies, runs the generator, and verifies the
// rendered output.
package pyenv
