// Package cli implements the command-line interface for schedulestorm.
//
// The cli package provides the Cobra-based CLI that runs the scrape loop.
// It loads configuration from the environment, connects the catalog store
// (MongoDB, or an in-memory store for dry runs) and drives full scrape
// cycles on the configured interval until interrupted.
package cli
