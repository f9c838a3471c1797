// Package cmd implements the command-line interface of aggbench. It provides
// a small command tree around the benchmark library.
//
// The package is organized into several subpackages:
//
//   - bench: Runs the scenarios and renders markdown tables, CSV and metrics
//   - fixture: Writes synthetic trees as fixture files
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Configuration is read from flags and from AGGBENCH_* environment variables,
// including .env and .env.local files. See aggbench -help for a list of all
// commands.
package cmd
