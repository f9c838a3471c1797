// Package common provides the configuration and logging shared by the
// benchmark packages and the command line.
//
// Key Components:
//
//   - BenchConfig: Configuration of a benchmark run, including codec
//     selection, scenarios and output files. String renders it as an aligned
//     table for the startup banner.
//
//   - Logger: Custom logging implementation that plugs into dragonboat's
//     logger registry, so packages obtain loggers with logger.GetLogger and
//     share one format.
package common
