// Package logger provides structured logging for apikit components
// using zerolog.
//
// Every component in the library accepts a *Logger and tags its output
// with a component field, so a single client produces a coherent,
// filterable log stream.
//
// # Usage
//
//	log := logger.NewDefault("orders-api")
//	log.WithComponent("tokencache").Debug("cache hit", logger.Fields(
//	    "audience", "api://orders",
//	))
package logger
