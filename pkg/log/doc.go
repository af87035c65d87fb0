// Package log provides structured logging for relog components.
//
// Loggers are built with functional options and write formatted entries to
// one or more outputs:
//
//	logger := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	logger.Info("log registered", log.Str("name", "orders.wal"))
//
// Components receive a Logger via dependency injection and tag their entries
// with WithComponent / log.Component. There is no package-level default
// logger; construct one at startup and pass it down.
package log
