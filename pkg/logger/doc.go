// Package logger provides a slog.Logger factory and typed attribute helpers
// shared by the notification subsystem packages.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithProduction("notify"),
//	    logger.WithLevel(slog.LevelInfo),
//	)
//	logger.SetAsDefault(log)
//
// Attribute helpers keep log keys consistent across packages:
//
//	log.LogAttrs(ctx, slog.LevelWarn, "token disabled",
//	    logger.RecipientID(rec),
//	    logger.Token(tok),
//	    logger.Error(err),
//	)
//
// Device tokens are masked before logging; only the trailing characters are
// emitted so logs can correlate tokens without storing usable endpoints.
package logger
