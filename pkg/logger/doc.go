// Package logger builds the structured slog loggers used across vendingkit.
//
// New assembles a *slog.Logger from functional options: level, output format
// (JSON or text), destination, static attributes and context extractors. The
// extractors run on every record logged with a context, so request and
// transaction ids show up without threading loggers around. A key the record
// already carries is not added again.
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "vendingd"),
//	    logger.WithContextExtractors(logger.TransactionIDExtractor()),
//	)
//
//	ctx = logger.WithTransactionID(ctx, txID)
//	log.InfoContext(ctx, "coin inserted", logger.Amount(100))
//
// Attribute helpers (Error, Component, State, ProductID, Coins and friends)
// keep key names consistent between packages.
package logger
