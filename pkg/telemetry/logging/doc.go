// Package logging provides structured logging for the starttls-policy tool.
//
// The package wraps log/slog with:
//   - JSON, text and console formats
//   - Credential redaction (URL user info, bearer tokens, token=... pairs)
//     so git and HTTP sources never leak secrets into logs
//   - Context fields for update runs (update_id, source, mta)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithUpdateID(ctx, id)
//	logger.WithContext(ctx).Info("policy fetched", "bytes", len(data))
package logging
