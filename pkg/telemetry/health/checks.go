package health

import (
	"context"
	"fmt"
	"time"

	"starttls-hq/everywhere/pkg/policy/codec"
)

// PolicyCheck fails when the document at path cannot be loaded or has
// expired.
func PolicyCheck(path string, now func() time.Time) CheckFunc {
	return func(context.Context) error {
		cfg, err := codec.ReadFile(path)
		if err != nil {
			return err
		}
		if cfg.Expired(now()) {
			return fmt.Errorf("policy expired at %s", cfg.Expires().Format(time.RFC3339))
		}
		return nil
	}
}

// FreshnessCheck fails when the last successful update is older than
// maxStaleness, or when there has been none. last reports the time of the
// last success.
func FreshnessCheck(last func(ctx context.Context) (time.Time, bool, error), maxStaleness time.Duration, now func() time.Time) CheckFunc {
	return func(ctx context.Context) error {
		at, ok, err := last(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no successful update yet")
		}
		if age := now().Sub(at); age > maxStaleness {
			return fmt.Errorf("last successful update %s ago exceeds %s", age.Round(time.Second), maxStaleness)
		}
		return nil
	}
}
