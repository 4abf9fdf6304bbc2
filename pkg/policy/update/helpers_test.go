package update

import (
	"context"
	"fmt"
	"testing"

	"starttls-hq/everywhere/pkg/policy/codec"
	"starttls-hq/everywhere/pkg/policy/model"
)

// document returns a minimal valid policy document with the given timestamp.
func document(timestamp int64) string {
	return fmt.Sprintf(`{
  "timestamp": %d,
  "expires": "2100-01-01T00:00:00+0000",
  "policies": {
    "example.com": {"mode": "enforce", "mxs": [".example.com"]}
  }
}`, timestamp)
}

func mustConfig(t *testing.T, timestamp int64) *model.Config {
	t.Helper()
	cfg, err := codec.Deserialize([]byte(document(timestamp)))
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	return cfg
}

// staticFetcher returns fixed data or a fixed error.
type staticFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *staticFetcher) Fetch(context.Context) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

// memoryRecorder collects history records in memory.
type memoryRecorder struct {
	records []*Record
}

func (r *memoryRecorder) Record(_ context.Context, rec *Record) error {
	r.records = append(r.records, rec)
	return nil
}
