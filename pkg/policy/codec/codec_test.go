package codec

import (
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	policyErrors "starttls-hq/everywhere/pkg/policy/errors"
	"starttls-hq/everywhere/pkg/policy/model"
)

const testDocument = `{
  "author": "Electronic Frontier Foundation",
  "timestamp": 1401093333,
  "expires": "2014-06-06T14:30:16+0000",
  "pinsets": {
    "eff": {"static-spki-hashes": ["0IMgI3gBVnQbFqzEmtN7yn4FtjIhebu0ekNMlMdYCDU="]}
  },
  "policy-aliases": {
    "gmail": {"mode": "enforce", "mxs": [".gmail-smtp-in.l.google.com"]}
  },
  "policies": {
    "eff.org": {"mode": "enforce", "mxs": [".eff.org"], "pin": "eff"},
    "gmail.com": {"policy-alias": "gmail"},
    "example.com": {"mxs": ["mx.example.com"]}
  }
}`

func TestDeserialize(t *testing.T) {
	cfg, err := Deserialize([]byte(testDocument))
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}

	if want := time.Date(2014, 5, 26, 8, 35, 33, 0, time.UTC); !cfg.Timestamp().Equal(want) {
		t.Errorf("Timestamp() = %v, want %v", cfg.Timestamp(), want)
	}
	if want := time.Date(2014, 6, 6, 14, 30, 16, 0, time.UTC); !cfg.Expires().Equal(want) {
		t.Errorf("Expires() = %v, want %v", cfg.Expires(), want)
	}

	p, err := cfg.GetPolicyFor("example.com")
	if err != nil {
		t.Fatalf("GetPolicyFor() error = %v", err)
	}
	if p.Mode() != model.ModeTesting || p.MinTLSVersion() != model.DefaultMinTLSVersion {
		t.Errorf("defaults not injected: %v", p.Wire())
	}

	p, err = cfg.GetPolicyFor("gmail.com")
	if err != nil || p.Mode() != model.ModeEnforce {
		t.Errorf("alias not resolved: %v, %v", p, err)
	}
}

func TestDeserialize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantType policyErrors.ErrorType
	}{
		{
			name:     "syntax error",
			doc:      `{"timestamp": `,
			wantType: policyErrors.ErrorTypeMalformedDocument,
		},
		{
			name:     "not an object",
			doc:      `[1, 2]`,
			wantType: policyErrors.ErrorTypeMalformedDocument,
		},
		{
			name:     "missing timestamp",
			doc:      `{"expires": 1}`,
			wantType: policyErrors.ErrorTypeMissingField,
		},
		{
			name:     "missing expires",
			doc:      `{"timestamp": 1}`,
			wantType: policyErrors.ErrorTypeMissingField,
		},
		{
			name:     "malformed instant",
			doc:      `{"timestamp": "not a date", "expires": 1}`,
			wantType: policyErrors.ErrorTypeMalformedInstant,
		},
		{
			name:     "dangling pin",
			doc:      `{"timestamp": 0, "expires": 1, "policies": {"a.com": {"pin": "missing"}}}`,
			wantType: policyErrors.ErrorTypeInvalidValue,
		},
		{
			name:     "dangling alias",
			doc:      `{"timestamp": 0, "expires": 1, "policies": {"a.com": {"policy-alias": "missing"}}}`,
			wantType: policyErrors.ErrorTypeInvalidValue,
		},
		{
			name:     "invalid mode",
			doc:      `{"timestamp": 0, "expires": 1, "policies": {"a.com": {"mode": "none"}}}`,
			wantType: policyErrors.ErrorTypeInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), malformed) {
				t.Errorf("error %q does not mention %q", err, malformed)
			}
			if !policyErrors.IsType(err, tt.wantType) {
				t.Errorf("error = %v, want type %s", err, tt.wantType)
			}
		})
	}
}

func TestDeserialize_RequiredFieldsPresent(t *testing.T) {
	cfg, err := Deserialize([]byte(`{"timestamp": 0, "expires": 1}`))
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	if cfg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cfg.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	cfg, err := Deserialize([]byte(testDocument))
	if err != nil {
		t.Fatal(err)
	}

	data, err := Serialize(cfg)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if !strings.Contains(string(data), `"timestamp":"2014-05-26T08:35:33+0000"`) {
		t.Errorf("Serialize() timestamp not canonical: %s", data)
	}

	again, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize(Serialize()) error = %v", err)
	}
	data2, err := Serialize(again)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(data2) {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", data2, data)
	}
}

func TestDeserialize_InstantOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		decode func([]byte) (*model.Config, error)
		doc    string
	}{
		{name: "json epoch past year 9999", decode: Deserialize, doc: `{"timestamp": 1, "expires": 253402300800, "policies": {}}`},
		{name: "yaml float beyond int64", decode: DeserializeYAML, doc: "timestamp: 1\nexpires: 1e30\npolicies: {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.decode([]byte(tt.doc))
			if !policyErrors.IsType(err, policyErrors.ErrorTypeMalformedInstant) {
				t.Errorf("error = %v, want malformed instant", err)
			}
		})
	}
}

func TestRoundTrip_LatestInstant(t *testing.T) {
	cfg, err := Deserialize([]byte(`{"timestamp": 1, "expires": 253402300799, "policies": {}}`))
	if err != nil {
		t.Fatal(err)
	}
	data, err := Serialize(cfg)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize(Serialize()) error = %v", err)
	}
	if !again.Expires().Equal(cfg.Expires()) {
		t.Errorf("Expires() = %v, want %v", again.Expires(), cfg.Expires())
	}
}

func TestDeserializeYAML(t *testing.T) {
	doc := `
timestamp: 1401093333
expires: "2014-06-06T14:30:16+0000"
policies:
  eff.org:
    mode: enforce
    mxs:
      - .eff.org
`
	cfg, err := DeserializeYAML([]byte(doc))
	if err != nil {
		t.Fatalf("DeserializeYAML() error = %v", err)
	}
	p, err := cfg.GetPolicyFor("eff.org")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p.MXs(), []string{".eff.org"}) {
		t.Errorf("MXs() = %v", p.MXs())
	}
}

func TestReadWriteFile(t *testing.T) {
	cfg, err := Deserialize([]byte(testDocument))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "policy.json")
	if err := WriteFile(path, cfg); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !got.Timestamp().Equal(cfg.Timestamp()) || got.Len() != cfg.Len() {
		t.Errorf("ReadFile() = %v, want %v", got.Wire(), cfg.Wire())
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want not exist", err)
	}
}
