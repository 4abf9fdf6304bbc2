package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"starttls-hq/everywhere/pkg/policy/codec"
	"starttls-hq/everywhere/pkg/policy/model"
)

const testDocument = `{
  "author": "Electronic Frontier Foundation",
  "timestamp": "2018-06-18T09:41:50.264201364-07:00",
  "expires": "2018-07-16T09:41:50.264201364-07:00",
  "policy-aliases": {
    "gmail": {"mode": "enforce", "mxs": [".gmail-smtp-in.l.google.com", ".google.com"]}
  },
  "policies": {
    ".valid.example-recipient.com": {
      "mode": "enforce",
      "mxs": [".valid.example-recipient.com"]
    },
    "gmail.com": {"policy-alias": "gmail"},
    "testing.org": {"mxs": ["mx.testing.org"]}
  }
}`

func mustDeserialize(t *testing.T, doc string) *model.Config {
	t.Helper()
	cfg, err := codec.Deserialize([]byte(doc))
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	return cfg
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "postfix"},
		{name: "Postfix"},
		{name: "exim", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Lookup(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && g.Name() != "postfix" {
				t.Errorf("Name() = %q", g.Name())
			}
		})
	}

	if names := Names(); len(names) != 1 || names[0] != "postfix" {
		t.Errorf("Names() = %v", names)
	}
}

func TestPostfix_Generate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "single enforced domain",
			doc: `{
  "timestamp": 1, "expires": 2,
  "policies": {".valid.example-recipient.com": {"mode": "enforce", "mxs": [".valid.example-recipient.com"]}}
}`,
			want: ".valid.example-recipient.com  secure match=.valid.example-recipient.com",
		},
		{
			name: "aliases and padding",
			doc:  testDocument,
			want: strings.Join([]string{
				".valid.example-recipient.com  secure match=.valid.example-recipient.com",
				"gmail.com                     secure match=.gmail-smtp-in.l.google.com,.google.com",
				"testing.org                  may ",
			}, "\n"),
		},
		{
			name: "no policies",
			doc:  `{"timestamp": 1, "expires": 2, "policies": {}}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Postfix{}.Generate(mustDeserialize(t, tt.doc))
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Generate() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestPostfix_Instructions(t *testing.T) {
	g := Postfix{}
	path := filepath.Join("policies", g.DefaultFilename())
	instructions := g.Instructions(path)

	for _, want := range []string{
		"postmap ",
		"postconf -e \"smtp_tls_policy_maps=",
		"postfix reload",
		g.DefaultFilename(),
	} {
		if !strings.Contains(instructions, want) {
			t.Errorf("instructions missing %q", want)
		}
	}

	abs, _ := filepath.Abs(path)
	if !strings.Contains(instructions, "hash:"+abs) {
		t.Errorf("instructions should reference absolute path %s", abs)
	}
}

func TestManualInstructions(t *testing.T) {
	got := ManualInstructions(Postfix{}, "/etc/starttls-policy/postfix_tls_policy")
	wantPrefix := "\n" +
		"--------------------------------------------------\n" +
		"Manual installation instructions for Postfix\n" +
		"--------------------------------------------------\n" +
		"\nFirst, run:"
	if !strings.HasPrefix(got, wantPrefix) {
		t.Errorf("ManualInstructions() = %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	cfg := mustDeserialize(t, testDocument)
	path := filepath.Join(t.TempDir(), "out", Postfix{}.DefaultFilename())

	if err := WriteFile(Postfix{}, cfg, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := Postfix{}.Generate(cfg)
	if string(data) != want+"\n" {
		t.Errorf("file content = %q, want %q", data, want+"\n")
	}
}
