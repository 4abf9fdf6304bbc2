package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"starttls-hq/everywhere/pkg/policy/model"
)

// Postfix renders an smtp_tls_policy_maps lookup table.
type Postfix struct{}

// Name returns "postfix".
func (Postfix) Name() string { return "postfix" }

// MTAName returns "Postfix".
func (Postfix) MTAName() string { return "Postfix" }

// DefaultFilename returns "postfix_tls_policy".
func (Postfix) DefaultFilename() string { return "postfix_tls_policy" }

// Generate emits one line per domain, sorted by domain, with the domain
// column padded to the longest domain. Enforced domains require a verified
// connection to one of their MX patterns, testing domains use opportunistic
// TLS.
func (Postfix) Generate(cfg *model.Config) (string, error) {
	policies, err := cfg.Resolved()
	if err != nil {
		return "", err
	}

	domains := make([]string, 0, len(policies))
	width := 0
	for domain := range policies {
		domains = append(domains, domain)
		if len(domain) > width {
			width = len(domain)
		}
	}
	sort.Strings(domains)

	lines := make([]string, 0, len(domains))
	for _, domain := range domains {
		lines = append(lines, postfixLine(domain, policies[domain], width))
	}
	return strings.Join(lines, "\n"), nil
}

func postfixLine(domain string, p *model.Policy, width int) string {
	line := fmt.Sprintf("%-*s ", width, domain)
	switch p.Mode() {
	case model.ModeEnforce:
		line += " secure match=" + strings.Join(p.MXs(), ",")
	case model.ModeTesting:
		line += "may "
	}
	return line
}

// Instructions explains how to hash the table and point Postfix at it.
func (Postfix) Instructions(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	return "\nFirst, run:\n\n" +
		"postmap " + absPath + "\n\n" +
		"Then, you'll need to point your Postfix configuration to " + path + ".\n" +
		"Check if `postconf smtp_tls_policy_maps` includes this file.\n" +
		"If not, run:\n\n" +
		"postconf -e \"smtp_tls_policy_maps=$(postconf -h smtp_tls_policy_maps) hash:" + absPath + "\"\n\n" +
		"And finally:\n\n" +
		"postfix reload\n"
}
