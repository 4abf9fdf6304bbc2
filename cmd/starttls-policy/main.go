// starttls-policy keeps a local copy of the STARTTLS Everywhere policy list
// and turns it into MTA configuration.
//
// Usage:
//
//	# Render a Postfix TLS policy map from /etc/starttls-policy/policy.json
//	starttls-policy generate --mta postfix
//
//	# Fetch the published list once, or every six hours
//	starttls-policy update
//	starttls-policy update --schedule
//
//	# Check documents before publishing them
//	starttls-policy validate --file policy.json
//
//	# Layer local overrides on top of the published list
//	starttls-policy merge --base policy.json --overlay local.json
//
//	# Regenerate whenever the policy changes
//	starttls-policy watch --mta postfix
package main

func main() {
	Execute()
}
