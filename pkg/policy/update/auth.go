package update

import (
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"starttls-hq/everywhere/pkg/config"
)

// gitAuth resolves the configured git credentials. A nil method means
// anonymous access.
func gitAuth(cfg *config.GitAuthConfig) (transport.AuthMethod, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil

	case "token":
		if cfg.Token == "" {
			return nil, fmt.Errorf("token auth requires non-empty token")
		}
		return &http.BasicAuth{
			Username: "git", // ignored by token-based hosts
			Password: cfg.Token,
		}, nil

	case "ssh":
		if cfg.SSHKeyPath == "" {
			return nil, fmt.Errorf("ssh auth requires ssh_key_path")
		}
		info, err := os.Stat(cfg.SSHKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to access SSH key file: %w", err)
		}
		if mode := info.Mode().Perm(); mode&0o077 != 0 {
			return nil, fmt.Errorf("SSH key file permissions too open (%o), should be 0600", mode)
		}
		auth, err := ssh.NewPublicKeysFromFile("git", cfg.SSHKeyPath, cfg.SSHKeyPassphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to load SSH key: %w", err)
		}
		return auth, nil

	default:
		return nil, fmt.Errorf("unknown auth type: %s", cfg.Type)
	}
}
