package application

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/relhist/relhist/internal/domain/port/driven"
)

// ParseRepoURL extracts the owner and name from a repository URL of the form
// https://github.com/<owner>/<name>. A trailing slash and a ".git" suffix are
// tolerated; extra path segments beyond owner/name are ignored. Anything else
// fails with driven.ErrInvalidRepoURL before any network call is made.
func ParseRepoURL(raw string) (owner, name string, err error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", driven.ErrInvalidRepoURL, raw)
	}

	if parsed.Host != "github.com" {
		return "", "", fmt.Errorf("%w: host %q is not github.com", driven.ErrInvalidRepoURL, parsed.Host)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: path %q lacks owner/name", driven.ErrInvalidRepoURL, parsed.Path)
	}

	owner = parts[0]
	name = strings.TrimSuffix(parts[1], ".git")
	if name == "" {
		return "", "", fmt.Errorf("%w: path %q lacks owner/name", driven.ErrInvalidRepoURL, parsed.Path)
	}

	return owner, name, nil
}
