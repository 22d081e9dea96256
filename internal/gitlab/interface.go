package gitlab

import "context"

// Project is a repository created on the hosting service.
type Project struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Path          string `json:"path"`
	WebURL        string `json:"web_url"`
	SSHURLToRepo  string `json:"ssh_url_to_repo"`
	HTTPURLToRepo string `json:"http_url_to_repo"`
}

// API is the hosting-service collaborator contract.
type API interface {
	// Authenticate verifies the access token against the service.
	Authenticate(ctx context.Context) error

	// CreateProject creates a new empty repository with the given display
	// name and URL path. The returned project carries the web URL and the
	// clone URL of the new mirror.
	CreateProject(ctx context.Context, name, path string) (*Project, error)
}
