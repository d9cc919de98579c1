package scope

// DefaultDenyPatterns lists resources no task may touch regardless of its
// scope. Paths that previously caused cross-domain damage stay denied
// permanently.
var DefaultDenyPatterns = []string{
	"**/.git/**",
	"**/secrets/**",
	"**/credentials/**",
	"**/*.pem",
	"**/*.key",
	"**/.env",
	"**/.ssh/**",
}
