package publish

import "strings"

const (
	// DefaultCommitUsername is the fallback commit author name.
	DefaultCommitUsername = "render-bot"
	// DefaultCommitEmail is the fallback commit author email.
	DefaultCommitEmail = "render-bot@noreply"
	// DefaultBranch is the fallback push target branch.
	DefaultBranch = "main"
	// DefaultRemoteName is the git remote rewritten and pushed by the sequence.
	DefaultRemoteName = "origin"
	// DefaultArtifactPath is the well-known location of the scan artifact.
	DefaultArtifactPath = "scan_results.csv"
	// DefaultCommitMessagePrefix prefixes every artifact commit message.
	DefaultCommitMessagePrefix = "Update scan results"
)

// Options configures a single publish attempt. Values originate from the
// environment-driven configuration populated once at startup.
type Options struct {
	Token               string
	Username            string
	Email               string
	Repository          string
	Branch              string
	RemoteName          string
	ArtifactPath        string
	CommitMessagePrefix string
	WorkingDirectory    string
}

// Sanitize fills empty optional fields with their documented defaults.
func (options Options) Sanitize() Options {
	options.Token = strings.TrimSpace(options.Token)
	options.Repository = strings.TrimSpace(options.Repository)

	if len(strings.TrimSpace(options.Username)) == 0 {
		options.Username = DefaultCommitUsername
	}
	if len(strings.TrimSpace(options.Email)) == 0 {
		options.Email = DefaultCommitEmail
	}
	if len(strings.TrimSpace(options.Branch)) == 0 {
		options.Branch = DefaultBranch
	}
	if len(strings.TrimSpace(options.RemoteName)) == 0 {
		options.RemoteName = DefaultRemoteName
	}
	if len(strings.TrimSpace(options.ArtifactPath)) == 0 {
		options.ArtifactPath = DefaultArtifactPath
	}
	if len(strings.TrimSpace(options.CommitMessagePrefix)) == 0 {
		options.CommitMessagePrefix = DefaultCommitMessagePrefix
	}

	return options
}

// PublishingEnabled reports whether a publish token is configured.
func (options Options) PublishingEnabled() bool {
	return len(strings.TrimSpace(options.Token)) > 0
}
