package version

// These variables are injected at build time via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns the version line printed by `xa version`.
func String() string {
	return Version + " (" + shortCommit() + ", " + BuildDate + ")"
}

func shortCommit() string {
	if len(GitCommit) >= 7 {
		return GitCommit[:7]
	}
	return GitCommit
}
