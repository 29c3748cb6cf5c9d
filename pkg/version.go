package gnfixture

var (
	// Version of gnfixture.
	Version = "v0.1.0"

	// Build timestamp or commit, set by ldflags.
	Build = "n/a"
)
