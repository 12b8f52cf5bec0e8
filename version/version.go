package version

// Version is overridden at build time with -ldflags "-X github.com/medilink/medilink/version.Version=..."
var Version = "0.1.0"
