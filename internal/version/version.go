package version

// Version is overridden at build time with -ldflags "-X meclust/internal/version.Version=...".
var Version = "dev"
