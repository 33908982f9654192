package config

// Version is the followgraph binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/followgraph/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
