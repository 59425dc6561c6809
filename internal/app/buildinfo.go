package app

// Build information populated via -ldflags at release time.
var (
    BuildVersion = "0.0.0-dev"
    BuildCommit  = "unknown"
)
