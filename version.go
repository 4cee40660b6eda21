package trove

// Version is the library version, overridden at build time via -ldflags.
var Version = "0.1.0-dev"
