// Package version holds build identity constants.
package version

const (
	AppName = "Bowtie"
	// Version is overridden at build time with -ldflags.
	Version = "dev"
)
