package version

// Version is the current version of db-dump.
// Can be overridden at build time with -ldflags "-X db-dump/internal/version.Version=..."
var Version = "1.0"

// Name is the application name, printed in the dump banner.
const Name = "db-dump"
