package version

// Version is the current semantic version of msgpool, surfaced through
// cmd/msgpoolbench's --version flag.
const Version = "0.1.0"
