package main

// Exit codes for the CLI
const (
	ExitSuccess              = 0
	ExitGeneralError         = 1
	ExitServerUnreachable    = 2
	ExitProjectNotConfigured = 3
	ExitInvalidInput         = 4
	ExitRemoteError          = 5
)
