package logging

import "os"

// Indirection over the process stdout so tests can capture console output.
var (
	osStdout = os.Stdout
	osPipe   = os.Pipe
)
