package logger

import (
	"log"
	"os"
)

// ProgressLogger logs the main steps of frame tree construction and flow.
var ProgressLogger = log.New(os.Stdout, "frameflow.progress: ", log.LstdFlags)

// WarningLogger emits a warning for each non fatal error, like unsupported
// display or vertical-align values, or undecodable replaced content.
var WarningLogger = log.New(os.Stdout, "frameflow.warning: ", log.Lmsgprefix)
