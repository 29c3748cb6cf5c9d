package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	RemoveFileError

	// Logging errors
	CreateLogFileError

	// Configuration errors
	ConfigDeclarationError
	ConfigFixtureNotFoundError

	// Migration source errors
	SourceNotFoundError
	SourceKindError
	SourceReadError
	SourceEmptyScriptError
	SourceEmptySetError
	SourceLayoutError

	// Container errors
	ContainerStartError
	ContainerEndpointError
	ContainerStopError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBExecError
	DBTableCheckError
)
