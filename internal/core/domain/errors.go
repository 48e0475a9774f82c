package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigEvaluation is returned when the build script cannot be evaluated or yields an invalid graph.
	ErrConfigEvaluation = zerr.New("config evaluation failed")

	// ErrInvalidToolOverride is returned when CC, AR or LD is not a single program name.
	ErrInvalidToolOverride = zerr.New("tool override must name a single program")

	// ErrToolchainNotFound is returned when no candidate binary of a toolchain category is on the search path.
	ErrToolchainNotFound = zerr.New("toolchain not found")

	// ErrDependencyScan is returned when the compiler's dependency scan fails or cannot be parsed.
	// It is never fatal; the translation unit is recompiled instead.
	ErrDependencyScan = zerr.New("dependency scan failed")

	// ErrCompileFailed is returned when the compiler exits with a nonzero status.
	ErrCompileFailed = zerr.New("compile failed")

	// ErrLinkFailed is returned when the link driver exits with a nonzero status.
	ErrLinkFailed = zerr.New("link failed")

	// ErrArchiveFailed is returned when the archiver exits with a nonzero status.
	ErrArchiveFailed = zerr.New("archive failed")

	// ErrMissingFile is returned when a required file does not exist.
	ErrMissingFile = zerr.New("missing file")

	// ErrManifestCorrupted is returned when the persisted hash manifest cannot be decoded.
	ErrManifestCorrupted = zerr.New("hash manifest is corrupted")

	// ErrTargetAlreadyExists is returned when a target name is declared twice.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrRuleAlreadyExists is returned when a shell function name is declared twice.
	ErrRuleAlreadyExists = zerr.New("shell rule already exists")

	// ErrReservedName is returned when a shell function uses a name of a generated rule.
	ErrReservedName = zerr.New("name is reserved")

	// ErrMissingDependency is returned when a target references a name that is not declared.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrInvalidDependency is returned when a target depends on something that cannot be a dependency.
	ErrInvalidDependency = zerr.New("invalid dependency")

	// ErrCycleDetected is returned when library dependencies form a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrObjectCollision is returned when two sources of one target map to the same object file.
	ErrObjectCollision = zerr.New("object file collision")

	// ErrEmptyTarget is returned when a target declares no sources.
	ErrEmptyTarget = zerr.New("target has no sources")

	// ErrInvalidTargetName is returned when a target name cannot be used as a path segment
	// and make target, or names an entry of the build directory.
	ErrInvalidTargetName = zerr.New("invalid target name")

	// ErrInvalidProjectName is returned when a project name is invalid.
	ErrInvalidProjectName = zerr.New("project name can only contain alphanumeric characters, hyphens and underscores")

	// ErrProjectRedeclared is returned when project() is called more than once.
	ErrProjectRedeclared = zerr.New("project already declared")

	// ErrInvalidVariableName is returned when a variable name is not a valid make identifier.
	ErrInvalidVariableName = zerr.New("invalid variable name")

	// ErrInvalidCustomStep is returned when a custom step has an unknown type or bad parameters.
	ErrInvalidCustomStep = zerr.New("invalid custom step")

	// ErrInvalidCommand is returned when a shell command is empty, multi-line or not valid shell.
	ErrInvalidCommand = zerr.New("invalid shell command")

	// ErrPackageNotFound is returned when the registry index does not list a package or version.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrUnsupportedPlatform is returned when a package has no folder for the host platform.
	ErrUnsupportedPlatform = zerr.New("unsupported platform")

	// ErrRegistryRequest is returned when the package registry cannot be reached or answers with an error.
	ErrRegistryRequest = zerr.New("registry request failed")

	// ErrInvalidSettings is returned when the settings file holds an invalid value.
	ErrInvalidSettings = zerr.New("invalid settings")

	// ErrInstallScriptMissing is returned when a fetched package has no install script.
	ErrInstallScriptMissing = zerr.New("install script not found")
)

// tag attaches key/value metadata to a sentinel error while keeping the
// sentinel reachable through errors.Is.
func tag(sentinel error, kv ...any) error {
	err := zerr.Wrap(sentinel, "")
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		err = zerr.With(err, key, kv[i+1])
	}
	return err
}
