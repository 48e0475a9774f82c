package domain

// Toolchain categories, used in ErrToolchainNotFound metadata.
const (
	ToolCompiler = "compiler"
	ToolArchiver = "archiver"
	ToolLinker   = "linker"
)

// Candidate binaries probed on the search path, in priority order.
var (
	CompilerCandidates = []string{"cc", "gcc", "clang"}
	ArchiverCandidates = []string{"ar", "llvm-ar"}
	LinkerCandidates   = []string{"ld", "ld.lld", "lld-link"}
)

// ToolOverrides pins toolchain binaries instead of probing for them.
// Empty fields are probed.
type ToolOverrides struct {
	Compiler string
	Archiver string
	Linker   string
}

// Toolchain is the set of resolved binaries used for a build.
type Toolchain struct {
	Compiler string
	Archiver string
	Linker   string

	// LinkDriver is the program invoked to link executables. It is the
	// compiler unless the configuration pins a linker, so the C runtime
	// gets linked in.
	LinkDriver string
}
