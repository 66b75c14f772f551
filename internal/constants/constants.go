package constants

// Input file handling
const (
	// ClassDocumentExtension is the suffix of class document files
	ClassDocumentExtension = ".uir.yaml"

	// DefaultIncludePattern matches class documents recursively
	DefaultIncludePattern = "**/*.uir.yaml"
)

// Decompilation defaults
const (
	// DefaultMaxWorkers bounds per-method parallelism. One worker keeps
	// decompilation deterministic and is plenty for typical inputs.
	DefaultMaxWorkers = 1

	// MaxWorkerLimit caps the configurable worker count
	MaxWorkerLimit = 64
)

// Output defaults
const (
	// DefaultOutputFormat is used when neither flags nor config pick one
	DefaultOutputFormat = "text"

	// DefaultIndent is the indentation unit for text output
	DefaultIndent = "    "
)

// Configuration file names probed in the working directory, in order
var ConfigFileNames = []string{
	".unflat.toml",
	".unflat.yaml",
	"unflat.toml",
}
