package config

// ManifestFileName is the manifest looked up by the CLI when --manifest is not given.
const ManifestFileName = "overload.yaml"

// ManifestFileNames are all recognized manifest file names, in lookup order.
var ManifestFileNames = []string{"overload.yaml", "overload.yml"}

// Signature grammar tokens
const (
	RestMarker     = "..."
	ParamSeparator = ","
	UnionSeparator = "|"
)

// Wildcard type
const AnyTypeName = "any"

// Built-in type names
const (
	NumberTypeName   = "number"
	StringTypeName   = "string"
	BooleanTypeName  = "boolean"
	FunctionTypeName = "Function"
	ArrayTypeName    = "Array"
	DateTypeName     = "Date"
	RegExpTypeName   = "RegExp"
	UUIDTypeName     = "UUID"
	ObjectTypeName   = "Object"
	NullTypeName     = "null"
)

// MaxFastPaths bounds the unrolled checks a dispatcher builds for its
// leading low-arity candidates.
const MaxFastPaths = 6

// MaxFastPathArity is the largest arity eligible for a fast path.
const MaxFastPathArity = 2

// UnnamedFunction is used in diagnostics for dispatchers built without a name.
const UnnamedFunction = "unnamed"

// Environment
const (
	EnvPrefix  = "OVERLOAD"
	EnvDebug   = "OVERLOAD_DEBUG"
	EnvNoColor = "NO_COLOR"
)
