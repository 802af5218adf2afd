package tracing

// Span attribute keys.
const (
	AttrFunction   = "overload.function"
	AttrSignatures = "overload.signatures"
	AttrCandidates = "overload.candidates"
	AttrSources    = "overload.sources"
	AttrTypes      = "overload.types"
	AttrFunctions  = "overload.functions"
	AttrRegistryID = "overload.registry.id"

	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// Span names.
const (
	SpanDefine   = "overload.define"
	SpanMerge    = "overload.merge"
	SpanManifest = "overload.manifest.apply"
)
