package tracing

// Span attribute keys shared by dxfcat commands.
const (
	AttrCommand      = "dxfcat.command"
	AttrManifest     = "dxfcat.manifest"
	AttrKind         = "catalog.kind"
	AttrResourceName = "catalog.name"
	AttrHandleCount  = "catalog.handles"
	AttrRemoved      = "catalog.removed"
)

// SpanPrefixCommand prefixes the root span of every CLI command.
const SpanPrefixCommand = "command."
