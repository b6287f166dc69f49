package intellitype

// NumberMode dictates how numbers are interpreted when decoding a Source.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Fast mode (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number.
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity
}

// ParseOpt bundles decoding options for ParseFrom and Decode.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	FailFast   bool
	// Warnings receives non-fatal issues such as duplicate keys in Warn mode.
	Warnings func(Issue)
}
