package ir

// Version constants for persisted encodings.
const (
	// CodecVersion is the version of the portable token-tree envelope.
	CodecVersion = "1"

	// Version is the provsim release version.
	Version = "0.1.0"
)
