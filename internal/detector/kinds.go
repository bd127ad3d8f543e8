package detector

// Detector kinds. These are the canonical names used in configuration, CLI
// flags, and result paths.
const (
	KindZScore   = "zscore"
	KindEwma     = "ewma"
	KindAdaptive = "adaptive"
)

// Kinds returns all detector kinds in canonical order.
func Kinds() []string {
	return []string{KindZScore, KindEwma, KindAdaptive}
}

// ValidKind reports whether name is a recognized detector kind.
func ValidKind(name string) bool {
	switch name {
	case KindZScore, KindEwma, KindAdaptive:
		return true
	}
	return false
}
