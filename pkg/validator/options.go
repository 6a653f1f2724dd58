package validator

import "fmt"

// Options are independent compilation toggles. Each one trades compile-time
// work or memory for faster or smaller programs; disabling any or all of
// them still produces a correct program, just a less optimized one, which
// keeps them usable for debugging and for measuring what an optimization
// buys.
type Options struct {
	// CompilePatterns de-duplicates the compiled-regex table by exact
	// pattern text. Disabled, every pattern use gets its own table entry.
	CompilePatterns bool

	// OptimizeRanges fuses a slot's minimum and maximum bounds into a
	// single range instruction. Disabled, each bound checks separately.
	OptimizeRanges bool

	// OptimizeTypes memoizes the range-name to value-type mapping across
	// slots. Disabled, the mapping is recomputed per slot.
	OptimizeTypes bool

	// PrecomputeInheritance reuses memoized induced-slot resolutions
	// across compiles. Disabled, every compile re-resolves the class's
	// inheritance graph from scratch.
	PrecomputeInheritance bool

	// CachePermissibleValues de-duplicates permissible-value sets by enum
	// name. Disabled, every enum use gets its own set.
	CachePermissibleValues bool
}

// DefaultOptions returns all optimizations enabled.
func DefaultOptions() Options {
	return Options{
		CompilePatterns:        true,
		OptimizeRanges:         true,
		OptimizeTypes:          true,
		PrecomputeInheritance:  true,
		CachePermissibleValues: true,
	}
}

// Fingerprint returns a short stable key for the option set, used to key
// the compiled-program cache.
func (o Options) Fingerprint() string {
	mark := func(b bool) byte {
		if b {
			return '1'
		}
		return '0'
	}
	return fmt.Sprintf("p%cr%ct%ci%ce%c",
		mark(o.CompilePatterns),
		mark(o.OptimizeRanges),
		mark(o.OptimizeTypes),
		mark(o.PrecomputeInheritance),
		mark(o.CachePermissibleValues),
	)
}
