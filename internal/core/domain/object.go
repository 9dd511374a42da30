package domain

// CompiledObject is the result for one module: its fat object and entry symbol.
type CompiledObject struct {
	Module     Module
	ObjectPath string
	Symbol     EntrySymbol
	// Rebuilt is true when the object was compiled in this build rather than reused.
	Rebuilt bool
}

// BuildResult is what a build hands to the linker.
type BuildResult struct {
	// Objects mirrors the planned module order.
	Objects []CompiledObject
	// App holds the leading application objects.
	App []CompiledObject
	// Spec holds the trailing spec objects.
	Spec []CompiledObject
	// AnyBuilt reports whether at least one object was rebuilt.
	AnyBuilt bool
}

// RebuiltCount returns how many objects were compiled in this build.
func (r *BuildResult) RebuiltCount() int {
	n := 0
	for _, o := range r.Objects {
		if o.Rebuilt {
			n++
		}
	}
	return n
}

// SplitObjects splits objects positionally: the first appCount entries are
// application objects, the trailing specCount entries are spec objects.
// No check is made that the counts add up to len(objs); out-of-range counts are clamped.
func SplitObjects(objs []CompiledObject, appCount, specCount int) (app, spec []CompiledObject) {
	appCount = clamp(appCount, len(objs))
	specCount = clamp(specCount, len(objs))

	app = objs[:appCount]
	spec = objs[len(objs)-specCount:]
	return app, spec
}

func clamp(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
