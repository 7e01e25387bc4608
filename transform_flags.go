package gekko

// TransformFlags tracks dirty matrices and per-frame change bits of a node.
// Every "changed" bit has a Prev twin that holds the previous frame's value.
type TransformFlags uint16

const (
	FlagLocalDirty TransformFlags = 1 << iota
	FlagWorldDirty
	FlagLocalChanged
	FlagLocalChangedPrev
	FlagWorldChanged
	FlagWorldChangedPrev
	FlagParentChanged
	FlagParentChangedPrev
	FlagHierarchyChanged
	FlagHierarchyChangedPrev
)

const (
	flagsThisFrame = FlagLocalChanged | FlagWorldChanged | FlagParentChanged | FlagHierarchyChanged
	flagsPrevFrame = FlagLocalChangedPrev | FlagWorldChangedPrev | FlagParentChangedPrev | FlagHierarchyChangedPrev
)

func (f TransformFlags) Has(mask TransformFlags) bool {
	return f&mask == mask
}

func (f TransformFlags) Any(mask TransformFlags) bool {
	return f&mask != 0
}

// shifted moves this frame's bits into the Prev slots and clears this frame.
// Each Prev bit sits directly above its current-frame bit.
func (f TransformFlags) shifted() TransformFlags {
	kept := f &^ (flagsThisFrame | flagsPrevFrame)
	return kept | (f&flagsThisFrame)<<1
}
