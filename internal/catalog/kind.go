package catalog

import (
	"fmt"
	"strings"
)

// Kind names a resource table.
type Kind int

const (
	KindAppReg Kind = iota
	KindLayer
	KindLinetype
	KindTextStyle
	KindShapeStyle
	KindBlock
	KindDimStyle
	KindMLineStyle
	KindGroup
	KindUCS
	KindView
	KindVPort
	KindImageDef
	KindUnderlayDgn
	KindUnderlayDwf
	KindUnderlayPdf
)

var kindNames = [...]string{
	KindAppReg:      "appreg",
	KindLayer:       "layer",
	KindLinetype:    "linetype",
	KindTextStyle:   "textstyle",
	KindShapeStyle:  "shapestyle",
	KindBlock:       "block",
	KindDimStyle:    "dimstyle",
	KindMLineStyle:  "mlinestyle",
	KindGroup:       "group",
	KindUCS:         "ucs",
	KindView:        "view",
	KindVPort:       "vport",
	KindImageDef:    "imagedef",
	KindUnderlayDgn: "underlay-dgn",
	KindUnderlayDwf: "underlay-dwf",
	KindUnderlayPdf: "underlay-pdf",
}

// Kinds lists every kind in table order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a kind from its name. Matching ignores case, dashes and
// a trailing "s", so "Layers" and "underlaydgn" both resolve.
func ParseKind(s string) (Kind, error) {
	norm := func(v string) string {
		v = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), "-", ""))
		return strings.TrimSuffix(v, "s")
	}
	want := norm(s)
	for i, name := range kindNames {
		if norm(name) == want {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, s)
}

// allowsStarPrefix reports whether names of this kind may start with '*'.
func (k Kind) allowsStarPrefix() bool {
	return k == KindBlock || k == KindGroup || k == KindVPort
}

// reservedNames lists the names that are always present and cannot be
// removed or renamed.
func (k Kind) reservedNames() []string {
	switch k {
	case KindAppReg:
		return []string{"ACAD"}
	case KindLayer:
		return []string{"0"}
	case KindLinetype:
		return []string{"ByLayer", "ByBlock", "Continuous"}
	case KindTextStyle, KindDimStyle, KindMLineStyle:
		return []string{"Standard"}
	case KindBlock:
		return []string{"*Model_Space", "*Paper_Space"}
	case KindVPort:
		return []string{"*Active"}
	}
	return nil
}

func (k Kind) isReservedName(name string) bool {
	key := Key(name)
	for _, r := range k.reservedNames() {
		if Key(r) == key {
			return true
		}
	}
	return false
}

// Relation tags the role a reference plays, so a referencer holding the same
// resource in two roles keeps two separate references.
type Relation string

const (
	RelLayer            Relation = "layer"
	RelLinetype         Relation = "linetype"
	RelTextStyle        Relation = "text-style"
	RelShapeStyle       Relation = "shape-style"
	RelBlock            Relation = "block"
	RelDimStyle         Relation = "dim-style"
	RelDimLineLinetype  Relation = "dim-line-linetype"
	RelExtLine1Linetype Relation = "ext-line1-linetype"
	RelExtLine2Linetype Relation = "ext-line2-linetype"
	RelLeaderArrow      Relation = "leader-arrow"
	RelDimArrow1        Relation = "dim-arrow1"
	RelDimArrow2        Relation = "dim-arrow2"
	RelMLineStyle       Relation = "mline-style"
	RelElementLinetype  Relation = "element-linetype"
	RelImageDef         Relation = "image-def"
	RelUnderlayDef      Relation = "underlay-def"
	RelXData            Relation = "xdata"
)
