package transaction

import (
	"strconv"

	"github.com/coreseekdev/texere-dm/pkg/document"
)

// OpType identifies which of the six operation variants an Op is.
type OpType int

const (
	OpRetain OpType = iota
	OpRetainMetadata
	OpReplace
	OpReplaceMetadata
	OpAttribute
	OpAnnotate
)

func (t OpType) String() string {
	switch t {
	case OpRetain:
		return "retain"
	case OpRetainMetadata:
		return "retainMetadata"
	case OpReplace:
		return "replace"
	case OpReplaceMetadata:
		return "replaceMetadata"
	case OpAttribute:
		return "attribute"
	case OpAnnotate:
		return "annotate"
	default:
		return "unknown"
	}
}

// Op is one entry of a Transaction's operation list. Every variant reports
// its Type and how much it consumes on its own axis when replayed against
// the original document (Len): retain and replace count data offsets
// (Length and len(Remove)), retainMetadata and replaceMetadata count
// metadata cells (Length and 1), attribute and annotate consume nothing.
type Op interface {
	Type() OpType
	Len() int
	String() string
}

// RetainOp steps Length offsets of data forward unchanged.
type RetainOp struct {
	Length int
}

func (o RetainOp) Type() OpType  { return OpRetain }
func (o RetainOp) Len() int  { return o.Length }
func (o RetainOp) String() string {
	return "retain " + strconv.Itoa(o.Length)
}

// RetainMetadataOp steps Length metadata cells forward unchanged.
type RetainMetadataOp struct {
	Length int
}

func (o RetainMetadataOp) Type() OpType  { return OpRetainMetadata }
func (o RetainMetadataOp) Len() int  { return o.Length }
func (o RetainMetadataOp) String() string {
	return "retainMetadata " + strconv.Itoa(o.Length)
}

// ReplaceOp removes Remove and substitutes Insert in the data stream. A pure
// insertion has an empty Remove; a pure deletion has an empty Insert.
type ReplaceOp struct {
	Remove []document.Item
	Insert []document.Item
}

func (o ReplaceOp) Type() OpType { return OpReplace }
func (o ReplaceOp) Len() int { return len(o.Remove) }
func (o ReplaceOp) String() string {
	return "replace " + strconv.Itoa(len(o.Remove)) + "->" + strconv.Itoa(len(o.Insert))
}

// ReplaceMetadataOp replaces the metadata elements of a single cell.
type ReplaceMetadataOp struct {
	Remove []document.MetaItem
	Insert []document.MetaItem
}

func (o ReplaceMetadataOp) Type() OpType { return OpReplaceMetadata }
func (o ReplaceMetadataOp) Len() int { return 1 }
func (o ReplaceMetadataOp) String() string {
	return "replaceMetadata " + strconv.Itoa(len(o.Remove)) + "->" + strconv.Itoa(len(o.Insert))
}

// AttributeOp changes a single attribute of the opening element marker it is
// positioned over (via a preceding retain), from From to To. A nil From/To
// means the attribute was absent/becomes absent.
type AttributeOp struct {
	Key  string
	From interface{}
	To   interface{}
}

func (o AttributeOp) Type() OpType  { return OpAttribute }
func (o AttributeOp) Len() int  { return 0 }
func (o AttributeOp) String() string {
	return "attribute " + o.Key
}

// AnnotateMethod selects whether an AnnotateOp adds or removes membership in
// the referenced annotation.
type AnnotateMethod string

const (
	AnnotateSet   AnnotateMethod = "set"
	AnnotateClear AnnotateMethod = "clear"
)

// AnnotateBias marks whether an AnnotateOp opens ("start") or closes
// ("stop") the span of characters it applies to; the builder always emits
// these in matched start/stop pairs around the retained span they annotate.
type AnnotateBias string

const (
	AnnotateStart AnnotateBias = "start"
	AnnotateStop  AnnotateBias = "stop"
)

// AnnotateOp toggles membership of the annotation at Index across the span
// of data between a "start" and its matching "stop".
type AnnotateOp struct {
	Method AnnotateMethod
	Bias   AnnotateBias
	Index  int
}

func (o AnnotateOp) Type() OpType  { return OpAnnotate }
func (o AnnotateOp) Len() int  { return 0 }
func (o AnnotateOp) String() string {
	return "annotate " + string(o.Method) + " " + string(o.Bias)
}

