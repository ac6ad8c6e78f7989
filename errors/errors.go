// Package errors implements the positional error model (§4.4, §7).
//
// An Error never aborts analysis: every stage that can fail accumulates
// Errors into an Errors value and keeps walking its siblings instead of
// returning early.
package errors

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
)

// FileIndex names a source file by the order in which the Registry first
// saw it. It is comparable and stable for the lifetime of a run.
type FileIndex int

// Position is a source position carrying enough information to render a
// caret. A Builtin position marks a synthetic node inserted by the core
// (meta-fields, built-in scalars, default directives) and compares equal
// across runs regardless of which files were analyzed.
type Position struct {
	FileIndex FileIndex
	Line      int
	Column    int
	Builtin   bool
}

// BuiltinPosition is the canonical position of every synthesized node.
var BuiltinPosition = Position{Builtin: true}

func (p Position) String() string {
	if p.Builtin {
		return "<builtin>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Registry maps *ast.Source values (gqlparser's notion of a file) to a
// stable FileIndex. It is the single process-wide piece of state the core
// relies on (§5, §9): a source is registered the first time one of its
// positions is converted, and keeps that index for the rest of the run.
type Registry struct {
	mu      sync.Mutex
	sources []*ast.Source
	index   map[*ast.Source]FileIndex
}

// NewRegistry creates an empty file registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[*ast.Source]FileIndex)}
}

// Register assigns (or returns the existing) FileIndex for a source.
func (r *Registry) Register(src *ast.Source) FileIndex {
	if src == nil {
		return -1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.index[src]; ok {
		return idx
	}
	idx := FileIndex(len(r.sources))
	r.sources = append(r.sources, src)
	r.index[src] = idx
	return idx
}

// Source returns the *ast.Source registered under idx, or nil.
func (r *Registry) Source(idx FileIndex) *ast.Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx < 0 || int(idx) >= len(r.sources) {
		return nil
	}
	return r.sources[idx]
}

// Position converts a gqlparser AST position into our Position, registering
// the underlying source as a side effect. A nil input yields a Builtin
// position, matching the AST model's "builtin" synthetic nodes (§3).
func (r *Registry) Position(p *ast.Position) Position {
	if p == nil {
		return BuiltinPosition
	}
	return Position{
		FileIndex: r.Register(p.Src),
		Line:      p.Line,
		Column:    p.Column,
		Builtin:   p.Src != nil && p.Src.BuiltIn,
	}
}

// Kind is the closed enumeration of error kinds from §4.4.
type Kind string

const (
	UnknownType                          Kind = "UnknownType"
	UnknownDirective                     Kind = "UnknownDirective"
	UnknownFragment                      Kind = "UnknownFragment"
	UnknownVariable                      Kind = "UnknownVariable"
	UnknownEnumMember                    Kind = "UnknownEnumMember"
	UnknownArgument                      Kind = "UnknownArgument"
	FieldNotFound                        Kind = "FieldNotFound"
	RepeatedDirective                    Kind = "RepeatedDirective"
	DirectiveLocationNotAllowed          Kind = "DirectiveLocationNotAllowed"
	RequiredArgumentNotSpecified         Kind = "RequiredArgumentNotSpecified"
	RequiredFieldNotSpecified            Kind = "RequiredFieldNotSpecified"
	ArgumentTypeMismatch                 Kind = "ArgumentTypeMismatch"
	TypeMismatch                         Kind = "TypeMismatch"
	DuplicatedName                       Kind = "DuplicatedName"
	DuplicateOperationName               Kind = "DuplicateOperationName"
	DuplicateFragmentName                Kind = "DuplicateFragmentName"
	UnnamedOperationMustBeSingle         Kind = "UnnamedOperationMustBeSingle"
	NoRootType                           Kind = "NoRootType"
	InvalidFragmentTarget                Kind = "InvalidFragmentTarget"
	SelectionOnInvalidType               Kind = "SelectionOnInvalidType"
	MustSpecifySelectionSet              Kind = "MustSpecifySelectionSet"
	NoOutputType                         Kind = "NoOutputType"
	NoInputType                          Kind = "NoInputType"
	NonObjectUnionMember                 Kind = "NonObjectUnionMember"
	InterfaceFieldNotImplemented         Kind = "InterfaceFieldNotImplemented"
	InterfaceArgumentNotImplemented      Kind = "InterfaceArgumentNotImplemented"
	FieldTypeMismatchWithInterface       Kind = "FieldTypeMismatchWithInterface"
	ArgumentTypeMismatchWithInterface    Kind = "ArgumentTypeMismatchWithInterface"
	ArgumentTypeNonNullAgainstInterface  Kind = "ArgumentTypeNonNullAgainstInterface"
	RecursingDirective                   Kind = "RecursingDirective"
	RecursingFragmentSpread              Kind = "RecursingFragmentSpread"
	SubscriptionMustHaveExactlyOneField  Kind = "SubscriptionMustHaveExactlyOneRootField"
	UnderscoreUnderscoreReserved         Kind = "UnderscoreUnderscoreReserved"
	DuplicateDefinition                  Kind = "DuplicateDefinition"
	ExtensionWithoutBase                 Kind = "ExtensionWithoutBase"
	FileNotFound                         Kind = "FileNotFound"
	FragmentConditionNeverMatches        Kind = "FragmentConditionNeverMatches"
	ArgumentsNotNeeded                   Kind = "ArgumentsNotNeeded"
	InterfaceImplementsItself            Kind = "InterfaceImplementsItself"
)

// NoteKind classifies a secondary position attached to an Error.
type NoteKind string

const (
	NoteDefinitionPosition       NoteKind = "definition-position"
	NoteAnotherDefinitionPos     NoteKind = "another-definition-pos"
	NoteRootTypesDefinedHere     NoteKind = "root-types-defined-here"
	NoteInvalidFragmentTarget    NoteKind = "invalid-fragment-target"
	NoteGeneric                  NoteKind = "note"
)

// Note is a secondary position plus a classification and human-readable text.
type Note struct {
	Position Position
	Kind     NoteKind
	Message  string
}

// Error is a single diagnostic. Two Errors compare equal iff their Kind and
// Primary position match (§4.4); Message and Notes are presentational.
type Error struct {
	Kind    Kind
	Primary Position
	Message string
	Notes   []Note
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s: %s", e.Kind, e.Primary, e.Message)
	for _, n := range e.Notes {
		fmt.Fprintf(&b, "\n  note (%s) at %s: %s", n.Kind, n.Position, n.Message)
	}
	return b.String()
}

// Equal implements the §4.4 equality relation: same kind, same primary
// position.
func (e *Error) Equal(other *Error) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Kind == other.Kind && e.Primary == other.Primary
}

// Errors is an ordered accumulator of diagnostics, never thrown (§4.4, §9).
type Errors []*Error

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}

// Add appends a new Error built from kind/primary/message and returns the
// extended accumulator. Accumulators are threaded by value, returning the
// updated slice rather than mutating in place.
func (e Errors) Add(kind Kind, primary Position, message string, notes ...Note) Errors {
	return append(e, &Error{Kind: kind, Primary: primary, Message: message, Notes: notes})
}

// MakeNote builds a Note value; a small helper to keep call sites terse.
func MakeNote(pos Position, kind NoteKind, message string) Note {
	return Note{Position: pos, Kind: kind, Message: message}
}
