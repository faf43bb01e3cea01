package skt

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithFragments supplies the fragment/layout table consulted for
// FragmentNode and Subclass references (spec.md §4.2.6, §4.3.1).
func WithFragments(f *Fragments) Option {
	return func(e *Evaluator) { e.fragments = f }
}

// WithCSS supplies an already-compiled stylesheet, injected before the close
// tag of every <head> element, at any depth (spec.md §4.3.4).
func WithCSS(css string) Option {
	return func(e *Evaluator) { e.css = css }
}

// MarkdownRenderer renders Markdown source into HTML (spec.md §6.2's
// Markdown renderer collaborator).
type MarkdownRenderer func(src string) (string, error)

// WithMarkdownRenderer supplies the Markdown-to-HTML collaborator for
// MarkdownNode. If unset, Markdown source passes through unrendered.
func WithMarkdownRenderer(r MarkdownRenderer) Option {
	return func(e *Evaluator) { e.markdown = r }
}

// WithLogger routes the evaluator's diagnostic logging through l.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// Evaluator walks a parsed Nodes tree against a Context, producing HTML and
// a list of non-fatal evaluation errors (spec.md §4.3). It holds no
// per-render state; the same Evaluator can be reused across Eval calls.
type Evaluator struct {
	fragments *Fragments
	css       string
	markdown  MarkdownRenderer
	logger    *slog.Logger
}

// NewEvaluator builds an Evaluator from the supplied options.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		fragments: NewFragments(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval renders n against ctx, returning the produced HTML and every
// non-fatal error collected along the way (spec.md §4.3, §4.4).
func (e *Evaluator) Eval(n Nodes, ctx Context) (string, []error) {
	var b Builder
	e.evalTopLevel(&b, n, ctx, map[string][]Node{})
	return b.HTML(), b.Errors()
}

// evalTopLevel dispatches on the three shapes a compiled Nodes unit can
// take: a plain fragment, a document (DOCTYPE-prefixed), or a subclass
// (resolved against its layout fragment, overlaying blocks).
func (e *Evaluator) evalTopLevel(b *Builder, n Nodes, ctx Context, blocks map[string][]Node) {
	switch n.Kind {
	case DocumentNodes:
		b.Append("<!DOCTYPE html>")
		e.evalNodes(b, n.Children, ctx, blocks)
	case SubclassNodes:
		layout, ok := e.fragments.Get(n.LayoutPath)
		if !ok {
			b.Warn(&UnknownFragment{Path: n.LayoutPath})
			return
		}
		merged := make(map[string][]Node, len(blocks)+len(n.Blocks))
		for name, children := range blocks {
			merged[name] = children
		}
		for name, children := range n.Blocks {
			merged[name] = children
		}
		e.evalTopLevel(b, layout, ctx, merged)
	default:
		e.evalNodes(b, n.Children, ctx, blocks)
	}
}

func (e *Evaluator) evalNodes(b *Builder, nodes []Node, ctx Context, blocks map[string][]Node) {
	for _, node := range nodes {
		e.evalNode(b, node, ctx, blocks)
	}
}

// evalNode renders one node per the contract table of spec.md §4.3.1.
func (e *Evaluator) evalNode(b *Builder, node Node, ctx Context, blocks map[string][]Node) {
	switch node.Kind {
	case TextNode:
		b.Append(node.Text)

	case MarkdownNode:
		src := strings.Join(node.MarkdownLines, "\n\n")
		if e.markdown == nil {
			b.Append(src)
			return
		}
		html, err := e.markdown(src)
		if err != nil {
			e.logger.Error("markdown render failed", slog.Any("error", err))
			b.Append(src)
			return
		}
		b.Append(html)

	case InterpolatedTextNode:
		v, ok := ctx.Resolve(node.Selector)
		if !ok {
			b.Warn(&ValueMissing{Selector: node.Selector})
			return
		}
		b.Append(Stringify(v))

	case BlockValueNode:
		children, ok := blocks[node.Name]
		if !ok {
			b.Warn(&UnknownBlock{Name: node.Name})
			return
		}
		e.evalNodes(b, children, ctx, blocks)

	case ElementNode:
		e.evalElement(b, node, ctx, blocks)

	case ForLoopNode:
		e.evalForLoop(b, node, ctx, blocks)

	case IfElseNode:
		e.evalIfElse(b, node, ctx, blocks)

	case FragmentNode:
		fragment, ok := e.fragments.Get(node.Name)
		if !ok {
			b.Warn(&UnknownFragment{Path: node.Name})
			return
		}
		e.evalTopLevel(b, fragment, ctx, map[string][]Node{})

	case BlockNode:
		if children, ok := blocks[node.Name]; ok {
			e.evalNodes(b, children, ctx, blocks)
			return
		}
		e.evalNodes(b, node.Children, ctx, blocks)
	}
}

func (e *Evaluator) evalForLoop(b *Builder, node Node, ctx Context, blocks map[string][]Node) {
	v, ok := ctx.Resolve(node.Selector)
	if !ok {
		b.Warn(&ValueMissing{Selector: node.Selector})
		return
	}
	arr, ok := v.([]any)
	if !ok {
		b.Warn(&NotArray{Selector: node.Selector})
		return
	}
	for i, elem := range arr {
		derived := ctx.Derive(node.Name, elem, node.LoopIndex, i)
		e.evalNodes(b, node.Children, derived, blocks)
	}
}

func (e *Evaluator) evalIfElse(b *Builder, node Node, ctx Context, blocks map[string][]Node) {
	v, ok := ctx.Resolve(node.Selector)
	if !ok {
		b.Warn(&ValueMissing{Selector: node.Selector})
		return
	}
	cond, ok := v.(bool)
	if !ok {
		b.Warn(&NotBool{Selector: node.Selector})
		return
	}
	if cond {
		e.evalNodes(b, node.Children, ctx, blocks)
		return
	}
	e.evalNodes(b, node.ElseChildren, ctx, blocks)
}

// evalElement renders an open tag, its children, any additional markup
// (head stylesheet injection), and the close tag (spec.md §4.3.4).
func (e *Evaluator) evalElement(b *Builder, node Node, ctx Context, blocks map[string][]Node) {
	b.Append(e.renderOpenTag(node.Tag, ctx))
	e.evalNodes(b, node.Children, ctx, blocks)
	if node.Tag.Name == "head" && e.css != "" {
		b.Append("<style>\n" + e.css + "</style>")
	}
	b.Append("</" + node.Tag.Name + ">")
}

// renderOpenTag renders name plus attributes in the fixed order required by
// spec.md §4.3.4: id first, then class, then custom attributes in source
// order.
func (e *Evaluator) renderOpenTag(tag Tag, ctx Context) string {
	var id string
	var hasID bool
	var classes []string
	var custom []Attribute

	for _, attr := range tag.Attributes {
		switch attr.Kind {
		case IDAttribute:
			id = attr.Value
			hasID = true
		case ClassAttribute:
			classes = append(classes, attr.Value)
		case CustomAttribute:
			custom = append(custom, attr)
		}
	}

	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(tag.Name)
	if hasID {
		fmt.Fprintf(&sb, ` id="%s"`, id)
	}
	if len(classes) > 0 {
		fmt.Fprintf(&sb, ` class="%s"`, strings.Join(classes, " "))
	}
	for _, attr := range custom {
		fmt.Fprintf(&sb, ` %s="%s"`, attr.Name, e.renderValueComponents(attr.Parts, ctx))
	}
	sb.WriteByte('>')
	return sb.String()
}

func (e *Evaluator) renderValueComponents(parts []ValueComponent, ctx Context) string {
	var sb strings.Builder
	for _, part := range parts {
		switch part.Kind {
		case RawComponent:
			sb.WriteString(part.Raw)
		case InterpolatedComponent:
			v, ok := ctx.Resolve(part.Selector)
			if ok {
				sb.WriteString(Stringify(v))
			}
		}
	}
	return sb.String()
}
