package skt

import (
	"errors"
	"strings"
)

// ErrIncompleteParse is returned by ParseFragment when valid node syntax is
// consumed but non-blank input remains. Fragments.Parse reports it as an
// IncompleteParse carrying the fragment's path (spec.md §4.2.7, §7). The top-level Parse entry point is
// permissive about any leftover input, mirroring the original
// implementation's socket.rs, which discards whatever nom leaves unconsumed.
var ErrIncompleteParse = errors.New("incomplete parse")

const indentUnit = "  "

func indentFor(depth int) string {
	return strings.Repeat(indentUnit, depth)
}

func toNewline(s string) (line, rest string) {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

func skipBlankLines(s string) string {
	for len(s) > 0 && s[0] == '\n' {
		s = s[1:]
	}
	return s
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' && s[i] != ' ' {
			return false
		}
	}
	return true
}

// Parse parses a complete SKT source into a Nodes tree (spec.md §4.2.1).
// Any leftover input after a successful top-level parse is discarded rather
// than treated as an error, matching the CLI entry point's behavior in the
// original implementation.
func Parse(source string) (Nodes, error) {
	return parseDocument(source, false)
}

// ParseFragment parses source the way a fragment loaded from disk is
// parsed: non-blank leftover input is a hard error (spec.md §4.2.7).
func ParseFragment(source string) (Nodes, error) {
	return parseDocument(source, true)
}

func parseDocument(source string, strict bool) (Nodes, error) {
	rest := source

	htmlAttrs, next, hasHTML, err := parseHTMLHeader(rest)
	if err != nil {
		return Nodes{}, err
	}
	rest = next

	if hasHTML {
		children, tail := parseNodes(rest, 0)
		if strict && !isBlank(tail) {
			return Nodes{}, ErrIncompleteParse
		}
		root := Node{
			Kind:     ElementNode,
			Tag:      Tag{Name: "html", Attributes: htmlAttrs},
			Children: children,
		}
		return NewDocumentNodes([]Node{root}), nil
	}

	if strings.HasPrefix(rest, "- extends ") {
		nodes, tail, serr := parseSubclass(rest)
		if serr != nil {
			return Nodes{}, serr
		}
		if strict && !isBlank(tail) {
			return Nodes{}, ErrIncompleteParse
		}
		return nodes, nil
	}

	children, tail := parseNodes(rest, 0)
	if strict && !isBlank(tail) {
		return Nodes{}, ErrIncompleteParse
	}
	return NewFragmentNodes(children), nil
}

func parseHTMLHeader(s string) (attrs []Attribute, rest string, present bool, err error) {
	if !strings.HasPrefix(s, "!HTML") {
		return nil, s, false, nil
	}
	after := s[len("!HTML"):]
	if strings.HasPrefix(after, "(") {
		parsed, next, ok := parseCustomAttributes(after)
		if !ok {
			return nil, s, false, &ParseFailure{Pos: len("!HTML"), Rule: "!HTML attributes"}
		}
		attrs = parsed
		after = next
	}
	if !strings.HasPrefix(after, "\n") {
		return nil, s, false, &ParseFailure{Pos: len(s) - len(after), Rule: "!HTML header"}
	}
	return attrs, after[1:], true, nil
}

func parseSubclass(s string) (Nodes, string, error) {
	after := strings.TrimPrefix(s, "- extends ")
	path, next := toNewline(after)
	if !strings.HasPrefix(next, "\n") {
		return Nodes{}, s, &ParseFailure{Pos: len(s) - len(next), Rule: "- extends"}
	}
	cursor := next[1:]

	blocks := map[string][]Node{}
	first := true
	for {
		probe := cursor
		if !first {
			if len(probe) == 0 || probe[0] != '\n' {
				break
			}
			probe = probe[1:]
		}
		probe = skipBlankLines(probe)
		if !strings.HasPrefix(probe, "- block ") {
			break
		}
		after2 := probe[len("- block "):]
		name, afterName := scanWhile(after2, isAlphaNumericByte)
		if name == "" {
			break
		}
		children, next2 := parseNodes(afterName, 1)
		blocks[name] = children
		cursor = next2
		first = false
	}

	if len(blocks) == 0 {
		return Nodes{}, s, &ParseFailure{Pos: len(s) - len(cursor), Rule: "- extends requires at least one - block"}
	}
	return NewSubclassNodes(path, blocks), cursor, nil
}

// parseNodes parses the ordinary node list at depth, terminating when no
// further line at that depth matches any node rule (spec.md §4.2.1).
func parseNodes(s string, depth int) ([]Node, string) {
	var nodes []Node
	cursor := s
	first := true
	for {
		probe := cursor
		if !first {
			if len(probe) == 0 || probe[0] != '\n' {
				break
			}
			probe = probe[1:]
		}
		probe = skipBlankLines(probe)
		node, next, ok := parseNode(probe, depth)
		if !ok {
			break
		}
		nodes = append(nodes, node)
		cursor = next
		first = false
	}
	return nodes, cursor
}

// parseNode tries the node rules of spec.md §4.2.2, in order, after
// consuming exactly depth indentation units.
func parseNode(s string, depth int) (Node, string, bool) {
	indent := indentFor(depth)
	if !strings.HasPrefix(s, indent) {
		return Node{}, s, false
	}
	rest := s[len(indent):]
	if rest == "" {
		return Node{}, s, false
	}

	if node, next, ok := parseMarkdown(rest, depth); ok {
		return node, next, true
	}
	if node, next, ok := parseForLoop(rest, depth); ok {
		return node, next, true
	}
	if node, next, ok := parseIf(rest, depth); ok {
		return node, next, true
	}
	if node, next, ok := parseBlockDef(rest, depth); ok {
		return node, next, true
	}
	if node, next, ok := parseFragmentRef(rest); ok {
		return node, next, true
	}
	if node, next, ok := parseTagWithText(rest, depth); ok {
		return node, next, true
	}
	if node, next, ok := parseTagWithValue(rest, depth); ok {
		return node, next, true
	}
	if node, next, ok := parseTagAlone(rest, depth); ok {
		return node, next, true
	}
	line, next := toNewline(rest)
	return Node{Kind: TextNode, Text: line}, next, true
}

func parseMarkdown(s string, depth int) (Node, string, bool) {
	if !strings.HasPrefix(s, ":markdown") {
		return Node{}, s, false
	}
	after := s[len(":markdown"):]
	if !strings.HasPrefix(after, "\n") {
		return Node{}, s, false
	}
	cursor := after[1:]
	indent := indentFor(depth + 1)

	var lines []string
	first := true
	for {
		probe := cursor
		if !first {
			if len(probe) == 0 || probe[0] != '\n' {
				break
			}
			probe = probe[1:]
		}
		if !strings.HasPrefix(probe, indent) {
			break
		}
		line, next := toNewline(probe[len(indent):])
		lines = append(lines, line)
		cursor = next
		first = false
	}
	if len(lines) == 0 {
		return Node{}, s, false
	}
	return Node{Kind: MarkdownNode, MarkdownLines: lines}, cursor, true
}

func parseForLoop(s string, depth int) (Node, string, bool) {
	if !strings.HasPrefix(s, "- for ") {
		return Node{}, s, false
	}
	after := s[len("- for "):]

	first, afterFirst := scanWhile(after, isAlphaNumericByte)
	if first == "" {
		return Node{}, s, false
	}

	indexVar := ""
	local := first
	rest := afterFirst
	if strings.HasPrefix(afterFirst, ", ") {
		second, afterSecond := scanWhile(afterFirst[2:], isAlphaNumericByte)
		if second != "" && strings.HasPrefix(afterSecond, " in ") {
			indexVar = first
			local = second
			rest = afterSecond
		}
	}

	if !strings.HasPrefix(rest, " in ") {
		return Node{}, s, false
	}
	rest = rest[len(" in "):]

	sel, afterSel, err := ParseSelector(rest)
	if err != nil {
		return Node{}, s, false
	}
	if !strings.HasPrefix(afterSel, "\n") {
		return Node{}, s, false
	}
	children, next := parseNodes(afterSel[1:], depth+1)

	return Node{
		Kind:      ForLoopNode,
		Name:      local,
		LoopIndex: indexVar,
		Selector:  sel,
		Children:  children,
	}, next, true
}

func parseIf(s string, depth int) (Node, string, bool) {
	if !strings.HasPrefix(s, "- if ") {
		return Node{}, s, false
	}
	after := s[len("- if "):]
	sel, afterSel, err := ParseSelector(after)
	if err != nil {
		return Node{}, s, false
	}
	if !strings.HasPrefix(afterSel, "\n") {
		return Node{}, s, false
	}
	trueChildren, cursor := parseNodes(afterSel[1:], depth+1)

	probe := cursor
	consumedBlank := false
	for strings.HasPrefix(probe, "\n") {
		probe = probe[1:]
		consumedBlank = true
	}
	elsePrefix := indentFor(depth) + "- else\n"
	if consumedBlank && strings.HasPrefix(probe, elsePrefix) {
		falseChildren, next := parseNodes(probe[len(elsePrefix):], depth+1)
		return Node{
			Kind:         IfElseNode,
			Selector:     sel,
			Children:     trueChildren,
			ElseChildren: falseChildren,
		}, next, true
	}
	return Node{
		Kind:     IfElseNode,
		Selector: sel,
		Children: trueChildren,
	}, cursor, true
}

func parseBlockDef(s string, depth int) (Node, string, bool) {
	if !strings.HasPrefix(s, "- block ") {
		return Node{}, s, false
	}
	after := s[len("- block "):]
	name, afterName := scanWhile(after, isAlphaNumericByte)
	if name == "" {
		return Node{}, s, false
	}
	children, next := parseNodes(afterName, depth+1)
	return Node{Kind: BlockNode, Name: name, Children: children}, next, true
}

func parseFragmentRef(s string) (Node, string, bool) {
	if !strings.HasPrefix(s, "- fragment ") {
		return Node{}, s, false
	}
	after := s[len("- fragment "):]
	path, next := toNewline(after)
	if path == "" {
		return Node{}, s, false
	}
	return Node{Kind: FragmentNode, Name: path}, next, true
}

func parseTagWithText(s string, depth int) (Node, string, bool) {
	tag, rest, ok := parseTag(s)
	if !ok || !strings.HasPrefix(rest, " ") {
		return Node{}, s, false
	}
	line, afterLine := toNewline(rest[1:])
	children, next := parseNodes(afterLine, depth+1)
	children = Prepend(children, Node{Kind: TextNode, Text: line})
	return Node{Kind: ElementNode, Tag: tag, Children: children}, next, true
}

func parseTagWithValue(s string, depth int) (Node, string, bool) {
	tag, rest, ok := parseTag(s)
	if !ok || !strings.HasPrefix(rest, "= ") {
		return Node{}, s, false
	}
	after := rest[len("= "):]

	// "block " can never be a valid selector key (selector keys contain no
	// spaces), so this prefix unambiguously introduces a BlockValue rather
	// than an interpolated selector.
	if strings.HasPrefix(after, "block ") {
		name, afterName := scanWhile(after[len("block "):], isAlphaNumericByte)
		if name != "" {
			children, next := parseNodes(afterName, depth+1)
			children = Prepend(children, Node{Kind: BlockValueNode, Name: name})
			return Node{Kind: ElementNode, Tag: tag, Children: children}, next, true
		}
	}

	sel, afterSel, err := ParseSelector(after)
	if err != nil {
		return Node{}, s, false
	}
	children, next := parseNodes(afterSel, depth+1)
	children = Prepend(children, Node{Kind: InterpolatedTextNode, Selector: sel})
	return Node{Kind: ElementNode, Tag: tag, Children: children}, next, true
}

func parseTagAlone(s string, depth int) (Node, string, bool) {
	tag, rest, ok := parseTag(s)
	if !ok {
		return Node{}, s, false
	}
	if !strings.HasPrefix(rest, "\n") && rest != "" {
		return Node{}, s, false
	}
	children, next := parseNodes(rest, depth+1)
	return Node{Kind: ElementNode, Tag: tag, Children: children}, next, true
}

func parseTag(s string) (Tag, string, bool) {
	if strings.HasPrefix(s, "%") {
		return parseExplicitTag(s)
	}
	return parseImplicitTag(s)
}

func parseExplicitTag(s string) (Tag, string, bool) {
	after := s[1:]
	name, rest := scanWhile(after, isAlphaNumericByte)
	attrs, rest2 := parseAttrsShorthand(rest)
	customs, rest3, hasCustom := parseCustomAttributes(rest2)
	if hasCustom {
		attrs = append(attrs, customs...)
	}
	return Tag{Name: name, Attributes: attrs}, rest3, true
}

func parseImplicitTag(s string) (Tag, string, bool) {
	attrs, rest := parseAttrsShorthand(s)
	if len(attrs) == 0 {
		return Tag{}, s, false
	}
	customs, rest2, hasCustom := parseCustomAttributes(rest)
	if hasCustom {
		attrs = append(attrs, customs...)
	}
	return Tag{Name: "div", Attributes: attrs}, rest2, true
}

func isClassOrIDByte(c byte) bool {
	return isAlphaNumericByte(c) || c == '-' || c == '_' || c == '/' || c == ':' || c == '[' || c == ']'
}

func parseAttrsShorthand(s string) ([]Attribute, string) {
	var attrs []Attribute
	for {
		switch {
		case strings.HasPrefix(s, "."):
			tok, rest := scanWhile(s[1:], isClassOrIDByte)
			attrs = append(attrs, Attribute{Kind: ClassAttribute, Value: tok})
			s = rest
		case strings.HasPrefix(s, "#"):
			tok, rest := scanWhile(s[1:], isClassOrIDByte)
			attrs = append(attrs, Attribute{Kind: IDAttribute, Value: tok})
			s = rest
		default:
			return attrs, s
		}
	}
}

func isCustomNameByte(c byte) bool {
	return isAlphaNumericByte(c) || c == '-' || c == '_'
}

func parseCustomAttributes(s string) ([]Attribute, string, bool) {
	if !strings.HasPrefix(s, "(") {
		return nil, s, false
	}
	rest := s[1:]
	var attrs []Attribute
	for {
		attr, next, ok := parseAttrKV(rest)
		if !ok {
			return nil, s, false
		}
		attrs = append(attrs, attr)
		rest = next
		if strings.HasPrefix(rest, " ") {
			rest = rest[1:]
			continue
		}
		break
	}
	if !strings.HasPrefix(rest, ")") {
		return nil, s, false
	}
	return attrs, rest[1:], true
}

func parseAttrKV(s string) (Attribute, string, bool) {
	name, afterName := scanWhile(s, isCustomNameByte)
	if name == "" || !strings.HasPrefix(afterName, "=") {
		return Attribute{}, s, false
	}
	afterEq := afterName[1:]
	if strings.HasPrefix(afterEq, "\"") {
		parts, rest, ok := parseQuotedValue(afterEq[1:])
		if !ok {
			return Attribute{}, s, false
		}
		return Attribute{Kind: CustomAttribute, Name: name, Parts: parts}, rest, true
	}
	parts, rest := parseUnquotedValue(afterEq)
	return Attribute{Kind: CustomAttribute, Name: name, Parts: parts}, rest, true
}

func parseQuotedValue(s string) ([]ValueComponent, string, bool) {
	var parts []ValueComponent
	cur := s
	for {
		if len(cur) == 0 {
			return nil, s, false
		}
		if cur[0] == '"' {
			return parts, cur[1:], true
		}
		if cur[0] == '{' {
			sel, after, err := ParseSelector(cur[1:])
			if err != nil || len(after) == 0 || after[0] != '}' {
				return nil, s, false
			}
			parts = append(parts, ValueComponent{Kind: InterpolatedComponent, Selector: sel})
			cur = after[1:]
			continue
		}
		raw, next := scanWhile(cur, func(c byte) bool { return c != '"' && c != '{' })
		parts = append(parts, ValueComponent{Kind: RawComponent, Raw: raw})
		cur = next
	}
}

func isUnquotedStopByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '=' || c == ')'
}

func parseUnquotedValue(s string) ([]ValueComponent, string) {
	var parts []ValueComponent
	cur := s
	for {
		if len(cur) == 0 || isUnquotedStopByte(cur[0]) {
			break
		}
		if cur[0] == '{' {
			sel, after, err := ParseSelector(cur[1:])
			if err == nil && len(after) > 0 && after[0] == '}' {
				parts = append(parts, ValueComponent{Kind: InterpolatedComponent, Selector: sel})
				cur = after[1:]
				continue
			}
			break
		}
		raw, next := scanWhile(cur, func(c byte) bool {
			return !isUnquotedStopByte(c) && c != '{'
		})
		parts = append(parts, ValueComponent{Kind: RawComponent, Raw: raw})
		cur = next
	}
	return parts, cur
}
