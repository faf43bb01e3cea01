package skt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Eval_headStyleInjection(t *testing.T) {
	nodes, err := Parse("!HTML\n%head\n%body")
	require.NoError(t, err)

	e := NewEvaluator(WithCSS("body { color: red; }"))
	html, errs := e.Eval(nodes, EmptyContext())
	require.Empty(t, errs)
	require.Equal(t,
		`<!DOCTYPE html><html><head><style>`+"\n"+`body { color: red; }</style></head><body></body></html>`,
		html)
}

func Test_Eval_unknownBlock(t *testing.T) {
	nodes, err := Parse(`%p= block missing`)
	require.NoError(t, err)

	e := NewEvaluator()
	html, errs := e.Eval(nodes, EmptyContext())
	require.Equal(t, `<p></p>`, html)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], &UnknownBlock{Name: "missing"})
}

func Test_Eval_unknownFragment(t *testing.T) {
	nodes, err := Parse("- fragment nope.skt")
	require.NoError(t, err)

	e := NewEvaluator()
	html, errs := e.Eval(nodes, EmptyContext())
	require.Equal(t, "", html)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], &UnknownFragment{Path: "nope.skt"})
}

func Test_Eval_attributeOrdering(t *testing.T) {
	nodes, err := Parse(`%div#main.a.b(data-x=1 data-y=2)`)
	require.NoError(t, err)

	e := NewEvaluator()
	html, errs := e.Eval(nodes, EmptyContext())
	require.Empty(t, errs)
	require.Equal(t, `<div id="main" class="a b" data-x="1" data-y="2"></div>`, html)
}

func Test_Eval_markdownWithoutRenderer(t *testing.T) {
	nodes, err := Parse(":markdown\n  plain text")
	require.NoError(t, err)

	e := NewEvaluator()
	html, errs := e.Eval(nodes, EmptyContext())
	require.Empty(t, errs)
	require.Equal(t, "plain text", html)
}

func Test_Eval_markdownWithRenderer(t *testing.T) {
	nodes, err := Parse(":markdown\n  hi")
	require.NoError(t, err)

	e := NewEvaluator(WithMarkdownRenderer(func(src string) (string, error) {
		return "<p>" + src + "</p>", nil
	}))
	html, errs := e.Eval(nodes, EmptyContext())
	require.Empty(t, errs)
	require.Equal(t, "<p>hi</p>", html)
}

func Test_Eval_markdownLinesJoinedAsSeparateBlocks(t *testing.T) {
	nodes, err := Parse(":markdown\n  one\n  two")
	require.NoError(t, err)

	var gotSrc string
	e := NewEvaluator(WithMarkdownRenderer(func(src string) (string, error) {
		gotSrc = src
		return src, nil
	}))
	_, errs := e.Eval(nodes, EmptyContext())
	require.Empty(t, errs)
	// Adjacent lines join with a blank line between them (spec.md §4.2.4,
	// §4.3.1) so the renderer sees two separate CommonMark blocks rather
	// than one block with a soft line break.
	require.Equal(t, "one\n\ntwo", gotSrc)
}
