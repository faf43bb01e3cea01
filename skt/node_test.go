package skt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_Parse_astShape(t *testing.T) {
	nodes, err := Parse(`%section#section-id.other some text`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := NewFragmentNodes([]Node{
		{
			Kind: ElementNode,
			Tag: Tag{
				Name: "section",
				Attributes: []Attribute{
					{Kind: IDAttribute, Value: "section-id"},
					{Kind: ClassAttribute, Value: "other"},
				},
			},
			Children: []Node{
				{Kind: TextNode, Text: "some text"},
			},
		},
	})

	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Errorf("Parse() diff (-want +got):\n%s", diff)
	}
}

func Test_Prepend(t *testing.T) {
	children := []Node{{Kind: TextNode, Text: "b"}}
	got := Prepend(children, Node{Kind: TextNode, Text: "a"})

	want := []Node{
		{Kind: TextNode, Text: "a"},
		{Kind: TextNode, Text: "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Prepend() diff (-want +got):\n%s", diff)
	}
}
