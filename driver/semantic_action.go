package driver

import (
	"fmt"
	"io"

	"github.com/gizbox-lang/gizparse/grammar"
)

// SemanticAction runs when the parser reduces prod, before the body is popped. It reads the body with p.Child
// and writes its output onto p.NewElement.
type SemanticAction func(p *Parser, prod *grammar.Production) error

// SemanticActionSet maps productions to the actions run on their reduction. Actions of one production run in
// registration order.
type SemanticActionSet struct {
	gram    *grammar.Grammar
	actions map[int][]SemanticAction
}

func NewSemanticActionSet(gram *grammar.Grammar) *SemanticActionSet {
	return &SemanticActionSet{
		gram:    gram,
		actions: map[int][]SemanticAction{},
	}
}

// Register adds act to the production written as expr, e.g. `expr -> expr + term`.
func (s *SemanticActionSet) Register(expr string, act SemanticAction) error {
	prod, ok := s.gram.ProductionByExpression(expr)
	if !ok {
		return fmt.Errorf("production was not found: %v", expr)
	}
	s.RegisterProduction(prod, act)
	return nil
}

func (s *SemanticActionSet) RegisterProduction(prod *grammar.Production, act SemanticAction) {
	s.actions[prod.Num] = append(s.actions[prod.Num], act)
}

// RegisterAll adds act to every production except the augmented one, which is never reduced.
func (s *SemanticActionSet) RegisterAll(act SemanticAction) {
	aug := s.gram.AugmentedProduction()
	for _, prod := range s.gram.Productions() {
		if prod == aug {
			continue
		}
		s.RegisterProduction(prod, act)
	}
}

// Len returns the number of actions registered to prod.
func (s *SemanticActionSet) Len(prod *grammar.Production) int {
	return len(s.actions[prod.Num])
}

func (s *SemanticActionSet) run(p *Parser, prod *grammar.Production) error {
	for _, act := range s.actions[prod.Num] {
		err := act(p, prod)
		if err != nil {
			return fmt.Errorf("semantic action of %v: %w", prod.Expression(), err)
		}
	}
	return nil
}

// AttributeNode is the attribute key under which TreeBuilder stores the node of an element.
const AttributeNode = "node"

// Node is a node of a concrete syntax tree. A leaf stands for a token; Text holds its attribute, if any.
type Node struct {
	KindName string
	Text     string
	Line     int
	Col      int
	Children []*Node
}

// Node returns the tree node of e. A shifted element that no action touched yields a leaf for its token.
func (e *Element) Node() *Node {
	if n, ok := e.Attributes[AttributeNode].(*Node); ok {
		return n
	}
	if e.Token != nil {
		return &Node{
			KindName: e.Token.Name,
			Text:     e.Token.Attribute,
			Line:     e.Token.Line,
			Col:      e.Token.Start,
		}
	}
	return nil
}

// TreeBuilder builds a concrete syntax tree. Each reduction gets a node named after the head whose children are
// the nodes of the body.
type TreeBuilder struct{}

func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

// Register adds the tree-building action to every production of set.
func (b *TreeBuilder) Register(set *SemanticActionSet) {
	set.RegisterAll(b.Reduce)
}

func (b *TreeBuilder) Reduce(p *Parser, prod *grammar.Production) error {
	children := make([]*Node, 0, prod.Len())
	for i := 0; i < prod.Len(); i++ {
		c := p.Child(i)
		if c == nil {
			return fmt.Errorf("child %v is missing", i)
		}
		if n := c.Node(); n != nil {
			children = append(children, n)
		}
	}

	node := &Node{
		KindName: prod.HeadName(),
		Children: children,
	}
	for _, c := range children {
		if c.Line > 0 {
			node.Line = c.Line
			node.Col = c.Col
			break
		}
	}
	p.NewElement().Attributes[AttributeNode] = node
	return nil
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
