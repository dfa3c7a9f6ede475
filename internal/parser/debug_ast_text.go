package parser

import (
	"fmt"
	"gloom/internal/ast"
	"reflect"
	"strings"
)

// RenderASTAsText produces an indented tree of the AST, one node per line.
// It is meant for eyeballing how arguments attach to their receivers.
func RenderASTAsText(node ast.Node, indent int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return strings.Repeat("  ", indent) + "nil"
	}

	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(RenderASTAsText(s, 0))
		}
		return sb.String()

	case *ast.MessageSend:
		var sb strings.Builder
		sb.WriteString(sp + "send\n")
		sb.WriteString(RenderASTAsText(n.Receiver, indent+1))
		for _, a := range n.Arguments {
			sb.WriteString("\n")
			sb.WriteString(RenderASTAsText(a, indent+1))
		}
		return sb.String()

	case *ast.MessageArgument:
		label := ":" + n.Selector
		if n.Binary {
			label = n.Selector
		}
		if n.Value == nil {
			return sp + label
		}
		if lit, ok := n.Value.(*ast.Literal); ok && lit.Kind != ast.ArrayLiteral {
			return fmt.Sprintf("%s%s %s", sp, label, lit.String())
		}
		return sp + label + "\n" + RenderASTAsText(n.Value, indent+1)

	case *ast.Literal:
		if n.Kind == ast.ArrayLiteral {
			var sb strings.Builder
			sb.WriteString(sp + "#(")
			for _, e := range n.Elements() {
				sb.WriteString("\n")
				sb.WriteString(RenderASTAsText(e, indent+1))
			}
			sb.WriteString("\n" + sp + ")")
			return sb.String()
		}
		if _, ok := n.Property(ast.ImplicitProperty); ok {
			return fmt.Sprintf("%s%s (%s, implicit)", sp, n.String(), n.Kind)
		}
		return fmt.Sprintf("%s%s (%s)", sp, n.String(), n.Kind)

	default:
		return fmt.Sprintf("%s<%T>", sp, n)
	}
}
