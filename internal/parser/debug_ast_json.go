package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"gloom/internal/ast"
	"reflect"
)

// WalkAST recursively traverses an AST and serializes it into a machine-centric map structure.
// This output is designed for stability, canonical representation, and tool-chain consumption.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		statements := make([]interface{}, len(n.Statements))
		for i, s := range n.Statements {
			statements[i] = WalkAST(s)
		}
		return map[string]interface{}{
			"type":       "Program",
			"statements": statements,
		}

	case *ast.MessageSend:
		arguments := make([]interface{}, len(n.Arguments))
		for i, a := range n.Arguments {
			arguments[i] = WalkAST(a)
		}
		return map[string]interface{}{
			"type":      "MessageSend",
			"position":  n.Token.Position,
			"token":     n.TokenLiteral(),
			"receiver":  WalkAST(n.Receiver),
			"arguments": arguments,
		}

	case *ast.MessageArgument:
		return map[string]interface{}{
			"type":     "MessageArgument",
			"position": n.Token.Position,
			"selector": n.Selector,
			"binary":   n.Binary,
			"value":    WalkAST(n.Value),
		}

	case *ast.Literal:
		m := map[string]interface{}{
			"type":     "Literal",
			"position": n.Token.Position,
			"kind":     string(n.Kind),
			"token":    safeTokenLiteral(n),
		}
		if n.Kind == ast.ArrayLiteral {
			elements := make([]interface{}, 0, len(n.Elements()))
			for _, e := range n.Elements() {
				elements = append(elements, WalkAST(e))
			}
			m["elements"] = elements
		} else {
			m["value"] = n.Value
		}
		if len(n.Properties) > 0 {
			m["properties"] = n.Properties
		}
		return m

	default:
		return map[string]interface{}{
			"type": "Unknown",
			"node": fmt.Sprintf("%T", n),
		}
	}
}

func safeTokenLiteral(node ast.Node) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return ""
	}
	return node.TokenLiteral()
}

func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}
