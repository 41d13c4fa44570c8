package bind

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/relict-dev/relict/internal/usage"
	"github.com/relict-dev/relict/pkg/parser"
)

// sameNode compares nodes by byte span; wrapper pointers returned by
// different traversal calls are not identity-comparable.
func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// spanContains reports whether outer's byte span contains inner's.
func spanContains(outer, inner *sitter.Node) bool {
	return outer != nil && inner != nil &&
		outer.StartByte() <= inner.StartByte() && inner.EndByte() <= outer.EndByte()
}

// deriveContext maps an identifier occurrence to the closed AccessContext
// enum by examining its immediate syntactic surroundings. Any shape not in
// the small write-only set falls through to CtxOther, which classifies as a
// read.
func deriveContext(node *sitter.Node, source []byte) usage.AccessContext {
	// Climb member-access chains where the occurrence is the accessed name
	// (`this._x`, `obj.field`): the write target is the whole access
	// expression. An occurrence on the receiver side stays put; the
	// receiver is read even when one of its members is written.
	cur := node
	for {
		p := cur.Parent()
		if p == nil {
			return usage.CtxOther
		}

		climbed := false
		switch p.Type() {
		case "member_access_expression": // C#
			climbed = sameNode(p.ChildByFieldName("name"), cur)
		case "field_access": // Java
			climbed = sameNode(p.ChildByFieldName("field"), cur)
		case "member_expression": // TS/JS
			climbed = sameNode(p.ChildByFieldName("property"), cur)
		case "selector_expression": // Go
			climbed = sameNode(p.ChildByFieldName("field"), cur)
		case "parenthesized_expression":
			climbed = true
		}
		if !climbed {
			break
		}
		cur = p
	}

	parent := cur.Parent()
	switch parent.Type() {
	case "assignment_expression":
		left := parent.ChildByFieldName("left")
		if !sameNode(left, cur) {
			if sameNode(parent.ChildByFieldName("right"), cur) {
				return usage.CtxAssignSource
			}
			return usage.CtxOther
		}
		if op := assignmentOperator(parent, source); op != "" && op != "=" {
			return usage.CtxAssignTargetCompound
		}
		return usage.CtxAssignTargetSimple

	case "augmented_assignment_expression": // TS/JS `+=` family
		if sameNode(parent.ChildByFieldName("left"), cur) {
			return usage.CtxAssignTargetCompound
		}
		return usage.CtxOther

	case "expression_list": // Go assignment operands come via a list
		return goListContext(parent, cur, source)

	case "prefix_unary_expression", "postfix_unary_expression", "update_expression":
		text := parser.GetNodeText(parent, source)
		if strings.HasPrefix(text, "++") || strings.HasPrefix(text, "--") ||
			strings.HasSuffix(text, "++") || strings.HasSuffix(text, "--") {
			return usage.CtxIncDec
		}
		return usage.CtxOther

	case "inc_statement", "dec_statement": // Go
		return usage.CtxIncDec

	case "argument": // C# call argument with a mode token
		if hasChildOfType(parent, "out") {
			return usage.CtxOutArgument
		}
		return usage.CtxOther

	default:
		return usage.CtxOther
	}
}

// assignmentOperator extracts the operator text of an assignment node,
// whether the grammar exposes it as a field or as a named child.
func assignmentOperator(node *sitter.Node, source []byte) string {
	if op := node.ChildByFieldName("operator"); op != nil {
		return parser.GetNodeText(op, source)
	}
	if op := childOfType(node, "assignment_operator"); op != nil {
		return parser.GetNodeText(op, source)
	}
	return ""
}

// goListContext resolves an occurrence inside a Go expression_list that
// belongs to an assignment statement.
func goListContext(list, cur *sitter.Node, source []byte) usage.AccessContext {
	assign := list.Parent()
	if assign == nil || assign.Type() != "assignment_statement" {
		return usage.CtxOther
	}

	if sameNode(assign.ChildByFieldName("right"), list) {
		return usage.CtxAssignSource
	}
	if !sameNode(assign.ChildByFieldName("left"), list) {
		return usage.CtxOther
	}

	op := assignmentOperator(assign, source)
	if op != "" && op != "=" {
		return usage.CtxAssignTargetCompound
	}
	return usage.CtxAssignTargetSimple
}

// isMemberName reports whether node is the member side of a qualified
// access, such as the property of obj.x. Those identifiers name members of
// the receiver, never locals or parameters in scope.
func isMemberName(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}

	switch parent.Type() {
	case "member_access_expression":
		return sameNode(parent.ChildByFieldName("name"), node)
	case "field_access":
		return sameNode(parent.ChildByFieldName("field"), node)
	case "member_expression":
		return sameNode(parent.ChildByFieldName("property"), node)
	case "selector_expression":
		return sameNode(parent.ChildByFieldName("field"), node)
	}
	return false
}
