package bind

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/relict-dev/relict/internal/usage"
	"github.com/relict-dev/relict/pkg/parser"
)

// containerNodeTypes returns the AST node types that declare a field-owning
// type in each language.
func containerNodeTypes(lang parser.Language) []string {
	switch lang {
	case parser.LangCSharp:
		return []string{"class_declaration", "struct_declaration", "record_declaration"}
	case parser.LangJava:
		return []string{"class_declaration"}
	case parser.LangTypeScript, parser.LangTSX, parser.LangJavaScript:
		return []string{"class_declaration", "class"}
	case parser.LangGo:
		return []string{"type_spec"}
	default:
		return nil
	}
}

// callableNodeTypes returns the AST node types for callables with an
// analyzable parameter list.
func callableNodeTypes(lang parser.Language) []string {
	switch lang {
	case parser.LangCSharp:
		return []string{
			"method_declaration", "constructor_declaration",
			"local_function_statement", "lambda_expression",
		}
	case parser.LangJava:
		return []string{"method_declaration", "constructor_declaration", "lambda_expression"}
	case parser.LangTypeScript, parser.LangTSX, parser.LangJavaScript:
		return []string{
			"method_definition", "function_declaration",
			"function_expression", "function", "arrow_function",
		}
	case parser.LangGo:
		return []string{"function_declaration", "method_declaration", "func_literal"}
	default:
		return nil
	}
}

// identifierNodeTypes returns the node types that carry an identifier
// occurrence in each language.
func identifierNodeTypes(lang parser.Language) []string {
	switch lang {
	case parser.LangCSharp, parser.LangJava:
		return []string{"identifier"}
	case parser.LangTypeScript, parser.LangTSX, parser.LangJavaScript:
		return []string{"identifier", "property_identifier", "private_property_identifier"}
	case parser.LangGo:
		return []string{"identifier", "field_identifier"}
	default:
		return nil
	}
}

// hasChildOfType reports whether node has a direct child (named or not)
// whose type equals t.
func hasChildOfType(node *sitter.Node, t string) bool {
	for i := range int(node.ChildCount()) {
		if node.Child(i).Type() == t {
			return true
		}
	}
	return false
}

// childOfType returns the first direct child of the given type, or nil.
func childOfType(node *sitter.Node, t string) *sitter.Node {
	for i := range int(node.ChildCount()) {
		if c := node.Child(i); c.Type() == t {
			return c
		}
	}
	return nil
}

// modifierTexts collects the textual modifiers of a declaration node:
// C# `modifier` children, Java/TS the tokens inside a `modifiers` node or
// loose accessibility tokens.
func modifierTexts(node *sitter.Node, source []byte) []string {
	var out []string
	for i := range int(node.ChildCount()) {
		c := node.Child(i)
		switch c.Type() {
		case "modifier", "accessibility_modifier":
			out = append(out, parser.GetNodeText(c, source))
		case "modifiers":
			for j := range int(c.ChildCount()) {
				m := c.Child(j)
				switch m.Type() {
				case "marker_annotation", "annotation":
					out = append(out, parser.GetNodeText(m, source))
				default:
					out = append(out, parser.GetNodeText(m, source))
				}
			}
		case "override", "abstract", "static", "readonly":
			// TS grammars surface some modifiers as bare tokens.
			out = append(out, c.Type())
		}
	}
	return out
}

func hasModifier(mods []string, want string) bool {
	for _, m := range mods {
		if m == want {
			return true
		}
	}
	return false
}

func hasAnnotation(mods []string, want string) bool {
	for _, m := range mods {
		if strings.HasPrefix(m, "@") && strings.TrimPrefix(m, "@") == want {
			return true
		}
	}
	return false
}

// fieldAccessibility derives the visibility of a field declaration from its
// modifiers, applying each language's default.
func fieldAccessibility(lang parser.Language, name string, mods []string) usage.Accessibility {
	switch lang {
	case parser.LangCSharp:
		// Members without an access modifier default to private.
		switch {
		case hasModifier(mods, "public"):
			return usage.AccessPublic
		case hasModifier(mods, "protected"):
			return usage.AccessProtected
		case hasModifier(mods, "internal"):
			return usage.AccessInternal
		default:
			return usage.AccessPrivate
		}
	case parser.LangJava:
		// Default is package-private, which relict treats as internal.
		switch {
		case hasModifier(mods, "private"):
			return usage.AccessPrivate
		case hasModifier(mods, "public"):
			return usage.AccessPublic
		case hasModifier(mods, "protected"):
			return usage.AccessProtected
		default:
			return usage.AccessInternal
		}
	case parser.LangTypeScript, parser.LangTSX, parser.LangJavaScript:
		if strings.HasPrefix(name, "#") {
			return usage.AccessPrivate
		}
		switch {
		case hasModifier(mods, "private"):
			return usage.AccessPrivate
		case hasModifier(mods, "protected"):
			return usage.AccessProtected
		default:
			return usage.AccessPublic
		}
	case parser.LangGo:
		r, _ := utf8.DecodeRuneInString(name)
		if unicode.IsUpper(r) {
			return usage.AccessPublic
		}
		return usage.AccessPrivate
	default:
		return usage.AccessPublic
	}
}

// location converts a node's start point to a report location (1-based).
func location(path string, node *sitter.Node) usage.Location {
	return usage.Location{
		File:   path,
		Line:   node.StartPoint().Row + 1,
		Column: node.StartPoint().Column + 1,
	}
}
