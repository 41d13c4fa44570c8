package bind

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/relict-dev/relict/internal/usage"
	"github.com/relict-dev/relict/pkg/parser"
)

// fieldDecls extracts every field declaration in the parse result, carrying
// the metadata the exemption policy needs. Keys are built from the
// namespace/package, the declaring type, and the field name so the same
// binding aggregates across source units (partial types, multiple files).
func fieldDecls(result *parser.ParseResult) []usage.Declaration {
	root := result.Tree.RootNode()
	lang := result.Language
	source := result.Source

	prefix := scopePrefix(root, source, lang)
	containers := containerNodeTypes(lang)

	var decls []usage.Declaration
	var visit func(node *sitter.Node, owner string)

	visit = func(node *sitter.Node, owner string) {
		nodeType := node.Type()

		for _, ct := range containers {
			if nodeType != ct {
				continue
			}
			name := parser.GetNodeText(node.ChildByFieldName("name"), source)
			if name != "" {
				if owner != "" {
					owner = owner + "." + name
				} else {
					owner = name
				}
			}
			break
		}

		if owner != "" && isFieldDeclNode(nodeType, lang) {
			decls = append(decls, extractFields(node, source, lang, result.Path, prefix, owner)...)
		}

		for i := range int(node.ChildCount()) {
			visit(node.Child(i), owner)
		}
	}

	visit(root, "")
	return decls
}

// scopePrefix returns the namespace (C#), package (Java, Go), or empty
// qualifier of a compilation unit.
func scopePrefix(root *sitter.Node, source []byte, lang parser.Language) string {
	switch lang {
	case parser.LangCSharp:
		if ns := childOfType(root, "file_scoped_namespace_declaration"); ns != nil {
			return parser.GetNodeText(ns.ChildByFieldName("name"), source)
		}
		return ""
	case parser.LangJava:
		if pkg := childOfType(root, "package_declaration"); pkg != nil {
			text := parser.GetNodeText(pkg, source)
			text = strings.TrimPrefix(text, "package")
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))
		}
		return ""
	case parser.LangGo:
		if pkg := childOfType(root, "package_clause"); pkg != nil {
			if id := childOfType(pkg, "package_identifier"); id != nil {
				return parser.GetNodeText(id, source)
			}
		}
		return ""
	default:
		return ""
	}
}

// isFieldDeclNode reports whether nodeType declares fields in lang. Block
// namespaces (C#) still nest through visit, so only the declaration nodes
// themselves are listed.
func isFieldDeclNode(nodeType string, lang parser.Language) bool {
	switch lang {
	case parser.LangCSharp, parser.LangJava:
		return nodeType == "field_declaration"
	case parser.LangTypeScript, parser.LangTSX:
		return nodeType == "public_field_definition" || nodeType == "field_definition"
	case parser.LangJavaScript:
		return nodeType == "field_definition"
	case parser.LangGo:
		return nodeType == "field_declaration"
	default:
		return false
	}
}

// extractFields turns one field declaration node into declarations, one per
// declarator. Multi-declarator statements share a sibling group id.
func extractFields(node *sitter.Node, source []byte, lang parser.Language, path, prefix, owner string) []usage.Declaration {
	mods := modifierTexts(node, source)

	names := fieldNames(node, source, lang)
	if len(names) == 0 {
		return nil
	}

	group := ""
	if len(names) > 1 {
		group = fmt.Sprintf("%016x", xxhash.Sum64String(fmt.Sprintf("%s:%d", path, node.StartByte())))
	}

	qualifier := owner
	if prefix != "" {
		qualifier = prefix + "." + owner
	}

	decls := make([]usage.Declaration, 0, len(names))
	for _, n := range names {
		decls = append(decls, usage.Declaration{
			Key:           fmt.Sprintf("%s:%s:%s", lang, qualifier, n.name),
			Name:          n.name,
			Kind:          usage.KindField,
			Scope:         usage.ScopeWholeProgram,
			Location:      location(path, n.node),
			SiblingGroup:  group,
			Accessibility: fieldAccessibility(lang, n.name, mods),
			Const:         isConstField(lang, mods),
		})
	}
	return decls
}

type namedNode struct {
	name string
	node *sitter.Node
}

// fieldNames extracts the declarator names of one field declaration.
func fieldNames(node *sitter.Node, source []byte, lang parser.Language) []namedNode {
	var names []namedNode

	switch lang {
	case parser.LangCSharp:
		if vd := childOfType(node, "variable_declaration"); vd != nil {
			for i := range int(vd.ChildCount()) {
				d := vd.Child(i)
				if d.Type() != "variable_declarator" {
					continue
				}
				if id := childOfType(d, "identifier"); id != nil {
					names = append(names, namedNode{parser.GetNodeText(id, source), id})
				}
			}
		}

	case parser.LangJava:
		for i := range int(node.ChildCount()) {
			d := node.Child(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			id := d.ChildByFieldName("name")
			if id == nil {
				id = childOfType(d, "identifier")
			}
			if id != nil {
				names = append(names, namedNode{parser.GetNodeText(id, source), id})
			}
		}

	case parser.LangTypeScript, parser.LangTSX, parser.LangJavaScript:
		id := node.ChildByFieldName("name")
		if id == nil {
			id = node.ChildByFieldName("property")
		}
		if id != nil {
			names = append(names, namedNode{parser.GetNodeText(id, source), id})
		}

	case parser.LangGo:
		for i := range int(node.ChildCount()) {
			c := node.Child(i)
			if c.Type() == "field_identifier" {
				names = append(names, namedNode{parser.GetNodeText(c, source), c})
			}
		}
	}

	return names
}

// isConstField reports whether the declaration is a compile-time constant.
func isConstField(lang parser.Language, mods []string) bool {
	switch lang {
	case parser.LangCSharp:
		return hasModifier(mods, "const")
	case parser.LangJava:
		return hasModifier(mods, "static") && hasModifier(mods, "final")
	default:
		return false
	}
}

// declarationSiteParents are parent node types that introduce declared
// names. Whether a given identifier child is such a name is decided by
// isDeclarationSiteName; expression children of these nodes still count
// as accesses.
var declarationSiteParents = map[string]bool{
	"variable_declarator":             true, // C#, Java declarator names
	"field_declaration":               true, // Go struct field names
	"public_field_definition":         true,
	"field_definition":                true,
	"parameter":                       true,
	"formal_parameter":                true,
	"required_parameter":              true,
	"optional_parameter":              true,
	"parameter_declaration":           true,
	"variadic_parameter_declaration":  true,
	"method_declaration":              true, // method name identifiers
	"constructor_declaration":         true,
	"local_function_statement":        true,
	"method_definition":               true,
	"function_declaration":            true,
	"type_spec":                       true,
	"class_declaration":               true,
	"struct_declaration":              true,
	"record_declaration":              true,
	"namespace_declaration":           true,
	"file_scoped_namespace_declaration": true,
	"package_declaration":             true,
	"package_clause":                  true,
	"implicit_parameter":              true,
}

// isDeclarationSiteName reports whether node is a declared name inside its
// parent rather than a use. Parents that mark declared names with a
// name/pattern field get exact comparison, because their other children can
// be expressions: Java puts a declarator's initializer value directly under
// variable_declarator, and TS/JS field values sit directly under the field
// definition. Parents without such fields only ever hold names (parameter
// lists, Go field groups, package clauses).
func isDeclarationSiteName(node *sitter.Node) bool {
	p := node.Parent()
	if p == nil || !declarationSiteParents[p.Type()] {
		return false
	}

	hasNameField := false
	for i := range int(p.ChildCount()) {
		switch p.FieldNameForChild(i) {
		case "name", "pattern":
			hasNameField = true
			if sameNode(node, p.Child(i)) {
				return true
			}
		}
	}
	return !hasNameField
}

// recordFieldAccesses walks every identifier occurrence in the file and
// records the classified access against all field candidates sharing the
// name. Binding is name-based: when a name is ambiguous the access is
// credited to every candidate, which biases toward reads and away from
// false positives.
func recordFieldAccesses(result *parser.ParseResult, ix *Index, tracker *usage.Tracker) {
	idTypes := identifierNodeTypes(result.Language)
	if len(idTypes) == 0 {
		return
	}

	isIdent := make(map[string]bool, len(idTypes))
	for _, t := range idTypes {
		isIdent[t] = true
	}

	parser.Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		if !isIdent[node.Type()] {
			return true
		}
		if isDeclarationSiteName(node) {
			return true
		}

		name := parser.GetNodeText(node, source)
		candidates := ix.Candidates(name)
		if len(candidates) == 0 {
			return true
		}

		ctx := deriveContext(node, source)
		for _, id := range candidates {
			tracker.RecordAccess(id, ctx)
		}
		return true
	})
}
