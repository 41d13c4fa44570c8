package bind

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/relict-dev/relict/internal/usage"
	"github.com/relict-dev/relict/pkg/parser"
)

// callable is one method, constructor, local function, or lambda together
// with the metadata the exemption policy needs to decide whether its
// parameters are analyzable.
type callable struct {
	node        *sitter.Node
	params      *sitter.Node
	body        *sitter.Node
	initializer *sitter.Node // C# constructor initializer, walked with the body
	kind        usage.DeclKind
	name        string
	override    bool
	implements  bool
	hasBody     bool
}

// paramInfo is one declared parameter of a callable.
type paramInfo struct {
	name       string
	node       *sitter.Node
	attributed bool
	byRef      bool // C# out/ref/in, excluded from tracking entirely
}

// collectCallables enumerates every callable in the file, nested ones
// included. Each is analyzed independently so shadowing never leaks
// accesses across bodies.
func collectCallables(result *parser.ParseResult) []callable {
	kinds := callableNodeTypes(result.Language)
	if len(kinds) == 0 {
		return nil
	}

	isCallable := make(map[string]bool, len(kinds))
	for _, t := range kinds {
		isCallable[t] = true
	}

	var out []callable
	parser.Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		if isCallable[node.Type()] {
			out = append(out, newCallable(node, source, result.Language))
		}
		return true
	})
	return out
}

func newCallable(node *sitter.Node, source []byte, lang parser.Language) callable {
	c := callable{node: node, kind: usage.KindParameter}
	nodeType := node.Type()
	mods := modifierTexts(node, source)

	switch nodeType {
	case "local_function_statement":
		c.kind = usage.KindLocalFuncParameter
	case "lambda_expression", "arrow_function", "func_literal", "function_expression":
		c.kind = usage.KindLambdaParameter
	}

	c.name = parser.GetNodeText(node.ChildByFieldName("name"), source)
	if c.name == "" {
		c.name = "<anonymous>"
	}

	c.params = node.ChildByFieldName("parameters")
	if c.params == nil {
		// Single-parameter arrow shorthand: x => ... binds the identifier
		// directly instead of a parameter list.
		if p := node.ChildByFieldName("parameter"); p != nil {
			c.params = p
		} else if nodeType == "lambda_expression" {
			if id := childOfType(node, "identifier"); id != nil {
				c.params = id
			}
		}
	}

	c.body = node.ChildByFieldName("body")
	if c.body == nil {
		// C# expression-bodied members.
		c.body = childOfType(node, "arrow_expression_clause")
	}
	c.hasBody = c.body != nil

	switch lang {
	case parser.LangCSharp:
		c.override = hasModifier(mods, "override")
		c.implements = childOfType(node, "explicit_interface_specifier") != nil
		if nodeType == "constructor_declaration" {
			c.initializer = childOfType(node, "constructor_initializer")
		}
	case parser.LangJava:
		c.override = hasAnnotation(mods, "Override")
	case parser.LangTypeScript, parser.LangTSX:
		c.override = hasModifier(mods, "override")
	}

	return c
}

// extractParams lists the callable's declared parameters in source order.
func extractParams(c callable, source []byte, lang parser.Language) []paramInfo {
	if c.params == nil {
		return nil
	}

	// Arrow shorthand: the parameter node is the bare name itself, an
	// identifier (TS/JS) or a C# implicit_parameter.
	if t := c.params.Type(); t == "identifier" || t == "implicit_parameter" {
		return []paramInfo{{name: parser.GetNodeText(c.params, source), node: c.params}}
	}

	var out []paramInfo
	for i := range int(c.params.ChildCount()) {
		child := c.params.Child(i)
		switch child.Type() {
		case "parameter": // C#
			p := paramInfo{node: child}
			if id := child.ChildByFieldName("name"); id != nil {
				p.name = parser.GetNodeText(id, source)
			}
			p.attributed = childOfType(child, "attribute_list") != nil
			if m := childOfType(child, "parameter_modifier"); m != nil {
				switch parser.GetNodeText(m, source) {
				case "out", "ref", "in":
					p.byRef = true
				}
			}
			out = append(out, p)

		case "formal_parameter", "spread_parameter": // Java
			p := paramInfo{node: child}
			if id := child.ChildByFieldName("name"); id != nil {
				p.name = parser.GetNodeText(id, source)
			} else if id := childOfType(child, "identifier"); id != nil {
				p.name = parser.GetNodeText(id, source)
			}
			if mods := childOfType(child, "modifiers"); mods != nil {
				for j := range int(mods.ChildCount()) {
					t := mods.Child(j).Type()
					if t == "marker_annotation" || t == "annotation" {
						p.attributed = true
					}
				}
			}
			out = append(out, p)

		case "required_parameter", "optional_parameter": // TS
			p := paramInfo{node: child}
			if pat := child.ChildByFieldName("pattern"); pat != nil && pat.Type() == "identifier" {
				p.name = parser.GetNodeText(pat, source)
			}
			p.attributed = childOfType(child, "decorator") != nil
			if p.name != "" {
				out = append(out, p)
			}

		case "identifier": // JS formal_parameters, Java inferred lambda params
			out = append(out, paramInfo{name: parser.GetNodeText(child, source), node: child})

		case "implicit_parameter": // C# (x, y) => ... without declared types
			out = append(out, paramInfo{name: parser.GetNodeText(child, source), node: child})

		case "parameter_declaration", "variadic_parameter_declaration": // Go
			for j := range int(child.ChildCount()) {
				g := child.Child(j)
				if g.Type() == "identifier" {
					out = append(out, paramInfo{name: parser.GetNodeText(g, source), node: g})
				}
			}

		case "inferred_parameters": // Java lambda (a, b) -> ...
			for j := range int(child.ChildCount()) {
				g := child.Child(j)
				if g.Type() == "identifier" {
					out = append(out, paramInfo{name: parser.GetNodeText(g, source), node: g})
				}
			}
		}
	}
	return out
}

// analyzeCallableParams runs a fresh single-body tracker over one callable
// and returns its write-only and unused parameters. Nested callables that
// redeclare a tracked name shadow it for their subtree; the nested bodies
// are still walked for names they do not shadow, which is how closure
// captures register as reads.
func analyzeCallableParams(c callable, result *parser.ParseResult, policy usage.Policy) []usage.Declaration {
	source := result.Source
	lang := result.Language

	params := extractParams(c, source, lang)
	if len(params) == 0 {
		return nil
	}

	tracker := usage.NewTracker()
	active := make(map[string]usage.DeclID, len(params))

	for _, p := range params {
		if p.name == "" || p.byRef {
			continue
		}
		decl := usage.Declaration{
			Key:        fmt.Sprintf("%s:%d:%s", result.Path, c.node.StartByte(), p.name),
			Name:       p.name,
			Kind:       c.kind,
			Scope:      usage.ScopeSingleBody,
			Location:   location(result.Path, p.node),
			Override:   c.override,
			Implements: c.implements,
			HasBody:    c.hasBody,
			Discard:    p.name == "_",
			Attributed: p.attributed,
		}
		if policy != nil && !policy.ShouldTrack(decl) {
			continue
		}
		active[p.name] = tracker.Declare(decl)
	}
	if len(active) == 0 {
		return nil
	}

	tracker.AddProducer()
	if c.initializer != nil {
		walkParamBody(c.initializer, c.node, result, active, tracker)
	}
	if c.body != nil {
		walkParamBody(c.body, c.node, result, active, tracker)
	}
	tracker.Done()

	unused, err := tracker.Finalize()
	if err != nil {
		return nil
	}
	return unused
}

// walkParamBody records accesses to the active parameter names within node,
// dropping names that nested callables shadow.
func walkParamBody(node, owner *sitter.Node, result *parser.ParseResult, active map[string]usage.DeclID, tracker *usage.Tracker) {
	source := result.Source
	lang := result.Language

	kinds := callableNodeTypes(lang)
	isCallable := make(map[string]bool, len(kinds))
	for _, t := range kinds {
		isCallable[t] = true
	}

	idTypes := identifierNodeTypes(lang)
	isIdent := make(map[string]bool, len(idTypes))
	for _, t := range idTypes {
		isIdent[t] = true
	}

	var visit func(n *sitter.Node, scope map[string]usage.DeclID)
	visit = func(n *sitter.Node, scope map[string]usage.DeclID) {
		if isCallable[n.Type()] && !sameNode(n, owner) {
			nested := newCallable(n, source, lang)
			next := scope
			for _, p := range extractParams(nested, source, lang) {
				if _, ok := next[p.name]; !ok {
					continue
				}
				if len(next) == len(scope) {
					next = make(map[string]usage.DeclID, len(scope))
					for k, v := range scope {
						next[k] = v
					}
				}
				delete(next, p.name)
			}
			if len(next) == 0 {
				return
			}
			scope = next
		}

		if isIdent[n.Type()] && !isMemberName(n) && !isDeclarationSiteName(n) {
			if id, ok := scope[parser.GetNodeText(n, source)]; ok {
				tracker.RecordAccess(id, deriveContext(n, source))
			}
		}

		for i := range int(n.ChildCount()) {
			visit(n.Child(i), scope)
		}
	}
	visit(node, active)
}
