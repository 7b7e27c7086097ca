package analysis

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor turns Python source files into FileReports.
// It is safe for concurrent use: each call creates its own parser.
type Extractor struct {
	language *sitter.Language
}

// NewExtractor creates an extractor for the Python grammar.
func NewExtractor() *Extractor {
	return &Extractor{
		language: sitter.NewLanguage(python.Language()),
	}
}

// ExtractFile reads and analyzes one file. Failures are recorded in the
// returned report rather than returned.
func (e *Extractor) ExtractFile(filePath string) *FileReport {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return failedReport(readError(err))
	}
	return e.Extract(source)
}

// Extract analyzes source text.
func (e *Extractor) Extract(source []byte) *FileReport {
	if !utf8.Valid(source) {
		return failedReport(decodeError(source))
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(e.language); err != nil {
		return failedReport(&FileError{Kind: KindParseFailure, Message: err.Error()})
	}

	code := bytes.TrimPrefix(source, utf8BOM)
	tree := parser.Parse(code, nil)
	if tree == nil {
		return failedReport(&FileError{Kind: KindParseFailure, Message: "parser returned no tree"})
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return failedReport(syntaxError(root))
	}
	if node := firstInvalidStatement(root); node != nil {
		return failedReport(invalidSyntaxAt(node))
	}

	report := newFileReport()
	report.Lines = countLines(string(source))

	for _, child := range namedChildren(root) {
		node := unwrapDecorated(child)
		switch node.Kind() {
		case "import_statement", "import_from_statement", "future_import_statement":
			report.Imports = append(report.Imports, renderImport(node, code))
		case "class_definition":
			name := nodeText(node.ChildByFieldName("name"), code)
			report.Classes.Set(name, classMethods(node, code))
		case "function_definition":
			if isAsync(node) {
				continue
			}
			name := nodeText(node.ChildByFieldName("name"), code)
			report.Functions.Set(name, positionalParameters(node, code))
		}
	}

	// Assignments are collected from the whole tree, not only the module
	// level. Imports, classes and functions above are top-level only.
	walkTree(root, func(n *sitter.Node) bool {
		if n.Kind() != "assignment" {
			return true
		}
		if parent := n.Parent(); parent != nil && parent.Kind() == "assignment" {
			// Inner link of a chain, already recorded with its head.
			return true
		}
		if targets := assignmentTargets(n, code); targets != nil {
			report.Variables = append(report.Variables, targets)
		}
		return true
	})

	return report
}

func syntaxError(root *sitter.Node) *FileError {
	node := firstSyntaxError(root)
	if node == nil {
		return &FileError{Kind: KindParseFailure, Message: "invalid syntax"}
	}

	pos := node.StartPosition()
	line, column := pos.Row+1, pos.Column+1
	if node.IsMissing() {
		return &FileError{
			Kind:    KindParseFailure,
			Message: fmt.Sprintf("expected %q (line %d, column %d)", node.Kind(), line, column),
		}
	}
	return invalidSyntaxAt(node)
}

func invalidSyntaxAt(node *sitter.Node) *FileError {
	pos := node.StartPosition()
	return &FileError{
		Kind:    KindParseFailure,
		Message: fmt.Sprintf("invalid syntax (line %d, column %d)", pos.Row+1, pos.Column+1),
	}
}

// renderImport normalizes an import statement. Plain imports lose their
// leading "import " keyword; from-imports keep "from X import Y".
func renderImport(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "import_statement":
		return strings.Join(importNames(node, nil, source), ", ")
	case "future_import_statement":
		return "from __future__ import " + strings.Join(importNames(node, nil, source), ", ")
	}

	module := node.ChildByFieldName("module_name")
	names := importNames(node, module, source)
	return fmt.Sprintf("from %s import %s", compactText(module, source), strings.Join(names, ", "))
}

// importNames renders the imported names of an import node, skipping the
// module node of a from-import.
func importNames(node, module *sitter.Node, source []byte) []string {
	var names []string
	for _, child := range namedChildren(node) {
		if sameNode(child, module) {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			names = append(names, compactText(child, source))
		case "aliased_import":
			name := compactText(child.ChildByFieldName("name"), source)
			alias := nodeText(child.ChildByFieldName("alias"), source)
			names = append(names, name+" as "+alias)
		case "wildcard_import":
			names = append(names, "*")
		}
	}
	return names
}

// classMethods lists the function definitions that are direct children of a
// class body, decorated or not, in declaration order. Async methods are skipped.
func classMethods(node *sitter.Node, source []byte) []string {
	methods := []string{}
	for _, child := range namedChildren(node.ChildByFieldName("body")) {
		def := unwrapDecorated(child)
		if def.Kind() != "function_definition" || isAsync(def) {
			continue
		}
		methods = append(methods, nodeText(def.ChildByFieldName("name"), source))
	}
	return methods
}

// isAsync reports whether a function_definition is an "async def".
func isAsync(node *sitter.Node) bool {
	return node.ChildCount() > 0 && node.Child(0).Kind() == "async"
}

// positionalParameters lists the ordinary positional parameters of a function.
// Positional-only parameters (before "/") are dropped, and collection stops at
// the first "*", "*args" or "**kwargs".
func positionalParameters(node *sitter.Node, source []byte) []string {
	params := []string{}
	for _, param := range namedChildren(node.ChildByFieldName("parameters")) {
		switch param.Kind() {
		case "identifier":
			params = append(params, nodeText(param, source))
		case "default_parameter", "typed_default_parameter":
			name := param.ChildByFieldName("name")
			if name == nil || name.Kind() != "identifier" {
				continue
			}
			params = append(params, nodeText(name, source))
		case "typed_parameter":
			inner := namedChildren(param)
			if len(inner) == 0 {
				continue
			}
			if inner[0].Kind() != "identifier" {
				// *args: T or **kwargs: T
				return params
			}
			params = append(params, nodeText(inner[0], source))
		case "positional_separator":
			params = []string{}
		case "keyword_separator", "list_splat_pattern", "dictionary_splat_pattern":
			return params
		}
	}
	return params
}

// assignmentTargets returns the target texts of an assignment chain, or nil
// for annotated assignments (x: int = 1), which are not plain assignments.
func assignmentTargets(node *sitter.Node, source []byte) []string {
	if node.ChildByFieldName("type") != nil {
		return nil
	}

	targets := []string{}
	for n := node; n != nil && n.Kind() == "assignment"; n = n.ChildByFieldName("right") {
		left := n.ChildByFieldName("left")
		if left == nil {
			break
		}
		switch left.Kind() {
		case "pattern_list", "tuple_pattern", "list_pattern":
			for _, elem := range namedChildren(left) {
				targets = append(targets, nodeText(elem, source))
			}
		default:
			targets = append(targets, nodeText(left, source))
		}
	}
	return targets
}

// countLines counts lines the way Python's str.splitlines does: every line
// boundary ends a line and a trailing partial line counts as one more.
func countLines(text string) int {
	count := 0
	pending := false
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch r {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				size = 2
			}
			count++
			pending = false
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			count++
			pending = false
		default:
			pending = true
		}
		i += size
	}
	if pending {
		count++
	}
	return count
}
