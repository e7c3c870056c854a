package graphql

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

type Kind int

const (
	Query Kind = iota
	Mutation
)

func (k Kind) String() string {
	if k == Mutation {
		return "mutation"
	}
	return "query"
}

// Operation is a named, pre-validated GraphQL document.
type Operation struct {
	Name     string
	Kind     Kind
	Document string

	// Authenticated queries carry the bearer token like mutations do.
	Authenticated bool
}

func (op Operation) requiresCredential() bool {
	return op.Kind == Mutation || op.Authenticated
}

// ParseOperation checks that document parses and declares exactly one operation
// with the given name and kind.
func ParseOperation(name string, document string) (Operation, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: document})
	if err != nil {
		return Operation{}, fmt.Errorf("graphql: failed to parse %s: %w", name, err)
	}

	if len(doc.Operations) != 1 {
		return Operation{}, fmt.Errorf("graphql: %s declares %d operations, want 1", name, len(doc.Operations))
	}

	def := doc.Operations[0]
	if def.Name != name {
		return Operation{}, fmt.Errorf("graphql: document declares operation %q, want %q", def.Name, name)
	}

	op := Operation{Name: name, Document: document}
	switch def.Operation {
	case ast.Query:
		op.Kind = Query
	case ast.Mutation:
		op.Kind = Mutation
	default:
		return Operation{}, fmt.Errorf("graphql: %s is a %s, only queries and mutations are supported", name, def.Operation)
	}

	return op, nil
}

// MustParseOperation is ParseOperation for package-level catalogs; it panics on a malformed document.
func MustParseOperation(name string, document string) Operation {
	op, err := ParseOperation(name, document)
	if err != nil {
		panic(err)
	}
	return op
}
