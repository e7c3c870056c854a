package graphql

import (
	"testing"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		name     string
		opName   string
		document string
		wantKind Kind
		wantErr  bool
	}{
		{
			name:     "query",
			opName:   "ListPosts",
			document: `query ListPosts { posts { slug } }`,
			wantKind: Query,
		},
		{
			name:     "mutation",
			opName:   "CreateComment",
			document: `mutation CreateComment($name: String!) { createComment(data: {name: $name}) { id } }`,
			wantKind: Mutation,
		},
		{
			name:     "syntax error",
			opName:   "Broken",
			document: `query Broken { posts { slug }`,
			wantErr:  true,
		},
		{
			name:     "name mismatch",
			opName:   "ListPosts",
			document: `query GetPosts { posts { slug } }`,
			wantErr:  true,
		},
		{
			name:     "two operations",
			opName:   "A",
			document: `query A { a } query B { b }`,
			wantErr:  true,
		},
		{
			name:     "subscription",
			opName:   "Watch",
			document: `subscription Watch { posts { slug } }`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := ParseOperation(tt.opName, tt.document)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOperation() expected error, got %+v", op)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOperation() error = %v", err)
			}
			if op.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", op.Kind, tt.wantKind)
			}
			if op.Name != tt.opName {
				t.Errorf("Name = %q, want %q", op.Name, tt.opName)
			}
		})
	}
}

func TestMustParseOperation_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseOperation() did not panic on a malformed document")
		}
	}()
	MustParseOperation("Broken", "query Broken {")
}

func TestOperation_RequiresCredential(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want bool
	}{
		{name: "query", op: Operation{Kind: Query}, want: false},
		{name: "authenticated query", op: Operation{Kind: Query, Authenticated: true}, want: true},
		{name: "mutation", op: Operation{Kind: Mutation}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.requiresCredential(); got != tt.want {
				t.Errorf("requiresCredential() = %v, want %v", got, tt.want)
			}
		})
	}
}
