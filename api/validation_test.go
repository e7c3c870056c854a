package api

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func TestCommentRequest_Validation(t *testing.T) {
	valid := CommentRequest{Name: "Alice", Email: "a@x.com", Comment: "Great post", Slug: "hello-world"}

	tests := []struct {
		name    string
		modify  func(r *CommentRequest)
		wantErr bool
	}{
		{name: "Valid", modify: func(r *CommentRequest) {}},
		{name: "Missing name", modify: func(r *CommentRequest) { r.Name = "" }, wantErr: true},
		{name: "Blank name", modify: func(r *CommentRequest) { r.Name = "   " }, wantErr: true},
		{name: "Invalid email", modify: func(r *CommentRequest) { r.Email = "nope" }, wantErr: true},
		{name: "Blank comment", modify: func(r *CommentRequest) { r.Comment = "\n\t" }, wantErr: true},
		{name: "Comment too long", modify: func(r *CommentRequest) { r.Comment = strings.Repeat("a", 5001) }, wantErr: true},
		{name: "Missing slug", modify: func(r *CommentRequest) { r.Slug = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)

			err := binding.Validator.ValidateStruct(&req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
