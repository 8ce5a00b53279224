package agent

import (
	"context"
	"testing"

	"google.golang.org/genai"
)

func echoFunc(name string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{Name: name},
		Func: func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": args["text"]}}
		},
	}
}

func TestLibraryDispatch(t *testing.T) {
	lib := NewLibrary([]Function{echoFunc("First"), echoFunc("Second")})

	resp := lib(context.Background(), &genai.FunctionCall{
		ID: "42", Name: "Second", Args: map[string]any{"text": "hello"},
	})
	if resp.Name != "Second" || resp.ID != "42" {
		t.Errorf("dispatched to %q (id %q)", resp.Name, resp.ID)
	}
	if resp.Response["output"] != "hello" {
		t.Errorf("output = %v", resp.Response["output"])
	}
}

func TestLibraryUnknownFunction(t *testing.T) {
	lib := NewLibrary([]Function{echoFunc("First")})

	resp := lib(context.Background(), &genai.FunctionCall{Name: "Nope"})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("an unknown function must answer with an error, got %v", resp.Response)
	}
}

func TestNewDeclaration(t *testing.T) {
	decls := NewDeclaration([]Function{echoFunc("First"), echoFunc("Second")})
	if len(decls) != 2 || decls[0].Name != "First" || decls[1].Name != "Second" {
		t.Errorf("declarations = %v", decls)
	}
}

func TestParseDateArg(t *testing.T) {
	if _, err := parseDate(map[string]any{"date": "2024-06-01"}); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	if _, err := parseDate(map[string]any{"date": "junk"}); err == nil {
		t.Error("invalid date accepted")
	}
	if _, err := parseDate(map[string]any{}); err != nil {
		t.Errorf("absent date should default to today: %v", err)
	}
}
