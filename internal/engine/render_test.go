package engine_test

import (
	"strings"
	"testing"

	"github.com/javadev/javalsp/internal/engine"
)

func TestRenderDeclarationOmitsObjectSuper(t *testing.T) {
	el := engine.Element{Kind: engine.ElementClass, Name: "Widget", SuperName: "Object"}
	out := engine.RenderDeclaration(el, nil, nil)
	if strings.Contains(out, "extends") {
		t.Fatalf("expected no extends clause for Object superclass, got %q", out)
	}
	if !strings.HasPrefix(out, "class Widget {") {
		t.Fatalf("unexpected rendering: %q", out)
	}
}

func TestRenderDeclarationKeepsRealSuper(t *testing.T) {
	el := engine.Element{Kind: engine.ElementClass, Name: "Widget", SuperName: "Gadget"}
	out := engine.RenderDeclaration(el, nil, nil)
	if !strings.Contains(out, "extends Gadget") {
		t.Fatalf("expected extends Gadget, got %q", out)
	}
}

func TestRenderDeclarationNestedTypeIsElided(t *testing.T) {
	el := engine.Element{Kind: engine.ElementClass, Name: "Outer"}
	out := engine.RenderDeclaration(el, nil, []string{"Inner"})
	if !strings.Contains(out, "Inner { /* removed */ }") {
		t.Fatalf("expected elided nested type rendering, got %q", out)
	}
}

func TestRenderSignatureUsesNamesWhenAvailable(t *testing.T) {
	el := engine.Element{Name: "resize", ParamTypes: []string{"int"}, ParamNames: []string{"newSize"}}
	got := engine.RenderSignature(el)
	if got != "resize(int newSize)" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderSignatureFallsBackToShortTypesForGenericArgNames(t *testing.T) {
	el := engine.Element{
		Name:       "resize",
		ParamTypes: []string{"java.lang.String", "int"},
		ParamNames: []string{"arg0", "arg1"},
	}
	got := engine.RenderSignature(el)
	if got != "resize(String, int)" {
		t.Fatalf("got %q", got)
	}
}
