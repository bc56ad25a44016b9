package engine

import (
	"strconv"
	"strings"
)

// RenderDeclaration synthesizes the Java-code "declaration" rendering
// Hover needs: `enum|interface|class|@interface Name [extends Super] {
// members… }`, omitting extends when the super prints
// as Object or none, printing nested types as `Name { /* removed */ }`.
// This walks engine.Element values rather than a classfile-backed
// java.Class, adapted from format/java.go's JavaEncoder.
func RenderDeclaration(el Element, members []Element, nested []string) string {
	var sb strings.Builder
	sb.WriteString(typeKeyword(el.Kind))
	sb.WriteByte(' ')
	sb.WriteString(el.Name)
	if el.SuperName != "" && el.SuperName != "Object" && el.SuperName != "none" {
		sb.WriteString(" extends ")
		sb.WriteString(el.SuperName)
	}
	sb.WriteString(" {\n")
	for _, m := range members {
		sb.WriteString("  ")
		sb.WriteString(renderMember(m))
		sb.WriteString("\n")
	}
	for _, n := range nested {
		sb.WriteString("  ")
		sb.WriteString(n)
		sb.WriteString(" { /* removed */ }\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func typeKeyword(k ElementKind) string {
	switch k {
	case ElementInterface:
		return "interface"
	case ElementEnum:
		return "enum"
	case ElementAnnotationType:
		return "@interface"
	default:
		return "class"
	}
}

// renderMember prints a one-line declaration for an enclosed
// executable/variable.
func renderMember(el Element) string {
	var sb strings.Builder
	sb.WriteString(modifierPrefix(el.Modifiers))
	switch el.Kind {
	case ElementMethod:
		sb.WriteString(el.TypeName)
		sb.WriteByte(' ')
		sb.WriteString(RenderSignature(el))
		sb.WriteByte(';')
	case ElementConstructor:
		sb.WriteString(RenderSignature(el))
		sb.WriteByte(';')
	case ElementField:
		sb.WriteString(el.TypeName)
		sb.WriteByte(' ')
		sb.WriteString(el.Name)
		sb.WriteByte(';')
	default:
		sb.WriteString(el.Name)
		sb.WriteByte(';')
	}
	return sb.String()
}

func modifierPrefix(m Modifiers) string {
	var parts []string
	if m.Public {
		parts = append(parts, "public")
	}
	if m.Protected {
		parts = append(parts, "protected")
	}
	if m.Private {
		parts = append(parts, "private")
	}
	if m.Static {
		parts = append(parts, "static")
	}
	if m.Final {
		parts = append(parts, "final")
	}
	if m.Abstract {
		parts = append(parts, "abstract")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

// RenderSignature renders `name(p1, p2, …)` for resolveCompletionItem
// and signatureHelp: parameter names when available, else short-printed
// parameter types (dropping package qualifiers) when names follow the
// generic argN pattern.
func RenderSignature(el Element) string {
	params := make([]string, len(el.ParamTypes))
	if allGenericArgNames(el.ParamNames) {
		for i, t := range el.ParamTypes {
			params[i] = shortType(t)
		}
	} else {
		for i, t := range el.ParamTypes {
			name := ""
			if i < len(el.ParamNames) {
				name = el.ParamNames[i]
			}
			if name == "" {
				params[i] = t
			} else {
				params[i] = t + " " + name
			}
		}
	}
	return el.Name + "(" + strings.Join(params, ", ") + ")"
}

func allGenericArgNames(names []string) bool {
	if len(names) == 0 {
		return false
	}
	for i, n := range names {
		want := genericArgName(i)
		if n != want {
			return false
		}
	}
	return true
}

func genericArgName(i int) string {
	return "arg" + strconv.Itoa(i)
}

func shortType(t string) string {
	if idx := strings.LastIndexByte(t, '.'); idx >= 0 {
		return t[idx+1:]
	}
	return t
}
