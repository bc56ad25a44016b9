package engine

// KnownTypes resolves an unqualified simple name to a fully qualified
// name for the formatting operation's import fix-up. It is seeded with
// java.lang (always implicitly imported, so never itself
// needs an import edit) plus whatever the active classpath scan
// discovered; java.util/java.io entries are included as a fallback for
// workspaces with no configured classpath, mirroring how a real compiler
// facility would expose its own symbol index.
type KnownTypes struct {
	bySimpleName map[string]string
}

// NewKnownTypes builds a lookup table from the given classpath-derived
// elements, plus a small built-in JDK fallback.
func NewKnownTypes(classpathElements []Element) *KnownTypes {
	kt := &KnownTypes{bySimpleName: map[string]string{}}
	for simple, fqn := range builtinJDKTypes {
		kt.bySimpleName[simple] = fqn
	}
	for _, el := range classpathElements {
		switch el.Kind {
		case ElementClass, ElementInterface, ElementEnum, ElementRecord, ElementAnnotationType:
			if el.Pkg == "" || el.Pkg == "java.lang" {
				continue
			}
			kt.bySimpleName[el.Name] = el.Pkg + "." + el.Name
		}
	}
	return kt
}

// Lookup implements the `known` callback FullFileResult.NeededImports
// expects.
func (kt *KnownTypes) Lookup(simpleName string) (string, bool) {
	fqn, ok := kt.bySimpleName[simpleName]
	return fqn, ok
}

var builtinJDKTypes = map[string]string{
	"List":         "java.util.List",
	"ArrayList":    "java.util.ArrayList",
	"Map":          "java.util.Map",
	"HashMap":      "java.util.HashMap",
	"Set":          "java.util.Set",
	"HashSet":      "java.util.HashSet",
	"Optional":     "java.util.Optional",
	"Collections":  "java.util.Collections",
	"Arrays":       "java.util.Arrays",
	"Objects":      "java.util.Objects",
	"Comparator":   "java.util.Comparator",
	"Iterator":     "java.util.Iterator",
	"File":         "java.io.File",
	"IOException":  "java.io.IOException",
	"InputStream":  "java.io.InputStream",
	"OutputStream": "java.io.OutputStream",
	"Stream":       "java.util.stream.Stream",
	"Collectors":   "java.util.stream.Collectors",
	"Path":         "java.nio.file.Path",
	"Paths":        "java.nio.file.Paths",
	"Files":        "java.nio.file.Files",
	"BigDecimal":   "java.math.BigDecimal",
	"BigInteger":   "java.math.BigInteger",
	"Duration":     "java.time.Duration",
	"Instant":      "java.time.Instant",
}
