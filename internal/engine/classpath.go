package engine

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/javadev/javalsp/internal/classfile"
)

// ScanClassPath walks the configured classpath entries — directories,
// .jar/.zip archives (including jars nested inside them, as the JDK's
// own rt.jar historically bundled src.zip-style nested archives) — and
// returns the Element set their .class files expose. In-source analysis
// alone can't see declarations that only exist as compiled bytecode, but
// completion/hover on JDK and library types still needs something
// concrete to resolve against.
func ScanClassPath(entries []string) ([]Element, error) {
	var out []Element
	var firstErr error
	for _, entry := range entries {
		els, err := scanClassPathEntry(entry)
		if err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "scanning classpath entry %q", entry)
		}
		out = append(out, els...)
	}
	return out, firstErr
}

func scanClassPathEntry(path string) ([]Element, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return scanDir(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".zip":
		return scanZipOrJar(path)
	case ".class":
		els, err := scanClassFile(path)
		if err != nil {
			return nil, err
		}
		return els, nil
	default:
		return nil, nil
	}
}

func scanDir(root string) ([]Element, error) {
	var out []Element
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".class" {
			return nil
		}
		els, scanErr := scanClassFile(path)
		if scanErr != nil {
			return nil
		}
		out = append(out, els...)
		return nil
	})
	return out, err
}

func scanZipOrJar(zipPath string) ([]Element, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []Element
	var nestedJars []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".class":
			els, err := scanZipEntryClass(f)
			if err == nil {
				out = append(out, els...)
			}
		case ".jar":
			nestedJars = append(nestedJars, f)
		}
	}
	for _, nested := range nestedJars {
		els, err := scanNestedJar(nested)
		if err == nil {
			out = append(out, els...)
		}
	}
	return out, nil
}

func scanZipEntryClass(f *zip.File) ([]Element, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return elementsFromClassBytes(data)
}

func scanNestedJar(jarFile *zip.File) ([]Element, error) {
	rc, err := jarFile.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	jr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var out []Element
	for _, f := range jr.File {
		if f.FileInfo().IsDir() || strings.ToLower(filepath.Ext(f.Name)) != ".class" {
			continue
		}
		els, err := scanZipEntryClass(f)
		if err == nil {
			out = append(out, els...)
		}
	}
	return out, nil
}

func scanClassFile(path string) ([]Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return elementsFromClassBytes(data)
}

func elementsFromClassBytes(data []byte) ([]Element, error) {
	cf, err := classfile.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	typePtr := cf.Ptr()
	pkg, simple := typePtr.Owner(), typePtr.Name()

	kind := ElementClass
	switch {
	case cf.IsInterface():
		kind = ElementInterface
	case cf.IsEnum():
		kind = ElementEnum
	case cf.IsAnnotation():
		kind = ElementAnnotationType
	}

	super := ""
	if s := cf.SuperClassName(); s != "" {
		_, super = splitPackage(classfile.InternalToSourceName(s))
	}

	els := []Element{{
		Kind: kind, Pkg: pkg, Name: simple, SuperName: super,
		Modifiers: modifiersFromAccessFlags(cf.AccessFlags),
		Synthetic: simple == "Object" && pkg == "java.lang",
	}}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.ParsedDescriptor(cf.ConstantPool) == nil {
			continue
		}
		mPtr := m.Ptr(cf)
		k := ElementMethod
		if m.IsConstructor(cf.ConstantPool) {
			k = ElementConstructor
		}
		returnType := "void"
		if desc := m.ParsedDescriptor(cf.ConstantPool); desc.ReturnType != nil {
			returnType = desc.ReturnType.String()
		}
		els = append(els, Element{
			Kind: k, Pkg: pkg, Owner: simple, Name: mPtr.Name(),
			TypeName: returnType, ParamTypes: mPtr.Params(),
		})
	}
	for i := range cf.Fields {
		fld := &cf.Fields[i]
		els = append(els, Element{
			Kind: ElementField, Pkg: pkg, Owner: simple, Name: fld.Ptr(cf).Name(),
		})
	}
	return els, nil
}

func splitPackage(dotted string) (pkg, simple string) {
	if i := strings.LastIndexByte(dotted, '.'); i >= 0 {
		return dotted[:i], dotted[i+1:]
	}
	return "", dotted
}

func modifiersFromAccessFlags(flags classfile.AccessFlags) Modifiers {
	return Modifiers{
		Public:   flags.IsPublic(),
		Private:  flags.IsPrivate(),
		Final:    flags.IsFinal(),
		Abstract: flags.IsAbstract(),
	}
}
