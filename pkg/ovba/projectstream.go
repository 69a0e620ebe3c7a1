package ovba

import "strings"

// moduleDeclExtensions maps PROJECT stream declaration keys to source file
// extensions. BaseClass declares a user form.
var moduleDeclExtensions = map[string]string{
	"module":    ".bas",
	"class":     ".cls",
	"document":  ".cls",
	"baseclass": ".frm",
}

// ModuleExtensions parses the text PROJECT stream and maps each declared
// module name to its source file extension. Declarations look like
// "Module=Module1", "Class=Class1", "BaseClass=UserForm1" or
// "Document=ThisWorkbook/&H00000000"; everything else (properties,
// sections, workspace state) is ignored.
func ModuleExtensions(project string) map[string]string {
	exts := make(map[string]string)
	for _, line := range strings.FieldsFunc(project, isLineBreak) {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		ext, ok := moduleDeclExtensions[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			continue
		}
		// Document declarations carry a trailing /&H… version suffix.
		name, _, _ := strings.Cut(value, "/")
		name = strings.TrimSpace(name)
		if name != "" {
			exts[name] = ext
		}
	}
	return exts
}

func isLineBreak(r rune) bool {
	return r == '\r' || r == '\n'
}
