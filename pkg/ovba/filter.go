package ovba

import "strings"

// attributePrefix opens the hidden Attribute lines the VBA editor stores
// at the top of every module (Attribute VB_Name, VB_Base, …).
const attributePrefix = "Attribute VB_"

// FilterSource drops the Attribute preamble lines from extracted module
// source and normalizes line endings to \n. The remaining text is the
// code a user sees in the VBA editor.
func FilterSource(code string) string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.ReplaceAll(code, "\r", "\n")
	lines := strings.Split(code, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, attributePrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
