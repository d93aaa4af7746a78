package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var labelCaser = cases.Title(language.Und)

// DisplayLabel renders an enum wire value for humans:
// "tempo_indeterminato" becomes "Tempo Indeterminato".
func DisplayLabel(value string) string {
	if value == "" {
		return "Not specified"
	}
	return labelCaser.String(strings.ReplaceAll(value, "_", " "))
}
