package service

import "strings"

// cleanReply quita BOM y espacios alrededor de la respuesta del LLM.
func cleanReply(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.TrimSpace(s)
}
