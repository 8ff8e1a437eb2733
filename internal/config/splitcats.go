package config

import (
	"fmt"
	"strings"
)

// SplitCatDecl is one declared split category: its name and, when the
// declaration carried a parenthesized state list, the restriction to apply
// globally across the whole build.
type SplitCatDecl struct {
	Name string
	// Only lists the allowed state labels, or nil when unrestricted.
	Only []string
}

// ParseSplitCats parses the splitCats value:
//
//	( <catName> [ "(" <state> { "," <state> } ")" ] )+
//
// A repeated category name keeps the first declaration.
func ParseSplitCats(spec string) ([]SplitCatDecl, error) {
	var decls []SplitCatDecl
	seen := make(map[string]bool)

	for _, tok := range strings.Fields(spec) {
		decl := SplitCatDecl{Name: tok}
		if open := strings.IndexByte(tok, '('); open >= 0 {
			if !strings.HasSuffix(tok, ")") {
				return nil, fmt.Errorf("malformed split category declaration %q", tok)
			}
			decl.Name = tok[:open]
			inner := tok[open+1 : len(tok)-1]
			if decl.Name == "" || inner == "" {
				return nil, fmt.Errorf("malformed split category declaration %q", tok)
			}
			for _, lbl := range strings.Split(inner, ",") {
				if lbl == "" {
					return nil, fmt.Errorf("malformed split category declaration %q", tok)
				}
				decl.Only = append(decl.Only, lbl)
			}
		} else if strings.ContainsAny(tok, ")") {
			return nil, fmt.Errorf("malformed split category declaration %q", tok)
		}

		if seen[decl.Name] {
			continue
		}
		seen[decl.Name] = true
		decls = append(decls, decl)
	}

	return decls, nil
}
