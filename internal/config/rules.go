package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/simforge/internal/category"
	"github.com/vk/simforge/internal/ctxlog"
	"github.com/vk/simforge/internal/model"
)

// CatResolver resolves a rule's left-hand category expression — a single
// category name, or a comma-joined list denoting an on-demand composite —
// into a concrete category. The engine supplies a resolver that searches
// the split, auxiliary and selector categories and memoizes composites by
// their canonical name.
type CatResolver func(expr string) (category.Category, error)

// SplitRule pairs a governing category with the ordered parameters it
// splits.
type SplitRule struct {
	Cat    category.Category
	Params []*model.Param
}

// parse modes for the rule grammar. A rule string cycles
// category-expression -> colon -> parameter-list until exhausted.
type ruleMode int

const (
	modeSplitCat ruleMode = iota
	modeColon
	modeParamList
)

func (m ruleMode) expected() string {
	switch m {
	case modeColon:
		return "':'"
	case modeParamList:
		return "parameter list"
	default:
		return "category expression"
	}
}

// ParseRules parses one prototype's splitting rules:
//
//	<catExpr> ":" <param> { "," <param> } ...
//
// Tokens are whitespace-separated. A trailing comma on a parameter token
// continues the parameter list into the next token. Each parameter may be
// split by at most one rule. Parameters are validated against params, the
// prototype's reachable parameter set. Any malformed clause, unknown
// parameter or unresolved category fails the whole parse.
func ParseRules(ctx context.Context, spec string, resolve CatResolver, params map[string]*model.Param) ([]SplitRule, error) {
	logger := ctxlog.FromContext(ctx)

	var rules []SplitRule
	mode := modeSplitCat
	var cat category.Category
	var ruleParams []*model.Param
	split := make(map[string]bool)

	for _, tok := range strings.Fields(spec) {
		switch mode {
		case modeSplitCat:
			resolved, err := resolve(tok)
			if err != nil {
				return nil, err
			}
			cat = resolved
			mode = modeColon

		case modeColon:
			if tok != ":" {
				return nil, fmt.Errorf("expected ':' after %q, found %q", cat.Name(), tok)
			}
			mode = modeParamList

		case modeParamList:
			continued := strings.HasSuffix(tok, ",")
			for _, name := range strings.Split(strings.TrimSuffix(tok, ","), ",") {
				if name == "" {
					return nil, fmt.Errorf("malformed parameter list %q for category %q", tok, cat.Name())
				}
				p, ok := params[name]
				if !ok {
					return nil, fmt.Errorf("%q is not a parameter of this model", name)
				}
				if split[name] {
					return nil, fmt.Errorf("parameter %q is split by more than one rule", name)
				}
				split[name] = true
				ruleParams = append(ruleParams, p)
			}
			if !continued {
				rules = append(rules, SplitRule{Cat: cat, Params: ruleParams})
				logger.Debug("recorded split rule", "category", cat.Name(), "params", len(ruleParams))
				cat = nil
				ruleParams = nil
				mode = modeSplitCat
			}
		}
	}

	if mode != modeSplitCat {
		return nil, fmt.Errorf("rule string ended early, expected %s", mode.expected())
	}

	return rules, nil
}
