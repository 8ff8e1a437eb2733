package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/simforge/internal/ctxlog"
)

// StateMapping associates one selector-category state label with the
// prototype model that serves it.
type StateMapping struct {
	State string
	Proto string
}

// ModelSelection is the parsed physModels line: an optional selector
// category name and the ordered state-to-prototype mappings.
type ModelSelection struct {
	// Selector is the model-selector category name, or "" when the build
	// uses a single prototype for every state.
	Selector string
	// Mappings lists (state, prototype) pairs in declaration order. With
	// duplicated state labels only the first mapping is retained.
	Mappings []StateMapping
}

// Proto returns the prototype mapped to the given selector state.
func (s *ModelSelection) Proto(state string) (string, bool) {
	for _, m := range s.Mappings {
		if m.State == state {
			return m.Proto, true
		}
	}
	return "", false
}

// ParseModels parses the physModels value:
//
//	[ <selectorCat> ":" ] ( <state> "=" <protoName> | <protoName> )+
//
// A bare prototype token maps a state of the same name. Without a selector
// category only the first prototype token is honored; later tokens log a
// warning and are ignored. Duplicate state labels keep the first mapping
// and log a warning.
func ParseModels(ctx context.Context, spec string) (*ModelSelection, error) {
	logger := ctxlog.FromContext(ctx)

	tokens := strings.Fields(spec)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("physModels is empty")
	}

	sel := &ModelSelection{}
	if len(tokens) >= 2 && tokens[1] == ":" {
		sel.Selector = tokens[0]
		tokens = tokens[2:]
		if len(tokens) == 0 {
			return nil, fmt.Errorf("physModels lists selector category %q but no models", sel.Selector)
		}
	}

	seen := make(map[string]bool)
	for i, tok := range tokens {
		state, proto := tok, tok
		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			state, proto = tok[:eq], tok[eq+1:]
			if state == "" || proto == "" {
				return nil, fmt.Errorf("malformed model mapping %q", tok)
			}
			if sel.Selector == "" {
				logger.Warn("state=prototype association is meaningless without a selector category", "token", tok)
			}
		}

		if seen[state] {
			logger.Warn("multiple prototypes specified for state, only the first will be used", "state", state)
			continue
		}
		seen[state] = true
		sel.Mappings = append(sel.Mappings, StateMapping{State: state, Proto: proto})

		if sel.Selector == "" && i+1 < len(tokens) {
			logger.Warn("without a selector category only the first prototype will be used")
			break
		}
	}

	return sel, nil
}
