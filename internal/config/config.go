package config

// Reserved keys of a build configuration. Every other key names a
// prototype model and holds that model's splitting rules.
const (
	KeyPhysModels = "physModels"
	KeySplitCats  = "splitCats"
)

// Config is one build request: a mapping from the reserved keys and one
// key per prototype model name to rule strings. It is created once per
// build and consumed read-only.
type Config map[string]string

// NewTemplate returns a blank configuration correctly keyed for the given
// prototype set. Callers fill in the values.
func NewTemplate(protoNames ...string) Config {
	cfg := Config{
		KeyPhysModels: "",
		KeySplitCats:  "",
	}
	for _, name := range protoNames {
		cfg[name] = ""
	}
	return cfg
}
