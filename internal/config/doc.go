// Package config defines the build configuration mapping and its grammar.
//
// A configuration holds whitespace-tokenized rule strings under three kinds
// of keys:
//
//	physModels = [ <selectorCat> : ] ( <state>=<protoName> | <protoName> )+
//	splitCats  = ( <catName>[(<state>,...)] )+
//	<protoName> = <catExpr> : <param>[,<param>...]  (repeatable)
//
// A comma-joined <catExpr> names a composite (product) category built on
// demand. A trailing comma on a parameter token continues the active
// parameter list into the next token, which lets rule values span tokens
// the way file-based configurations naturally wrap.
//
// Parsing either succeeds completely or fails with no partial result.
// Documented degraded modes (duplicate state keeps the first mapping,
// extra prototypes without a selector category are ignored) log warnings
// and continue.
package config
