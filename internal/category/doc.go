// Package category implements the discrete category algebra the build
// engine splits models over: simple dataset-backed categories, restricted
// subsets, cartesian products, and function-derived auxiliary categories.
//
// All variants sit behind the Category interface. A View assigns one state
// label to each fundamental category; products and function categories
// compute their own label from a View lazily, so a single master-index
// enumeration drives every governing category in a build.
package category
