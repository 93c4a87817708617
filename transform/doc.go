// Package transform flattens nested configuration trees into flat
// environment-variable mappings and reconstructs trees from them, delegating
// name synthesis to envkey and value conversion to codec.
package transform
