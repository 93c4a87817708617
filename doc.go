// Package yamlenv bridges hierarchical YAML configuration files and flat
// environment variable namespaces so an application can be configured the
// same way in local development and in production.
//
// A load call reads a nested YAML tree, flattens it into PREFIX_SECTION_FIELD
// environment variable names, and resolves every key across three precedence
// tiers: explicit environment variables, file-provided values, and schema
// defaults, in that order. The result is either written back into the
// process environment or returned to the caller as a nested object.
//
//	sch := yamlenv.Schema{
//	    "database.host": {Type: codec.KindString, Default: "localhost"},
//	    "database.port": {Type: codec.KindInt, Default: 5432, Required: true},
//	}
//
//	res, err := yamlenv.Load("config.yaml",
//	    yamlenv.WithPrefix("APP"),
//	    yamlenv.WithSchema(sch),
//	    yamlenv.WithMode(yamlenv.ReturnObject),
//	)
//
// Concurrent loads targeting the same prefix are not synchronized; callers
// that need them must serialize. Error messages reference key names only and
// never configuration values.
package yamlenv
