// Package hcl provides the concrete implementation of config.Loader. JSON
// and native HCL files are parsed with hashicorp/hcl, YAML files with
// gopkg.in/yaml.v3; every format is reduced to a set of cty values and
// translated into a config.Document in one place, which is where type
// checks and single-object-or-list normalization happen.
//
// The package also converts a validated project back into cty values and
// renders it as an HCL file that Load accepts unchanged.
package hcl
