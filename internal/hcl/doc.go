// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file parsing, decoding blocks into the
// schema structs below, evaluating attribute expressions with go-cty and
// translating the result into the format-agnostic config.Model.
package hcl
