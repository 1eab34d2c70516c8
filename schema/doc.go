// Package schema implements the schema algebra for the Thrift Compact
// Protocol codec: a closed family of immutable type descriptors used to
// drive both the wire.Reader and wire.Writer.
//
// Schema nodes are constructed once, via the factory functions in this
// package, and are immutable thereafter. They carry no values of their
// own -- they are a static description of shape, shared freely across
// goroutines and across independent encode/decode calls.
package schema
