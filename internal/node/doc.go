// Package node exposes the loader as a host graph node. The node's inputs
// and outputs are declared in an embedded YAML definition; Bind validates
// host-supplied values against it and Invoke runs the load.
package node
