package codec

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// NewYAMLNodeCodec creates an object codec whose payload is a *yaml.Node
// document tree instead of text.
//
// A node tree has no byte length. The reported size is the number of bytes
// of scalar text held by the tree (keys and values, without any layout),
// which is a lower bound of every text rendering.
func NewYAMLNodeCodec[T any]() ICodec[T, *yaml.Node] {
	return &yamlNodeCodecImpl[T]{}
}

// yamlNodeCodecImpl implements ICodec using yaml.Node trees
type yamlNodeCodecImpl[T any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (y *yamlNodeCodecImpl[T]) Name() string {
	return "YAMLNode"
}

func (y *yamlNodeCodecImpl[T]) Serialize(value T) (int, *yaml.Node, error) {
	node := &yaml.Node{}
	if err := node.Encode(value); err != nil {
		return 0, nil, NewEncodeError(y.Name(), err)
	}
	return scalarBytes(node), node, nil
}

func (y *yamlNodeCodecImpl[T]) Deserialize(payload *yaml.Node) (T, error) {
	var value T
	if payload == nil {
		return value, NewDecodeError(y.Name(), errors.New("nil node"))
	}
	if err := payload.Decode(&value); err != nil {
		return value, NewDecodeError(y.Name(), err)
	}
	return value, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// scalarBytes sums the length of all scalar values in a node tree.
func scalarBytes(n *yaml.Node) int {
	if n == nil {
		return 0
	}
	size := 0
	if n.Kind == yaml.ScalarNode {
		size += len(n.Value)
	}
	for _, c := range n.Content {
		size += scalarBytes(c)
	}
	return size
}
