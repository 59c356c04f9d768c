package octree

import (
	"bytes"
	"encoding/json"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/tinylib/msgp/msgp"

	"go.viam.com/octree/logging"
)

const (
	marshalVersion = 1
	flagSnappy     = 1 << 0
)

var marshalMagic = []byte("OCTR")

// Marshaler will convert an octree into a serialized array of bytes.
type Marshaler interface {
	MarshalOctree() ([]byte, error)
}

// Codec converts node payloads to and from bytes.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSONCodec encodes payloads with encoding/json.
type JSONCodec[T any] struct{}

// Encode implements Codec.
func (JSONCodec[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements Codec.
func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// MarshalOptions tunes Marshal.
type MarshalOptions struct {
	// Compress snappy-compresses everything after the header.
	Compress bool
}

// Marshal serializes the tree by walking it in pre-order: a header with the tree's shape, then
// one record per node holding whether it has children and its encoded payload.
func Marshal[T any](t *Tree[T], codec Codec[T], opts MarshalOptions) ([]byte, error) {
	body := msgp.AppendInt(nil, marshalVersion)
	body = msgp.AppendInt(body, t.Dimension())
	body = msgp.AppendInt(body, t.MaxDepth())
	body = msgp.AppendInt(body, t.NumNodes())

	var err error
	t.Walk(PreOrder, func(c *Cursor[T]) bool {
		var payload []byte
		payload, err = codec.Encode(c.Node().Value())
		if err != nil {
			err = errors.Wrapf(err, "cannot encode node at %v", c.Indices())
			return false
		}
		body = msgp.AppendBool(body, !c.Node().IsLeaf())
		body = msgp.AppendBytes(body, payload)
		return true
	})
	if err != nil {
		return nil, err
	}

	var flags byte
	if opts.Compress {
		flags |= flagSnappy
		body = snappy.Encode(nil, body)
	}
	out := make([]byte, 0, len(marshalMagic)+1+len(body))
	out = append(out, marshalMagic...)
	out = append(out, flags)
	return append(out, body...), nil
}

// Unmarshal rebuilds a tree written by Marshal.
func Unmarshal[T any](data []byte, codec Codec[T], logger logging.Logger) (*Tree[T], error) {
	if len(data) < len(marshalMagic)+1 || !bytes.Equal(data[:len(marshalMagic)], marshalMagic) {
		return nil, errors.New("data is not a marshaled octree")
	}
	flags := data[len(marshalMagic)]
	body := data[len(marshalMagic)+1:]
	if flags&flagSnappy != 0 {
		var err error
		if body, err = snappy.Decode(nil, body); err != nil {
			return nil, errors.Wrap(err, "cannot decompress octree")
		}
	}

	header := make([]int, 4)
	for i := range header {
		var err error
		if header[i], body, err = msgp.ReadIntBytes(body); err != nil {
			return nil, errors.Wrap(err, "cannot read octree header")
		}
	}
	version, dim, maxDepth, count := header[0], header[1], header[2], header[3]
	if version != marshalVersion {
		return nil, errors.Errorf("unsupported octree version %d", version)
	}
	if count < 1 {
		return nil, errors.Errorf("invalid node count %d", count)
	}

	var zero T
	t, err := New(&Config{Dimension: dim, MaxDepth: maxDepth, InitialCapacity: min(count, len(body))}, zero, logger)
	if err != nil {
		return nil, err
	}

	c := t.Cursor()
	for read := 0; ; read++ {
		if read == count {
			return nil, errors.Errorf("octree holds more than the %d nodes its header declares", count)
		}
		var internal bool
		var payload []byte
		if internal, body, err = msgp.ReadBoolBytes(body); err != nil {
			return nil, errors.Wrapf(err, "cannot read node %d", read)
		}
		if payload, body, err = msgp.ReadBytesBytes(body, nil); err != nil {
			return nil, errors.Wrapf(err, "cannot read node %d", read)
		}
		value, decodeErr := codec.Decode(payload)
		if decodeErr != nil {
			return nil, errors.Wrapf(decodeErr, "cannot decode node %d", read)
		}
		if err := c.Node().SetValue(value); err != nil {
			return nil, err
		}

		if internal {
			if err := c.Node().AddChildren(); err != nil {
				return nil, errors.Wrapf(err, "cannot rebuild node %d", read)
			}
			if err := c.Down(0); err != nil {
				return nil, err
			}
			continue
		}
		if !nextSibling(c) {
			if read+1 != count {
				return nil, errors.Errorf("octree ended after %d of %d nodes", read+1, count)
			}
			break
		}
	}
	if len(body) != 0 {
		return nil, errors.Errorf("%d trailing bytes after octree", len(body))
	}
	return t, nil
}
