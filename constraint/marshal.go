package constraint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"reflect"

	"github.com/consensys/plonkish/field"
	"github.com/consensys/plonkish/internal/ioutils"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"
)

// ToBytes serializes the system shape to a byte slice: a fixed-size header
// with section lengths, a binary section holding the query tables, and a
// deterministic CBOR body for everything else. The encoding is independent
// of the machine; two systems built by the same Configure serialize to the
// same bytes.
func (cs *System[E]) ToBytes() ([]byte, error) {
	var queries []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		queries, err = cs.queriesToBytes()
		return err
	})
	body, err := cs.bodyToBytes()
	if err != nil {
		return nil, err
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := header{
		queriesLen: uint64(len(queries)),
		bodyLen:    uint64(len(body)),
	}
	buf := h.toBytes()
	buf = append(buf, queries...)
	buf = append(buf, body...)
	return buf, nil
}

// FromBytes deserializes a system shape produced by ToBytes. It returns the
// number of bytes read and fails if the serialized scalar field does not
// match E. The deserialized system is frozen.
func (cs *System[E]) FromBytes(data []byte) (int, error) {
	if len(data) < headerLen {
		return 0, errors.New("invalid data length")
	}

	h := new(header)
	h.fromBytes(data)

	if uint64(len(data)) < headerLen+h.queriesLen+h.bodyLen {
		return 0, errors.New("invalid data length")
	}

	var g errgroup.Group
	g.Go(func() error {
		return cs.queriesFromBytes(data[headerLen : headerLen+h.queriesLen])
	})

	ts := getTagSet[E]()
	dm, err := cbor.DecOptions{
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DecModeWithTags(ts)
	if err != nil {
		return 0, err
	}
	decoder := dm.NewDecoder(bytes.NewReader(data[headerLen+h.queriesLen : headerLen+h.queriesLen+h.bodyLen]))
	if err := decoder.Decode(&cs); err != nil {
		return 0, err
	}

	if err := cs.CheckSerializationHeader(); err != nil {
		return 0, err
	}

	// CBOR decodes tagged values into interface fields as pointers to the
	// registered types; normalize the trees back to value variants.
	for i := range cs.Gates {
		for j := range cs.Gates[i].Polys {
			cs.Gates[i].Polys[j] = normalizeExpression[E](cs.Gates[i].Polys[j])
		}
	}
	for i := range cs.Lookups {
		for j := range cs.Lookups[i].Inputs {
			cs.Lookups[i].Inputs[j] = normalizeExpression[E](cs.Lookups[i].Inputs[j])
		}
		for j := range cs.Lookups[i].Tables {
			cs.Lookups[i].Tables[j] = normalizeExpression[E](cs.Lookups[i].Tables[j])
		}
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	cs.AdviceQueryCounts = make([]int, cs.NumAdviceColumns)
	for _, q := range cs.AdviceQueries {
		cs.AdviceQueryCounts[q.Column.Index]++
	}
	cs.frozen = true

	return headerLen + int(h.queriesLen) + int(h.bodyLen), nil
}

// WriteTo implements io.WriterTo.
func (cs *System[E]) WriteTo(w io.Writer) (int64, error) {
	data, err := cs.ToBytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom implements io.ReaderFrom.
func (cs *System[E]) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	n, err := cs.FromBytes(data)
	return int64(n), err
}

func (cs *System[E]) bodyToBytes() ([]byte, error) {
	ts := getTagSet[E]()
	enc, err := cbor.CoreDetEncOptions().EncModeWithTags(ts)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	encoder := enc.NewEncoder(buf)

	if err := encoder.Encode(cs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const headerLen = 2 * 8

type header struct {
	// length in bytes of each section
	queriesLen uint64
	bodyLen    uint64
}

func (h *header) toBytes() []byte {
	buf := make([]byte, 0, headerLen+h.queriesLen+h.bodyLen)

	buf = binary.LittleEndian.AppendUint64(buf, h.queriesLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.bodyLen)

	return buf
}

func (h *header) fromBytes(buf []byte) {
	h.queriesLen = binary.LittleEndian.Uint64(buf[:8])
	h.bodyLen = binary.LittleEndian.Uint64(buf[8:16])
}

// queriesToBytes packs the three query tables as column-index and rotation
// streams; they compress very well since queries are allocated sequentially
// and rotations are almost always in {-1, 0, 1}.
func (cs *System[E]) queriesToBytes() ([]byte, error) {
	var buf bytes.Buffer
	var scratch []uint32
	var err error
	buf.Grow(8 * (len(cs.FixedQueries) + len(cs.AdviceQueries) + len(cs.InstanceQueries)))

	for _, queries := range [3][]Query{cs.FixedQueries, cs.AdviceQueries, cs.InstanceQueries} {
		cols := make([]uint32, len(queries))
		rots := make([]uint32, len(queries))
		for i, q := range queries {
			cols[i] = uint32(q.Column.Index)
			rots[i] = uint32(int32(q.Rotation))
		}
		if scratch, err = ioutils.CompressAndWriteUints32(&buf, cols, scratch); err != nil {
			return nil, err
		}
		if scratch, err = ioutils.CompressAndWriteUints32(&buf, rots, scratch); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (cs *System[E]) queriesFromBytes(in []byte) error {
	targets := [3]*[]Query{&cs.FixedQueries, &cs.AdviceQueries, &cs.InstanceQueries}
	types := [3]ColumnType{Fixed, Advice, Instance}

	var scratch []uint32
	for k, target := range targets {
		var cols, rots []uint32
		var n int
		var err error
		if scratch, n, cols, err = ioutils.ReadAndDecompressUints32(in, scratch); err != nil {
			return err
		}
		in = in[n:]
		if scratch, n, rots, err = ioutils.ReadAndDecompressUints32(in, scratch); err != nil {
			return err
		}
		in = in[n:]
		if len(cols) != len(rots) {
			return errors.New("corrupted query section")
		}
		queries := make([]Query, len(cols))
		for i := range cols {
			queries[i] = Query{
				Column:   Column{Index: int(cols[i]), Type: types[k]},
				Rotation: Rotation(int32(rots[i])),
			}
		}
		*target = queries
	}
	return nil
}

// normalizeExpression rebuilds an expression tree decoded from CBOR so every
// node is a value variant again, whichever form the decoder produced.
func normalizeExpression[E field.Element[E]](e Expression[E]) Expression[E] {
	switch x := e.(type) {
	case *Constant[E]:
		return *x
	case *SelectorQuery[E]:
		return *x
	case *FixedQuery[E]:
		return *x
	case *AdviceQuery[E]:
		return *x
	case *InstanceQuery[E]:
		return *x
	case *Negated[E]:
		return Negated[E]{Expr: normalizeExpression[E](x.Expr)}
	case *Sum[E]:
		return Sum[E]{Left: normalizeExpression[E](x.Left), Right: normalizeExpression[E](x.Right)}
	case *Product[E]:
		return Product[E]{Left: normalizeExpression[E](x.Left), Right: normalizeExpression[E](x.Right)}
	case *Scaled[E]:
		return Scaled[E]{Expr: normalizeExpression[E](x.Expr), Coeff: x.Coeff}
	case Negated[E]:
		return Negated[E]{Expr: normalizeExpression[E](x.Expr)}
	case Sum[E]:
		return Sum[E]{Left: normalizeExpression[E](x.Left), Right: normalizeExpression[E](x.Right)}
	case Product[E]:
		return Product[E]{Left: normalizeExpression[E](x.Left), Right: normalizeExpression[E](x.Right)}
	case Scaled[E]:
		return Scaled[E]{Expr: normalizeExpression[E](x.Expr), Coeff: x.Coeff}
	default:
		return e
	}
}

func getTagSet[E field.Element[E]]() cbor.TagSet {
	ts := cbor.NewTagSet()
	// https://www.iana.org/assignments/cbor-tags/cbor-tags.xhtml
	// 65536-15309735 Unassigned
	tagNum := uint64(5309735)
	addType := func(t reflect.Type) {
		if err := ts.Add(
			cbor.TagOptions{EncTag: cbor.EncTagRequired, DecTag: cbor.DecTagRequired},
			t,
			tagNum,
		); err != nil {
			panic(err)
		}
		tagNum++
	}

	addType(reflect.TypeOf(Constant[E]{}))
	addType(reflect.TypeOf(SelectorQuery[E]{}))
	addType(reflect.TypeOf(FixedQuery[E]{}))
	addType(reflect.TypeOf(AdviceQuery[E]{}))
	addType(reflect.TypeOf(InstanceQuery[E]{}))
	addType(reflect.TypeOf(Negated[E]{}))
	addType(reflect.TypeOf(Sum[E]{}))
	addType(reflect.TypeOf(Product[E]{}))
	addType(reflect.TypeOf(Scaled[E]{}))

	return ts
}
