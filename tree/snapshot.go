// Package tree
//
// (C) Copyright Alex Gaetano Padula
//
// Licensed under the Mozilla Public License, v. 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package tree

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/wildcatdb/btindex/keyrange"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	exportVersion    = 1
	exportHeaderSize = 4 + 1 + 8 // magic, version, checksum
)

var exportMagic = []byte("BTIX")

// exportDoc is the encoded form of an index: its entries in key order plus the
// settings needed to rebuild it
type exportDoc[K any, V any] struct {
	Name   string `bson:"name"`
	Unique bool   `bson:"unique"`
	Fanout int    `bson:"fanout"`
	Rows   int    `bson:"rows"`
	Keys   []K    `bson:"keys"`
	Values [][]V  `bson:"values"`
}

// Export encodes the index entries as BSON behind a header carrying an xxhash64
// checksum of the body. K and V must be types BSON can encode.
func (t *BTree[K, V]) Export() ([]byte, error) {
	doc := exportDoc[K, V]{
		Name:   t.name,
		Unique: t.unique,
		Fanout: t.opts.Fanout,
		Rows:   t.rows,
		Keys:   make([]K, 0, t.keys),
		Values: make([][]V, 0, t.keys),
	}

	for it := t.NewIterator(keyrange.All[K](), true); it.Valid(); it.Next() {
		doc.Keys = append(doc.Keys, it.Key())
		doc.Values = append(doc.Values, it.Values())
	}

	body, err := bson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "encode index %s", t.name)
	}

	buf := bytes.NewBuffer(make([]byte, 0, exportHeaderSize+len(body)))
	buf.Write(exportMagic)
	buf.WriteByte(exportVersion)
	if err := binary.Write(buf, binary.LittleEndian, xxhash.Sum64(body)); err != nil {
		return nil, err
	}
	buf.Write(body)

	return buf.Bytes(), nil
}

// Import rebuilds an index from Export output using the natural key order.
// A non-zero opts.Fanout overrides the exported fanout.
func Import[K cmp.Ordered, V comparable](data []byte, opts *Options) (*BTree[K, V], error) {
	return ImportWithComparator[K, V](data, keyrange.Ordered[K](), opts)
}

// ImportWithComparator rebuilds an index from Export output ordered by c.
// The entries go through the bulk constructor, so the result is freshly packed.
func ImportWithComparator[K any, V comparable](data []byte, c keyrange.Comparator[K], opts *Options) (*BTree[K, V], error) {
	if len(data) < exportHeaderSize || !bytes.Equal(data[:4], exportMagic) {
		return nil, errors.Wrap(ErrCorruptSnapshot, "missing header")
	}

	if data[4] != exportVersion {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "unsupported version %d", data[4])
	}

	body := data[exportHeaderSize:]
	if sum := binary.LittleEndian.Uint64(data[5:exportHeaderSize]); sum != xxhash.Sum64(body) {
		return nil, errors.Wrap(ErrCorruptSnapshot, "checksum mismatch")
	}

	var doc exportDoc[K, V]
	if err := bson.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "decode: %v", err)
	}

	if len(doc.Keys) != len(doc.Values) {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "%d keys but %d value lists", len(doc.Keys), len(doc.Values))
	}

	o := Options{Fanout: doc.Fanout}
	if opts != nil {
		o.LogChannel = opts.LogChannel
		if opts.Fanout != 0 {
			o.Fanout = opts.Fanout
		}
	}

	pairs := make([]Pair[K, V], 0, len(doc.Keys))
	for i, key := range doc.Keys {
		for _, v := range doc.Values[i] {
			pairs = append(pairs, Pair[K, V]{Key: key, Value: v})
		}
	}

	t, err := NewFromSortedWithComparator[K, V](doc.Name, doc.Unique, c, pairs, &o)
	if err != nil {
		return nil, errors.Wrapf(err, "rebuild index %s", doc.Name)
	}

	if t.rows != doc.Rows {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "decoded %d rows, header says %d", t.rows, doc.Rows)
	}

	t.log(fmt.Sprintf("Imported index %s with %d keys", t.name, t.keys))
	return t, nil
}
