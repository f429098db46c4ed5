// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/herbalist/core"
)

// plantFormatV1 prefixes every encoded PlantRecord.
const plantFormatV1 byte = 1

// PlantMUS is the MUS serializer for PlantRecord values.
var PlantMUS = plantSer{}

type plantSer struct{}

// Size returns the encoded size of p.
func (plantSer) Size(p core.PlantRecord) int {
	size := 1
	size += ord.String.Size(string(p.ID))
	size += ord.String.Size(p.Name)
	size += ord.String.Size(p.ScientificName)
	size += ord.String.Size(p.Description)
	size += sizeStrings(p.Benefits)
	size += sizeStrings(p.Components)
	size += sizeStrings(p.UsageMethods)
	size += sizeStrings(p.Precautions)
	size += varint.Int64.Size(unixMicro(p.InsertedAt))
	size += varint.Int64.Size(unixMicro(p.UpdatedAt))
	return size
}

// Marshal writes p into bs, which must hold at least Size(p) bytes.
func (plantSer) Marshal(p core.PlantRecord, bs []byte) (n int) {
	bs[0] = plantFormatV1
	n = 1
	n += ord.String.Marshal(string(p.ID), bs[n:])
	n += ord.String.Marshal(p.Name, bs[n:])
	n += ord.String.Marshal(p.ScientificName, bs[n:])
	n += ord.String.Marshal(p.Description, bs[n:])
	n += marshalStrings(p.Benefits, bs[n:])
	n += marshalStrings(p.Components, bs[n:])
	n += marshalStrings(p.UsageMethods, bs[n:])
	n += marshalStrings(p.Precautions, bs[n:])
	n += varint.Int64.Marshal(unixMicro(p.InsertedAt), bs[n:])
	n += varint.Int64.Marshal(unixMicro(p.UpdatedAt), bs[n:])
	return n
}

// Unmarshal reads a PlantRecord from bs.
func (plantSer) Unmarshal(bs []byte) (p core.PlantRecord, n int, err error) {
	if len(bs) == 0 {
		return p, 0, ErrTruncatedData
	}
	if bs[0] != plantFormatV1 {
		return p, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, bs[0])
	}
	n = 1

	var (
		m  int
		id string
	)
	if id, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n, err
	}
	p.ID = core.ID(id)
	n += m
	for _, field := range []*string{&p.Name, &p.ScientificName, &p.Description} {
		if *field, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return p, n, err
		}
		n += m
	}
	for _, field := range []*[]string{&p.Benefits, &p.Components, &p.UsageMethods, &p.Precautions} {
		if *field, m, err = unmarshalStrings(bs[n:]); err != nil {
			return p, n, err
		}
		n += m
	}
	for _, field := range []*time.Time{&p.InsertedAt, &p.UpdatedAt} {
		var micros int64
		if micros, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
			return p, n, err
		}
		*field = fromUnixMicro(micros)
		n += m
	}
	return p, n, nil
}

// Skip returns the encoded length of the record at the start of bs.
func (s plantSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

func sizeStrings(list []string) int {
	size := varint.Int.Size(len(list))
	for _, s := range list {
		size += ord.String.Size(s)
	}
	return size
}

func marshalStrings(list []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(list), bs)
	for _, s := range list {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) (list []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	// every element takes at least one byte
	if length < 0 || length > len(bs)-n {
		return nil, n, ErrTruncatedData
	}
	if length == 0 {
		return nil, n, nil
	}
	list = make([]string, length)
	for i := range list {
		var m int
		if list[i], m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += m
	}
	return list, n, nil
}

// unixMicro keeps the zero time distinct from the epoch.
func unixMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func fromUnixMicro(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}

// MarshalPlant serializes a PlantRecord to bytes.
func MarshalPlant(plant *core.PlantRecord) []byte {
	buf := make([]byte, PlantMUS.Size(*plant))
	PlantMUS.Marshal(*plant, buf)
	return buf
}

// UnmarshalPlant deserializes a PlantRecord from bytes.
func UnmarshalPlant(data []byte) (*core.PlantRecord, error) {
	plant, _, err := PlantMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &plant, nil
}
