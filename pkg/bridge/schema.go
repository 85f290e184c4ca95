// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

package bridge

import (
	"github.com/apache/arrow/go/v17/arrow"
)

// FieldSpec declares one writer column: its name and the host type token of
// the values it will hold.
type FieldSpec struct {
	Name  string
	Token TypeToken
}

// Schema is an ordered list of uniquely named fields fixed at writer open.
type Schema struct {
	arrow *arrow.Schema
	kinds []Kind
	index map[string]int
}

// BuildSchema derives the storage schema for specs, in order. Tokens outside
// the mapping table produce Null fields; they are listed in Degraded so the
// caller can surface them.
func BuildSchema(specs []FieldSpec) (*Schema, error) {
	const op = "build_schema"
	fields := make([]arrow.Field, 0, len(specs))
	kinds := make([]Kind, 0, len(specs))
	index := make(map[string]int, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, newError(KindShape, op, "field %d has an empty name", i)
		}
		if _, dup := index[spec.Name]; dup {
			return nil, newError(KindShape, op, "field %q is declared twice", spec.Name)
		}
		kind, _ := KindOfToken(spec.Token)
		index[spec.Name] = i
		kinds = append(kinds, kind)
		fields = append(fields, arrow.Field{
			Name: spec.Name,
			Type: kind.DataType(),
			// a null column has no values, so it cannot be required
			Nullable: kind == Null,
		})
	}
	return &Schema{
		arrow: arrow.NewSchema(fields, nil),
		kinds: kinds,
		index: index,
	}, nil
}

func (s *Schema) Arrow() *arrow.Schema { return s.arrow }

func (s *Schema) Len() int { return len(s.kinds) }

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.kinds))
	for i, f := range s.arrow.Fields() {
		names[i] = f.Name
	}
	return names
}

// Kind returns the storage kind of field i.
func (s *Schema) Kind(i int) Kind { return s.kinds[i] }

// Lookup resolves a field name to its index.
func (s *Schema) Lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Degraded lists the fields whose host type token was not recognised.
func (s *Schema) Degraded() []string {
	var out []string
	for i, k := range s.kinds {
		if k == Null {
			out = append(out, s.arrow.Field(i).Name)
		}
	}
	return out
}
