// Package bridge lets a host runtime read and write Parquet files through
// opaque 64-bit handles, exchanging column data as native primitive arrays.
//
// A host opens a reader, lists its columns, opens column streams and pulls
// one host array per engine batch until the stream returns nil:
//
//	b := bridge.New(cfg, logger)
//	r, err := b.OpenReader("scores.parquet")
//	...
//	c, err := b.OpenColumn(r, "id")
//	for {
//		ids, err := b.ColumnNext(c) // []int32, nil at the end
//		...
//	}
//	b.CloseColumn(c)
//	b.CloseReader(r)
//
// Writers take an ordered schema of host type tokens and one row per call:
//
//	w, err := b.OpenWriter("scores.parquet", []bridge.FieldSpec{
//		{Name: "id", Token: bridge.TokenInteger},
//		{Name: "score", Token: bridge.TokenDouble},
//	})
//	err = b.WriteRow(w, map[string]any{"id": 1, "score": 3.5})
//	err = b.CloseWriter(w)
//
// Host arrays are []bool, []int8, []int16, []int32, []int64, []float32 and
// []float64. Unsigned columns are read as the signed slice of the same
// width, bit for bit.
//
// Handles are generation tagged: a handle used after its close, closed
// twice, never issued, or passed to the wrong kind of call fails with an
// invalid-argument exception. Closing handle 0 is always a no-op.
package bridge
