// Package stream provides producers: lazy, chunked views over long
// N-dimensional sample sequences.
//
// A [Producer] exposes a logical sequence along one sample axis only through
// chunks of at most ChunkSize samples. Concatenating the chunks of a traversal
// along the axis always reproduces the same logical data, whatever the chunk
// size. Algorithms in this module consume producers chunk by chunk and return
// new producers, so a recording far larger than memory can be filtered,
// resampled and analyzed with bounded working storage.
//
// # Sources
//
//   - [FromArray] wraps an in-memory array. Restartable.
//   - [FromFunc] wraps a factory returning a fresh chunk sequence per
//     traversal. Restartable.
//   - [FromGenerator] wraps a single chunk sequence. One-shot: a second
//     traversal yields [ErrExhausted].
//   - [FromReader] wraps a random-access [Reader] opened at the start of each
//     traversal and closed on every exit path, including an early break.
//
// # Views
//
// [Rechunk], [Reverse], [Pad] and [Slice] derive new producers without
// mutating their source. [Collect] materializes a producer into one array.
//
// Traversal uses Go range-over-func iterators:
//
//	for chunk, err := range p.Chunks() {
//		if err != nil {
//			return err
//		}
//		process(chunk)
//	}
package stream
