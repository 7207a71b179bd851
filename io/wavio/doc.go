// Package wavio reads and writes PCM WAV files as chunked sample streams.
//
// A [Reader] gives random access to the samples of a file as a
// (channels, samples) array normalized to [-1, 1). [NewProducer] wraps a
// file path into a restartable producer that opens the file at the start of
// every traversal and closes it when the traversal ends. [Write] drains a
// producer into a new file.
package wavio
