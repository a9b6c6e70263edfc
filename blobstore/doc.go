// Package blobstore provides storage abstraction for event files.
//
// BlobStore is the read interface used by the loader; WritableStore adds
// Put for generators and tests. Implementations must be safe for concurrent
// use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-process map, for tests and generated data
//   - s3.Store: Amazon S3 with range reads and parallel downloads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Reading
//
// ReadAll picks the cheapest way to fetch a whole blob: a FullReader (S3
// parallel download), a Mappable (mmap), or chunked ReadAt.
//
//	b, _ := store.Open(ctx, "00/00/00/01/events-000.jsonl.zst")
//	defer b.Close()
//	data, _ := blobstore.ReadAll(ctx, b)
package blobstore
