// Package s3 provides an Amazon S3 implementation of blobstore.WritableStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "detector-runs", "2024/run-17/",
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	names, _ := store.List(ctx, "00/00/00/01/")
//
// # Features
//
//   - Range reads for partial fetches
//   - Parallel ranged downloads for whole event files (feature/s3/manager)
//   - Multipart uploads for large generated files
//   - Automatic pagination for listing
//   - Configurable prefix so several runs can share a bucket
package s3
