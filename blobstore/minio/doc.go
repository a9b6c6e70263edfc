// Package minio provides a blobstore.WritableStore on the MinIO client, for
// MinIO and other S3-compatible services (Ceph, Garage, SeaweedFS).
//
// # Basic Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "detector-runs", "run-17/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	names, _ := store.List(ctx, "00/00/00/01/")
//
// An existing *minio.Client can be wrapped with NewStore.
package minio
