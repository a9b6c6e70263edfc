// Package mmap maps event files read-only into memory so they can be
// decoded without an intermediate copy.
//
//	f, err := mmap.Open("events-000.jsonl.zst")
//	if err != nil { ... }
//	defer f.Close()
//
//	_ = f.Advise(mmap.AccessSequential)
//	data := f.Bytes()
//
// Unix uses mmap(2) and madvise(2); Windows uses MapViewOfFile and ignores
// access hints.
package mmap
