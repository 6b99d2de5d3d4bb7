package testutil

import (
	"context"
	"sync"
	"time"
)

// FakeStorage implements storage.FileStorage without a network. Presigned
// URLs are deterministic and uploads are simulated with MarkUploaded.
type FakeStorage struct {
	mu      sync.Mutex
	objects map[string]bool
	Deleted []string
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{objects: make(map[string]bool)}
}

func (f *FakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *FakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *FakeStorage) ObjectExists(_ context.Context, objectKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[objectKey], nil
}

func (f *FakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectKey)
	f.Deleted = append(f.Deleted, objectKey)
	return nil
}

func (f *FakeStorage) MarkUploaded(objectKey string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectKey] = true
}
