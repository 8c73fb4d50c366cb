package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

type object struct {
	contentType string
	data        []byte
}

// ObjectStorage keeps uploaded objects in memory. Public URLs are
// baseURL + "/" + path.
type ObjectStorage struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]object
}

var _ domain.ObjectStorage = (*ObjectStorage)(nil)

func NewObjectStorage(baseURL string) *ObjectStorage {
	return &ObjectStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]object),
	}
}

func (o *ObjectStorage) Put(_ context.Context, path, contentType string, data []byte) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.objects[path]; exists {
		return "", fmt.Errorf("object %s already exists", path)
	}
	o.objects[path] = object{contentType: contentType, data: append([]byte(nil), data...)}
	return o.baseURL + "/" + path, nil
}

func (o *ObjectStorage) Remove(_ context.Context, path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.objects, path)
	return nil
}

// Get returns a stored object for serving.
func (o *ObjectStorage) Get(path string) (data []byte, contentType string, err error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	obj, ok := o.objects[path]
	if !ok {
		return nil, "", fmt.Errorf("object %s: %w", path, domain.ErrNotFound)
	}
	return obj.data, obj.contentType, nil
}

func (o *ObjectStorage) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.objects)
}
