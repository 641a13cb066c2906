package storage

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"resumeqa/internal/config"
	"resumeqa/internal/document"
	"resumeqa/internal/errors"
	"resumeqa/internal/types"
)

func writeResume(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	writeResume(t, filepath.Join(root, "nlp"), "b.pdf", "%PDF")
	writeResume(t, filepath.Join(root, "nlp"), "a.txt", "Jane Doe")
	if err := os.Mkdir(filepath.Join(root, "nlp", "nested"), 0750); err != nil {
		t.Fatal(err)
	}

	store := NewLocalStore(root, errors.NewNopLogger())
	refs, err := store.List(context.Background(), "nlp")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(refs) != 2 || refs[0].Name != "a.txt" || refs[1].Name != "b.pdf" {
		t.Fatalf("List() = %+v", refs)
	}
	if refs[0].Size != 8 || refs[0].Container != "nlp" {
		t.Errorf("ref = %+v", refs[0])
	}

	data, err := store.Get(context.Background(), "nlp", "a.txt")
	if err != nil || string(data) != "Jane Doe" {
		t.Errorf("Get() = %q, %v", data, err)
	}

	tests := []struct {
		name     string
		resume   string
		wantType errors.ErrorType
	}{
		{"missing", "nope.pdf", errors.ErrorTypeNotFound},
		{"traversal", "../secret", errors.ErrorTypeValidation},
		{"empty", "", errors.ErrorTypeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "nlp", tt.resume)
			if !errors.IsType(err, tt.wantType) {
				t.Errorf("Get(%q) error = %v, want %s", tt.resume, err, tt.wantType)
			}
		})
	}

	if _, err := store.List(context.Background(), "absent"); !errors.IsType(err, errors.ErrorTypeNotFound) {
		t.Errorf("List(absent) error = %v", err)
	}
	if _, err := store.List(context.Background(), ".."); !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Errorf("List(..) error = %v", err)
	}
}

// memStore is an in-memory BlobStore.
type memStore struct {
	objects map[string][]byte
	listErr error
}

func (m *memStore) Backend() string { return "mem" }

func (m *memStore) List(_ context.Context, container string) ([]types.ResumeRef, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var refs []types.ResumeRef
	for _, name := range []string{"cv.pdf", "notes.txt", "OTHER.PDF", "cv.docx"} {
		if _, ok := m.objects[name]; ok {
			refs = append(refs, types.ResumeRef{Name: name, Container: container})
		}
	}
	return refs, nil
}

func (m *memStore) Get(_ context.Context, container, name string) ([]byte, error) {
	data, ok := m.objects[name]
	if !ok {
		return nil, notFound(container, name, nil)
	}
	return data, nil
}

func TestCatalogListPDFNames(t *testing.T) {
	store := &memStore{objects: map[string][]byte{
		"cv.pdf": nil, "notes.txt": nil, "OTHER.PDF": nil, "cv.docx": nil,
	}}
	c := NewCatalog(store, document.NewExtractor(0), 0, errors.NewNopLogger())

	got := c.ListPDFNames(context.Background(), "nlp")
	if want := []string{"cv.pdf", "OTHER.PDF"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListPDFNames() = %v, want %v", got, want)
	}
}

func TestCatalogListErrorIsEmpty(t *testing.T) {
	store := &memStore{listErr: stderrors.New("unreachable")}
	c := NewCatalog(store, document.NewExtractor(0), 0, errors.NewNopLogger())

	if got := c.ListPDFNames(context.Background(), "nlp"); len(got) != 0 {
		t.Errorf("ListPDFNames() = %v, want empty", got)
	}
}

func TestCatalogFetchDocumentText(t *testing.T) {
	store := &memStore{objects: map[string][]byte{
		"notes.txt": []byte("Jane Doe\njane@example.com"),
		"cv.pdf":    []byte("not really a pdf"),
	}}
	c := NewCatalog(store, document.NewExtractor(1024), 0, errors.NewNopLogger())

	tests := []struct {
		name string
		want string
	}{
		{"notes.txt", "Jane Doe\njane@example.com"},
		{"missing.pdf", ""},
		{"cv.pdf", ""},
	}
	for _, tt := range tests {
		if got := c.FetchDocumentText(context.Background(), tt.name, "nlp"); got != tt.want {
			t.Errorf("FetchDocumentText(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	if _, err := c.FetchText(context.Background(), "missing.pdf", "nlp"); !errors.IsType(err, errors.ErrorTypeNotFound) {
		t.Errorf("FetchText(missing) error = %v", err)
	}
}

type fetchLog struct {
	sizes []int
	fails int
}

func (f *fetchLog) RecordStorageFetch(_ context.Context, backend string, size int, err error) {
	if err != nil {
		f.fails++
		return
	}
	f.sizes = append(f.sizes, size)
}

func TestCatalogObserveFetches(t *testing.T) {
	store := &memStore{objects: map[string][]byte{"a.txt": []byte("abc")}}
	c := NewCatalog(store, document.NewExtractor(1024), 0, errors.NewNopLogger())
	log := &fetchLog{}
	c.Observe(log)

	c.FetchDocumentText(context.Background(), "a.txt", "nlp")
	c.FetchDocumentText(context.Background(), "gone.pdf", "nlp")

	if !reflect.DeepEqual(log.sizes, []int{3}) || log.fails != 1 {
		t.Errorf("observed sizes=%v fails=%d, want [3] and 1", log.sizes, log.fails)
	}
}

func TestNewBackendSelection(t *testing.T) {
	logger := errors.NewNopLogger()

	store, err := New(context.Background(), config.StorageConfig{Backend: "local", Local: config.LocalStorageConfig{Root: t.TempDir()}}, logger)
	if err != nil || store.Backend() != "local" {
		t.Fatalf("New(local) = %v, %v", store, err)
	}

	store, err = New(context.Background(), config.StorageConfig{
		Backend:   "minio",
		Container: "nlp",
		MinIO:     config.MinIOStorageConfig{Endpoint: "localhost:9000", AccessKeyID: "k", SecretAccessKey: "s"},
	}, logger)
	if err != nil || store.Backend() != "minio" {
		t.Fatalf("New(minio) = %v, %v", store, err)
	}

	if _, err := New(context.Background(), config.StorageConfig{Backend: "ftp"}, logger); !errors.IsType(err, errors.ErrorTypeConfig) {
		t.Errorf("New(ftp) error = %v", err)
	}
}
