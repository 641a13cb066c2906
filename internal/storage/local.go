package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"resumeqa/internal/errors"
	"resumeqa/internal/types"
)

// LocalStore serves resumes from a directory tree: root/<container>/<name>.
type LocalStore struct {
	root   string
	logger *errors.Logger
}

// NewLocalStore returns a store rooted at root.
func NewLocalStore(root string, logger *errors.Logger) *LocalStore {
	return &LocalStore{root: root, logger: logger}
}

func (l *LocalStore) Backend() string { return "local" }

// Dir returns the directory backing container.
func (l *LocalStore) Dir(container string) string {
	return filepath.Join(l.root, container)
}

// validSegment reports whether s names a single entry inside its parent.
func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func (l *LocalStore) List(ctx context.Context, container string) ([]types.ResumeRef, error) {
	if !validSegment(container) {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid container %q", container), nil)
	}
	entries, err := os.ReadDir(l.Dir(container))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("container %s does not exist", container), err)
		}
		return nil, storageFailed("list", container, err)
	}

	refs := make([]types.ResumeRef, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			l.logger.Debug("Skipping unreadable entry", "name", entry.Name(), "error", err.Error())
			continue
		}
		refs = append(refs, types.ResumeRef{
			Name:         entry.Name(),
			Container:    container,
			Size:         info.Size(),
			LastModified: info.ModTime().UTC(),
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, ctx.Err()
}

func (l *LocalStore) Get(ctx context.Context, container, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validSegment(container) {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid container %q", container), nil)
	}
	if !validSegment(name) {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid resume name %q", name), nil)
	}

	data, err := os.ReadFile(filepath.Join(l.Dir(container), name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(container, name, err)
		}
		return nil, storageFailed("read", container, err)
	}
	return data, nil
}
