package storage

import (
	"context"
	"io"

	"resumeqa/internal/config"
	"resumeqa/internal/errors"
	"resumeqa/internal/types"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureStore reads resumes from an Azure Blob Storage account.
type AzureStore struct {
	client *azblob.Client
	logger *errors.Logger
}

// NewAzureStore authenticates with a service principal client secret.
func NewAzureStore(cfg config.AzureStorageConfig, logger *errors.Logger) (*AzureStore, error) {
	cred, err := azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid Azure client secret credential", err)
	}
	client, err := azblob.NewClient(cfg.AccountURL, cred, nil)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to create Azure blob client", err)
	}

	logger.Debug("Azure blob client created", "account_url", cfg.AccountURL)
	return &AzureStore{client: client, logger: logger}, nil
}

func (a *AzureStore) Backend() string { return "azure" }

func (a *AzureStore) List(ctx context.Context, container string) ([]types.ResumeRef, error) {
	var refs []types.ResumeRef
	pager := a.client.NewListBlobsFlatPager(container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, storageFailed("list", container, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			ref := types.ResumeRef{Name: *item.Name, Container: container}
			if p := item.Properties; p != nil {
				if p.ContentLength != nil {
					ref.Size = *p.ContentLength
				}
				if p.LastModified != nil {
					ref.LastModified = *p.LastModified
				}
			}
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (a *AzureStore) Get(ctx context.Context, container, name string) ([]byte, error) {
	resp, err := a.client.DownloadStream(ctx, container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, notFound(container, name, err)
		}
		return nil, storageFailed("download", container, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, storageFailed("download", container, err)
	}
	return data, nil
}
