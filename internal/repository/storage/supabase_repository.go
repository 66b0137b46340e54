package storage

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	storage "github.com/supabase-community/storage-go"
)

type SupabaseConfig struct {
	ProjectUrl string
	ServiceKey string
	Bucket     string
}

// SupabaseRepository is the object-storage collaborator. Upload returns the
// public URL of the stored object; Delete takes that URL back.
type SupabaseRepository struct {
	client *storage.Client
	bucket string
}

func NewSupabaseRepository(cfg SupabaseConfig) *SupabaseRepository {
	return &SupabaseRepository{
		client: storage.NewClient(cfg.ProjectUrl+"/storage/v1", cfg.ServiceKey, nil),
		bucket: cfg.Bucket,
	}
}

func (r *SupabaseRepository) Upload(file *multipart.FileHeader, folder string) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	contentType := file.Header.Get("Content-Type")
	ext := filepath.Ext(file.Filename)

	objectPath := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	if folder != "" {
		objectPath = fmt.Sprintf("%s/%s", folder, objectPath)
	}

	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := r.client.UploadFile(r.bucket, objectPath, f, options); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", file.Filename, err)
	}

	publicURL := r.client.GetPublicUrl(r.bucket, objectPath)
	return publicURL.SignedURL, nil
}

func (r *SupabaseRepository) Delete(url string) error {
	objectPath, err := r.objectPath(url)
	if err != nil {
		return err
	}

	if _, err := r.client.RemoveFile(r.bucket, []string{objectPath}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", objectPath, err)
	}

	return nil
}

// objectPath recovers the bucket-relative path from a public URL.
func (r *SupabaseRepository) objectPath(url string) (string, error) {
	marker := "/object/public/" + r.bucket + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", errors.New("url does not belong to this bucket: " + url)
	}

	return url[idx+len(marker):], nil
}
