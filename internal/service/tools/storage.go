package tools

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
	storagev1 "google.golang.org/api/storage/v1"
)

// MaxDownloadBytes caps the size of an object returned inline by gcs.objects.download.
const MaxDownloadBytes int64 = 10 << 20

var storageScopes = []string{gcp.ScopeStorageReadOnly}

func bucketsListTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List GCS buckets in a project."),
		projectIDParam(),
	}
	opts = append(opts, listingAnnotations("List buckets")...)
	return mcp.NewTool("gcs.buckets.list", opts...)
}

func objectsListTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List objects in a GCS bucket."),
		mcp.WithString("bucket", mcp.Required(), mcp.Description("Name of the bucket")),
		mcp.WithString("prefix", mcp.Description("Only list objects whose names begin with this prefix")),
		mcp.WithNumber("maxResults", integer(), mcp.Min(1), mcp.Max(1000),
			mcp.Description("Maximum number of objects to return"),
		),
	}
	opts = append(opts, listingAnnotations("List objects")...)
	return mcp.NewTool("gcs.objects.list", opts...)
}

func objectDownloadTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(fmt.Sprintf(
			"Download a small text object from GCS (returns content inline, at most %d bytes).", MaxDownloadBytes,
		)),
		mcp.WithString("bucket", mcp.Required(), mcp.Description("Name of the bucket")),
		mcp.WithString("object", mcp.Required(), mcp.Description("Name of the object")),
		mcp.WithString("generation",
			mcp.Description("Generation of the object to read. Defaults to the live version"),
			mcp.Pattern(`^[0-9]+$`),
		),
	}
	opts = append(opts, listingAnnotations("Download object")...)
	return mcp.NewTool("gcs.objects.download", opts...)
}

func (s *Service) listBuckets(ctx context.Context, in types.BucketsListInput) (any, error) {
	id, project, err := s.session(ctx, storageScopes, in.ProjectID)
	if err != nil {
		return nil, err
	}
	svc, err := storagev1.NewService(ctx, id.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return svc.Buckets.List(project).Context(ctx).Do()
}

func (s *Service) listObjects(ctx context.Context, in types.ObjectsListInput) (any, error) {
	id, err := s.resolver.Identity(ctx, storageScopes)
	if err != nil {
		return nil, err
	}
	svc, err := storagev1.NewService(ctx, id.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	call := svc.Objects.List(in.Bucket)
	if in.Prefix != "" {
		call = call.Prefix(in.Prefix)
	}
	if in.MaxResults > 0 {
		call = call.MaxResults(in.MaxResults)
	}
	return call.Context(ctx).Do()
}

func (s *Service) downloadObject(ctx context.Context, in types.ObjectDownloadInput) (any, error) {
	ref := ObjectRef{Bucket: in.Bucket, Object: in.Object}
	if in.Generation != "" {
		g, err := strconv.ParseInt(in.Generation, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid generation '%s': %w", in.Generation, err)
		}
		ref.Generation = g
	}

	id, err := s.resolver.Identity(ctx, storageScopes)
	if err != nil {
		return nil, err
	}
	b, err := s.objects.ReadObject(ctx, id, ref)
	if err != nil {
		return nil, err
	}
	// byte slices are rendered as UTF-8 text
	return b, nil
}

// ObjectRef names one version of a storage object.
// A zero Generation refers to the live version.
type ObjectRef struct {
	Bucket     string
	Object     string
	Generation int64
}

func (r ObjectRef) String() string {
	s := "gs://" + r.Bucket + "/" + r.Object
	if r.Generation != 0 {
		s += "#" + strconv.FormatInt(r.Generation, 10)
	}
	return s
}

// ObjectReader reads the full content of a storage object with the credentials of one invocation.
type ObjectReader interface {
	ReadObject(ctx context.Context, id *gcp.Identity, ref ObjectRef) ([]byte, error)
}

// ObjectTooLargeError is returned when an object exceeds the inline download limit.
type ObjectTooLargeError struct {
	Ref   ObjectRef
	Limit int64
}

func (e *ObjectTooLargeError) Error() string {
	return fmt.Sprintf("object %s is larger than the %d byte inline download limit", e.Ref, e.Limit)
}

// StorageObjectReader reads objects through the Cloud Storage client library.
type StorageObjectReader struct {
	maxBytes int64
}

// NewStorageObjectReader creates a StorageObjectReader that refuses objects larger than maxBytes.
func NewStorageObjectReader(maxBytes int64) *StorageObjectReader {
	return &StorageObjectReader{maxBytes: maxBytes}
}

// ReadObject creates a client bound to id, reads the object and closes the client.
func (r *StorageObjectReader) ReadObject(ctx context.Context, id *gcp.Identity, ref ObjectRef) ([]byte, error) {
	client, err := storage.NewClient(ctx, id.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	obj := client.Bucket(ref.Bucket).Object(ref.Object)
	if ref.Generation != 0 {
		obj = obj.Generation(ref.Generation)
	}
	rd, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", ref, err)
	}
	defer rd.Close()

	if rd.Attrs.Size > r.maxBytes {
		return nil, &ObjectTooLargeError{Ref: ref, Limit: r.maxBytes}
	}
	return readLimited(rd, ref, r.maxBytes)
}

// readLimited reads at most limit bytes from rd, failing if there is more.
func readLimited(rd io.Reader, ref ObjectRef, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(rd, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
	}
	if int64(len(b)) > limit {
		return nil, &ObjectTooLargeError{Ref: ref, Limit: limit}
	}
	return b, nil
}
