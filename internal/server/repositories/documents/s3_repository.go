package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

// S3API is the part of *s3.Client the repository uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Settings describes an S3-compatible endpoint (AWS or MinIO).
type S3Settings struct {
	AccessKey    string
	SecretKey    string
	Region       string
	BaseEndpoint string
}

// NewS3Client builds a path-style client with static credentials.
func NewS3Client(ctx context.Context, s S3Settings) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// S3Repository stores one JSON object per document at
// owners/<owner>/<remoteID>.json.
type S3Repository struct {
	client S3API
	bucket string
}

func NewS3Repository(client S3API, bucket string) *S3Repository {
	return &S3Repository{client: client, bucket: bucket}
}

func ownerPrefix(owner string) string {
	return "owners/" + owner + "/"
}

func objectKey(owner, remoteID string) string {
	return ownerPrefix(owner) + remoteID + ".json"
}

func (r *S3Repository) put(ctx context.Context, doc *models.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(objectKey(doc.Owner, doc.RemoteID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put: %w", err)
	}
	return nil
}

func (r *S3Repository) Create(ctx context.Context, doc *models.Document) error {
	return r.put(ctx, doc)
}

func (r *S3Repository) Get(ctx context.Context, owner, remoteID string) (*models.Document, error) {
	return r.getKey(ctx, objectKey(owner, remoteID))
}

func (r *S3Repository) getKey(ctx context.Context, key string) (*models.Document, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("s3 get: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read: %w", err)
	}

	doc := &models.Document{}
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return doc, nil
}

func (r *S3Repository) Update(ctx context.Context, doc *models.Document) error {
	existing, err := r.Get(ctx, doc.Owner, doc.RemoteID)
	if err != nil {
		return err
	}

	existing.ItemType = doc.ItemType
	existing.ServiceName = doc.ServiceName
	existing.EncryptedData = doc.EncryptedData
	existing.IV = doc.IV
	existing.Category = doc.Category
	existing.Favorite = doc.Favorite
	existing.UpdatedAt = doc.UpdatedAt

	return r.put(ctx, existing)
}

func (r *S3Repository) ListByOwner(ctx context.Context, owner string) ([]*models.Document, error) {
	return r.list(ctx, owner, func(*models.Document) bool { return true })
}

func (r *S3Repository) SearchByServiceName(ctx context.Context, owner, term string) ([]*models.Document, error) {
	term = strings.ToLower(term)
	return r.list(ctx, owner, func(d *models.Document) bool {
		return strings.Contains(strings.ToLower(d.ServiceName), term)
	})
}

func (r *S3Repository) list(ctx context.Context, owner string, keep func(*models.Document) bool) ([]*models.Document, error) {
	p := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(ownerPrefix(owner)),
	})

	var result []*models.Document
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list: %w", err)
		}
		for _, obj := range page.Contents {
			doc, err := r.getKey(ctx, aws.ToString(obj.Key))
			if err != nil {
				return nil, err
			}
			if keep(doc) {
				result = append(result, doc)
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].RemoteID < result[j].RemoteID
	})
	return result, nil
}
