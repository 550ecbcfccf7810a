package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"sessionvault/internal/domain/interfaces"
	domaintypes "sessionvault/internal/domain/types"
)

// S3RecordStore persists records as S3 objects at
// {prefix}{address}_{kind}.json. The revision check reads the current
// object before the put, so it catches stale writers but is not atomic
// across concurrent writers the way the SQLite adapter is; serialize
// writers externally when that matters.
type S3RecordStore struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3RecordStore returns an S3RecordStore using the given client. The
// client is caller-constructed so credential and region wiring stay with
// the application.
func NewS3RecordStore(client *s3.Client, bucket, prefix string) *S3RecordStore {
	return &S3RecordStore{client: client, bucket: bucket, prefix: prefix}
}

// ReadRecord loads the record for (account, kind).
func (s *S3RecordStore) ReadRecord(
	ctx context.Context,
	account domaintypes.Address,
	kind domaintypes.RecordKind,
	out any,
) (bool, error) {
	b, err := s.get(ctx, s.key(account, kind))
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// WriteRecord replaces the record for (account, kind) after the revision
// check.
func (s *S3RecordStore) WriteRecord(
	ctx context.Context,
	account domaintypes.Address,
	kind domaintypes.RecordKind,
	record any,
	expectedRevision uint64,
) error {
	key := s.key(account, kind)

	cur, err := s.get(ctx, key)
	if err != nil {
		return err
	}
	var curRev uint64
	if cur != nil {
		if curRev, err = peekRevision(cur); err != nil {
			return err
		}
	}
	if curRev != expectedRevision {
		return interfaces.ErrRevisionConflict
	}

	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	return err
}

// get fetches an object, reporting a missing key as nil bytes.
func (s *S3RecordStore) get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()
	return io.ReadAll(obj.Body)
}

func (s *S3RecordStore) key(account domaintypes.Address, kind domaintypes.RecordKind) string {
	return fmt.Sprintf("%s%s_%s.json", s.prefix, account, kind)
}

// Compile-time assertion that S3RecordStore implements interfaces.RecordStore.
var _ interfaces.RecordStore = (*S3RecordStore)(nil)
