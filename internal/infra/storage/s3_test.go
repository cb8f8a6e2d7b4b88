package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type putterStub struct {
	input   *s3.PutObjectInput
	body    []byte
	deleted []string
	err     error
}

func (p *putterStub) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.input = in
	p.body, _ = io.ReadAll(in.Body)
	if p.err != nil {
		return nil, p.err
	}
	return &s3.PutObjectOutput{}, nil
}

func (p *putterStub) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.deleted = append(p.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestPut(t *testing.T) {
	stub := &putterStub{}
	s := &S3PhotoStore{client: stub, bucket: "photos"}

	require.NoError(t, s.Put(context.Background(), "services/1/a.webp", []byte("img"), "image/webp"))
	require.Equal(t, "photos", aws.ToString(stub.input.Bucket))
	require.Equal(t, "services/1/a.webp", aws.ToString(stub.input.Key))
	require.Equal(t, "image/webp", aws.ToString(stub.input.ContentType))
	require.Equal(t, []byte("img"), stub.body)
}

func TestPutWrapsErrors(t *testing.T) {
	s := &S3PhotoStore{client: &putterStub{err: errors.New("denied")}, bucket: "photos"}
	require.Error(t, s.Put(context.Background(), "k", nil, "image/webp"))
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := NewS3PhotoStore(S3Config{})
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	stub := &putterStub{}
	s := &S3PhotoStore{client: stub, bucket: "photos"}

	require.NoError(t, s.Delete(context.Background(), "services/1/a.webp"))
	require.Equal(t, []string{"services/1/a.webp"}, stub.deleted)

	s = &S3PhotoStore{client: &putterStub{err: errors.New("denied")}, bucket: "photos"}
	require.Error(t, s.Delete(context.Background(), "k"))
}
