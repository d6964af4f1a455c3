package export

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Upload(t *testing.T) {
	fake := &fakeS3{}
	uploader := &S3Uploader{client: fake, bucket: "diagnostics", prefix: "runs"}

	key, err := uploader.Upload(context.Background(), sampleSnapshot())
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if key != "runs/orgnet_9f1c2d3e.json.sz" {
		t.Errorf("Unexpected object key: %s", key)
	}
	if *fake.input.Bucket != "diagnostics" {
		t.Errorf("Unexpected bucket: %s", *fake.input.Bucket)
	}

	got, err := Decode(fake.body)
	if err != nil {
		t.Fatalf("Uploaded body is not a valid snapshot: %v", err)
	}
	if got.RunID != "9f1c2d3e" {
		t.Errorf("Unexpected run ID in uploaded snapshot: %s", got.RunID)
	}
}

func TestS3Upload_PutFails(t *testing.T) {
	uploader := &S3Uploader{client: &fakeS3{err: errors.New("access denied")}, bucket: "diagnostics"}

	if _, err := uploader.Upload(context.Background(), sampleSnapshot()); err == nil {
		t.Fatal("Expected error when PutObject fails")
	}
}
