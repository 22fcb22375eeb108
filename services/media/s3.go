// Package mediasvc handles study media: presigned uploads to S3 and signed
// CloudFront cookies for video playback.
package mediasvc

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core"
)

const uploadURLExpiry = 5 * time.Minute

type (
	// UploadTicket is a one-shot authorization to PUT a file to storage.
	UploadTicket struct {
		UploadURL string `json:"upload_url"`
		FileKey   string `json:"file_key"`
	}

	Uploader interface {
		PresignUpload(filename, contentType string) (UploadTicket, error)
	}

	s3Uploader struct {
		svc    *s3.S3
		bucket string
	}
)

var _ Uploader = (*s3Uploader)(nil)

func NewS3Uploader(conf *core.Config) (Uploader, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(conf.AWS.Region)})
	if err != nil {
		return nil, errors.Wrap(err, "creating AWS session")
	}
	return &s3Uploader{
		svc:    s3.New(sess),
		bucket: conf.AWS.UploadBucket,
	}, nil
}

// PresignUpload returns a PUT URL valid for five minutes. Keys are prefixed
// with the current unix-millisecond timestamp so uploads never collide.
func (u *s3Uploader) PresignUpload(filename, contentType string) (UploadTicket, error) {
	key := fmt.Sprintf("uploads/%d-%s", time.Now().UnixMilli(), filename)

	req, _ := u.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	url, err := req.Presign(uploadURLExpiry)
	if err != nil {
		return UploadTicket{}, errors.Wrap(err, "presigning upload")
	}
	return UploadTicket{UploadURL: url, FileKey: key}, nil
}
