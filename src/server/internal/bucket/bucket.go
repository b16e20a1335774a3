package bucket

import (
	"context"
	"time"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/heartsync/heartsync-be/src/shared/config"
)

const presignTTL = time.Hour

// UserBucket hands out short-lived presigned URLs for profile pictures so
// the image bytes never travel through this server.
type UserBucket struct {
	s3Client *s3.S3
	name     string
}

func NewUserBucket(s3Client *s3.S3, cfg config.Bucket) UserBucket {
	return UserBucket{
		s3Client: s3Client,
		name:     cfg.Name,
	}
}

func (b UserBucket) GetProfilePicURL(key string) (string, error) {
	request, _ := b.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})

	signedURL, err := request.Presign(presignTTL)
	if err != nil {
		log.WithError(err).Error("Failed to presign the profile picture GET URL")
		return "", errors.Wrap(err, "Failed to presign the profile picture GET URL")
	}

	return signedURL, nil
}

func (b UserBucket) PutProfilePicURL(key string) (string, error) {
	request, _ := b.s3Client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		ContentType: aws.String("image/jpeg"),
	})

	signedURL, err := request.Presign(presignTTL)
	if err != nil {
		log.WithError(err).Error("Failed to presign the profile picture PUT URL")
		return "", errors.Wrap(err, "Failed to presign the profile picture PUT URL")
	}

	return signedURL, nil
}

func (b UserBucket) DeleteProfilePic(ctx context.Context, key string) error {
	_, err := b.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})

	if err != nil {
		return errors.Wrap(err, "Failed to delete the profile picture object")
	}

	return nil
}
