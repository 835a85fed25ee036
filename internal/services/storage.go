package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

var (
	s3Session  *session.Session
	s3Client   *s3.S3
	uploader   *s3manager.Uploader
	useS3      bool
	storageURL string
	uploadDir  string
)

// InitStorage initializes either S3 or local storage based on configuration
func InitStorage() error {
	awsRegion := os.Getenv("AWS_REGION")
	awsAccessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if awsRegion != "" && awsAccessKey != "" && awsSecretKey != "" {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(awsRegion),
			Credentials: credentials.NewStaticCredentials(
				awsAccessKey,
				awsSecretKey,
				"", // Token (optional)
			),
		})
		if err != nil {
			return fmt.Errorf("failed to create AWS session: %v", err)
		}

		s3Session = sess
		s3Client = s3.New(sess)
		uploader = s3manager.NewUploader(sess)
		useS3 = true
		return nil
	}

	// Fallback to local storage
	useS3 = false
	uploadDir = "/app/uploads"
	storageURL = os.Getenv("BASE_URL")
	if storageURL == "" {
		storageURL = "http://localhost:8080"
	}

	if err := os.MkdirAll(filepath.Join(uploadDir, "rooms"), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %v", err)
	}
	return nil
}

// UploadRoomImage stores the uploaded image and returns the public URL.
func UploadRoomImage(file *multipart.FileHeader, roomNumber string) (string, error) {
	filename := fmt.Sprintf("%s-%d%s", roomNumber, time.Now().UnixNano(), filepath.Ext(file.Filename))

	if useS3 {
		return uploadToS3(file, "rooms/"+filename)
	}
	return uploadToLocal(file, filename)
}

func uploadToS3(file *multipart.FileHeader, key string) (string, error) {
	bucket := os.Getenv("AWS_S3_BUCKET")
	if bucket == "" {
		return "", fmt.Errorf("AWS_S3_BUCKET not set")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	result, err := uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	return result.Location, nil
}

func uploadToLocal(file *multipart.FileHeader, filename string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	dstPath := filepath.Join(uploadDir, "rooms", filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(src); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	return storageURL + "/uploads/rooms/" + filename, nil
}

// DeleteRoomImage removes a previously uploaded image. Unknown URLs are
// ignored.
func DeleteRoomImage(imageURL string) error {
	if imageURL == "" {
		return nil
	}

	if useS3 {
		bucket := os.Getenv("AWS_S3_BUCKET")
		key := filepath.Base(imageURL)
		_, err := s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String("rooms/" + key),
		})
		return err
	}

	path := filepath.Join(uploadDir, "rooms", filepath.Base(imageURL))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
