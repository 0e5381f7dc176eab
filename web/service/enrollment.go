package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"faceattend/database"
	"faceattend/logger"
	"faceattend/util/common"
)

var (
	ErrUnknownUser  = errors.New("user not found")
	ErrPrimaryWrite = errors.New("primary photo write failed")
	ErrReplicaWrite = errors.New("replica photo copy failed")
)

// EnrollmentService stores an uploaded student photo in the primary
// upload area, replicates it into the directory owned by the recognition
// service, and records the canonical relative path on the user.
//
// The dual write is not transactional: a failed replica copy leaves the
// primary copy in place and the record untouched. Re-running the same
// enrollment is safe because both writes overwrite. Concurrent
// enrollments for one user are not serialized; the last record write
// wins.
type EnrollmentService struct {
	userService UserService
	encode      *EncodeService

	uploadDir    string
	replicaDir   string
	assetDirName string
}

// NewEnrollmentService wires the enrollment pipeline to its storage
// directories and the encode notifier.
func NewEnrollmentService(encode *EncodeService, uploadDir, replicaDir, assetDirName string) *EnrollmentService {
	return &EnrollmentService{
		encode:       encode,
		uploadDir:    uploadDir,
		replicaDir:   replicaDir,
		assetDirName: assetDirName,
	}
}

// Enroll runs the photo enrollment pipeline for the user identified by
// email and returns the canonical relative path. The encode notifier is
// fired regardless of how the pipeline ends once the user is known.
func (s *EnrollmentService) Enroll(email, filename string, src io.Reader) (string, error) {
	user, err := s.userService.GetUserByEmail(email)
	if database.IsNotFound(err) {
		return "", ErrUnknownUser
	} else if err != nil {
		return "", err
	}

	defer s.encode.NotifyReencode()

	cleanName := common.SanitizeFilename(filename)

	// Directories are ensured immediately before their write, so the
	// only reachable inconsistency is a primary copy with a pending
	// replica.
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPrimaryWrite, err)
	}
	primaryPath := filepath.Join(s.uploadDir, cleanName)
	if err := writeFile(primaryPath, src); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPrimaryWrite, err)
	}

	if err := os.MkdirAll(s.replicaDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrReplicaWrite, err)
	}
	replicaPath := filepath.Join(s.replicaDir, cleanName)
	if err := copyFile(primaryPath, replicaPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrReplicaWrite, err)
	}

	relativePath := path.Join(s.assetDirName, cleanName)
	if err := s.userService.UpdateImagePath(user.Id, relativePath); err != nil {
		return "", err
	}

	logger.Infof("photo enrolled for %s: %s", user.Email, relativePath)
	return relativePath, nil
}

// writeFile writes src to dst, truncating any existing file.
func writeFile(dst string, src io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Sync()
}

// copyFile copies src to dst, overwriting dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
