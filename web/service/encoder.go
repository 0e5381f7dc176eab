package service

import (
	"net/http"
	"time"

	"faceattend/logger"
	"faceattend/util/common"
)

// EncodeService asks the recognition service to recompute its face
// encodings. The trigger is advisory: the recognition service converges
// on its own even when a notification is lost, so failures are logged
// and discarded.
type EncodeService struct {
	url    string
	client *http.Client
}

// NewEncodeService creates an EncodeService for the given trigger URL
// with a bounded request timeout.
func NewEncodeService(url string, timeout time.Duration) *EncodeService {
	return &EncodeService{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// NotifyReencode fires the encode trigger without blocking the caller.
// The outcome never reaches the caller; it is logged and dropped.
func (s *EncodeService) NotifyReencode() {
	go func() {
		defer common.Recover("encode trigger")
		if err := s.Trigger(); err != nil {
			logger.Warning("encode trigger failed:", err)
		}
	}()
}

// Trigger issues the encode request synchronously. Used by NotifyReencode
// and by the periodic sync job.
func (s *EncodeService) Trigger() error {
	resp, err := s.client.Get(s.url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	logger.Debugf("encode triggered, status %d", resp.StatusCode)
	return nil
}
