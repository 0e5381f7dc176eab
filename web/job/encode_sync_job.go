// Package job contains the cron jobs scheduled by the web server.
package job

import (
	"faceattend/logger"
	"faceattend/web/service"
)

// EncodeSyncJob periodically re-fires the recognition service's encode
// trigger so a lost enrollment notification heals without manual action.
type EncodeSyncJob struct {
	encode *service.EncodeService
}

func NewEncodeSyncJob(encode *service.EncodeService) *EncodeSyncJob {
	return &EncodeSyncJob{encode: encode}
}

// Run implements cron.Job.
func (j *EncodeSyncJob) Run() {
	if err := j.encode.Trigger(); err != nil {
		logger.Warning("encode sync job err:", err)
		return
	}
	logger.Debug("encode sync job completed")
}
