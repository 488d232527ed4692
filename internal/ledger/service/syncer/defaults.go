package syncer

import "time"

const (
	defaultBatchSize       = 500
	defaultFlushInterval   = 2 * time.Second
	defaultWritesPerSecond = 20
	defaultPollInterval    = 20 * time.Second

	backoffBase  = time.Second
	backoffLimit = time.Minute
)
