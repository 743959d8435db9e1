package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Upload attempts by content type and result.",
		},
		[]string{"type", "result"},
	)

	uploadedBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploaded_bytes_total",
			Help: "Bytes stored in the object store by content type.",
		},
		[]string{"type"},
	)

	probeFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_probe_failures_total",
			Help: "Duration extractions that failed and fell back to the declared duration.",
		},
	)

	compensatingDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_compensating_deletes_total",
			Help: "Object deletions issued after a failed metadata write, by result.",
		},
		[]string{"result"},
	)
)

// Upload results used as metric labels
const (
	resultSuccess       = "success"
	resultRejected      = "rejected"
	resultStorageError  = "storage_error"
	resultMetadataError = "metadata_error"
)
