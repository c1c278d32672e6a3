// workers/archive_worker.go
package workers

import (
	"context"
	"log"

	"karate-entry-system/utils"
)

// Artifact is one generated file headed for the archive bucket.
type Artifact struct {
	Key         string
	ContentType string
	Data        []byte
}

// ArchiveWorker uploads generated artifacts (submission forms, snapshots)
// in the background so downloads never wait on the bucket. Uploads are
// best-effort: a failed upload is logged and dropped, the school already
// has its file.
type ArchiveWorker struct {
	queue chan Artifact
}

func NewArchiveWorker() *ArchiveWorker {
	return &ArchiveWorker{queue: make(chan Artifact, 64)}
}

// Enqueue hands an artifact to the worker. A full queue drops the artifact
// rather than blocking a request.
func (w *ArchiveWorker) Enqueue(a Artifact) {
	select {
	case w.queue <- a:
	default:
		log.Printf("[ARCHIVE] queue full, dropping %s", a.Key)
	}
}

// Start drains the queue until the context is cancelled.
func (w *ArchiveWorker) Start(ctx context.Context) {
	log.Println("Starting artifact archive worker...")
	for {
		select {
		case <-ctx.Done():
			log.Println("Archive worker stopped.")
			return
		case a := <-w.queue:
			if err := utils.UploadBytesToR2(a.Data, a.Key, a.ContentType); err != nil {
				log.Printf("[ARCHIVE] upload %s failed: %v", a.Key, err)
			} else if utils.ArchiveEnabled() {
				log.Printf("[ARCHIVE] uploaded %s (%d bytes)", a.Key, len(a.Data))
			}
		}
	}
}
