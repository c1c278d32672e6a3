// services/scheduler.go
package services

import (
	"fmt"
	"log"
	"time"

	"karate-entry-system/workers"

	"github.com/go-co-op/gocron/v2"
)

// StartSnapshotScheduler takes a nightly snapshot of the entry state — the
// raw CSV dump plus the school summary — and hands both to the archive
// worker. Entry deadlines have a habit of producing "what was in there on
// Tuesday" questions.
func (s *ReportService) StartSnapshotScheduler(archive *workers.ArchiveWorker) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			data, err := s.loadReportData()
			if err != nil {
				log.Printf("[SNAPSHOT] load failed: %v", err)
				return
			}
			date := time.Now().Format("2006-01-02")

			if csvBytes, err := s.BuildRawCSV(data); err != nil {
				log.Printf("[SNAPSHOT] raw csv failed: %v", err)
			} else {
				archive.Enqueue(workers.Artifact{
					Key:         fmt.Sprintf("snapshots/%s/raw_data.csv", date),
					ContentType: "text/csv; charset=utf-8",
					Data:        csvBytes,
				})
			}

			if summary, err := s.BuildSchoolSummary(data); err != nil {
				log.Printf("[SNAPSHOT] summary failed: %v", err)
			} else {
				archive.Enqueue(workers.Artifact{
					Key:         fmt.Sprintf("snapshots/%s/school_summary.xlsx", date),
					ContentType: xlsxContentType,
					Data:        summary,
				})
			}
			log.Printf("[SNAPSHOT] queued snapshot for %s", date)
		}),
	)
}
