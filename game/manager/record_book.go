package manager

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// SurvivalRecord is one finished survivor run.
type SurvivalRecord struct {
	Time      int    `json:"time" csv:"time"` // seconds survived
	Stage     int    `json:"stage" csv:"stage"`
	Score     int    `json:"score" csv:"score"`
	Date      string `json:"date" csv:"date"`
	Timestamp int64  `json:"timestamp" csv:"timestamp"` // unix milliseconds
}

// RecordBook keeps the best survivor runs, longest first. Records are only
// ever appended and trimmed.
type RecordBook struct {
	max     int
	records []SurvivalRecord
	mutex   sync.RWMutex
}

func NewRecordBook(max int) *RecordBook {
	return &RecordBook{
		max:     max,
		records: make([]SurvivalRecord, 0, max+1),
	}
}

// Add appends a record, re-sorts by time (descending) and keeps the top max.
func (rb *RecordBook) Add(survived, stage, score int, now time.Time) SurvivalRecord {
	rb.mutex.Lock()
	defer rb.mutex.Unlock()

	record := SurvivalRecord{
		Time:      survived,
		Stage:     stage,
		Score:     score,
		Date:      now.Format("2006-01-02"),
		Timestamp: now.UnixMilli(),
	}
	rb.records = append(rb.records, record)

	// Stable so that equal times keep the older run first.
	sort.SliceStable(rb.records, func(i, j int) bool {
		return rb.records[i].Time > rb.records[j].Time
	})
	if len(rb.records) > rb.max {
		rb.records = rb.records[:rb.max]
	}
	return record
}

// Records returns a copy of the kept records.
func (rb *RecordBook) Records() []SurvivalRecord {
	rb.mutex.RLock()
	defer rb.mutex.RUnlock()

	out := make([]SurvivalRecord, len(rb.records))
	copy(out, rb.records)
	return out
}

func (rb *RecordBook) Len() int {
	rb.mutex.RLock()
	defer rb.mutex.RUnlock()
	return len(rb.records)
}

// Best returns the longest run.
func (rb *RecordBook) Best() (SurvivalRecord, bool) {
	rb.mutex.RLock()
	defer rb.mutex.RUnlock()

	if len(rb.records) == 0 {
		return SurvivalRecord{}, false
	}
	return rb.records[0], true
}

// RecordSummary aggregates the kept records.
type RecordSummary struct {
	Count      int
	BestTime   int
	MeanTime   float64
	MedianTime float64
	MeanScore  float64
	MaxStage   int
}

// Summary computes averages over the kept records.
func (rb *RecordBook) Summary() RecordSummary {
	rb.mutex.RLock()
	defer rb.mutex.RUnlock()

	var s RecordSummary
	s.Count = len(rb.records)
	if s.Count == 0 {
		return s
	}

	times := make([]float64, s.Count)
	scores := make([]float64, s.Count)
	for i, r := range rb.records {
		times[i] = float64(r.Time)
		scores[i] = float64(r.Score)
		if r.Stage > s.MaxStage {
			s.MaxStage = r.Stage
		}
	}
	s.BestTime = rb.records[0].Time
	s.MeanTime = stat.Mean(times, nil)
	s.MeanScore = stat.Mean(scores, nil)

	sort.Float64s(times)
	s.MedianTime = stat.Quantile(0.5, stat.Empirical, times, nil)
	return s
}

// WriteCSV writes the kept records, header included.
func (rb *RecordBook) WriteCSV(w io.Writer) error {
	records := rb.Records()
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("writing survival records: %w", err)
	}
	return nil
}
