package coverage

import (
	"sort"

	"github.com/covscan/covscan/internal/source"
)

// Summary holds per-sender coverage totals. Senders are keyed by the raw
// sender field value from the input data, not the canonical registry key,
// so reporting reflects the source data's own labels.
type Summary struct {
	Sender  string
	Total   int
	Covered int
}

// Pct returns the coverage percentage, in [0, 100]. A Summary is only ever
// produced for a sender with at least one record.
func (s Summary) Pct() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Covered) / float64(s.Total)
}

// Aggregate groups results by the records' raw sender labels and returns
// per-sender summaries sorted by label, plus the indices of the uncovered
// records as an order-preserving subsequence of the batch.
func Aggregate(records []source.MessageRecord, results []Result) ([]Summary, []int) {
	byLabel := make(map[string]*Summary)
	var labels []string
	var uncovered []int

	for i, record := range records {
		s, ok := byLabel[record.Sender]
		if !ok {
			s = &Summary{Sender: record.Sender}
			byLabel[record.Sender] = s
			labels = append(labels, record.Sender)
		}

		s.Total++
		if i < len(results) && results[i].Covered {
			s.Covered++
		} else {
			uncovered = append(uncovered, i)
		}
	}

	sort.Strings(labels)
	summaries := make([]Summary, 0, len(labels))
	for _, label := range labels {
		summaries = append(summaries, *byLabel[label])
	}

	return summaries, uncovered
}

// TotalPct returns the overall coverage percentage across all summaries.
func TotalPct(summaries []Summary) float64 {
	total, covered := 0, 0
	for _, s := range summaries {
		total += s.Total
		covered += s.Covered
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(covered) / float64(total)
}
