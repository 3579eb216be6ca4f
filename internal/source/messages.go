// Package source loads the tabular message batch consumed by coverage
// evaluation. The batch is closed: it is read once at startup and never
// appended to.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/covscan/covscan/internal/errors"
)

// Column aliases accepted for the sender and message roles, matched case
// insensitively against the CSV header.
var (
	senderAliases  = []string{"casa_sender_name", "sender_name", "sender", "bank"}
	messageAliases = []string{"message", "msg", "sms", "text", "body"}
)

// MessageRecord is one input unit of work: a sender identity as observed in
// the data plus the raw message text. The full raw row is retained so the
// uncovered export preserves the batch's original shape.
type MessageRecord struct {
	Sender string
	Text   string
	Row    []string
}

// Batch is a closed, fully-loaded set of message records.
type Batch struct {
	Header  []string
	Records []MessageRecord

	senderIndex  int
	messageIndex int
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	return len(b.Records)
}

// LoadCSV reads a message batch from a CSV file with a header row. The
// header must contain one sender-role column and one message-role column
// (any of the recognized aliases); a missing role column is a load-time
// validation error, not a per-row lookup miss.
func LoadCSV(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSourceError(errors.ErrCodeMessageSource,
			fmt.Sprintf("opening message source %q", path), err)
	}
	defer f.Close()

	return Read(f, path)
}

// Read parses a message batch from r. The name is used for error context
// only.
func Read(r io.Reader, name string) (*Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewSourceError(errors.ErrCodeMessageSource,
			fmt.Sprintf("reading message source header from %q", name), err)
	}

	senderIndex, err := resolveColumn(header, senderAliases, "sender")
	if err != nil {
		return nil, err
	}
	messageIndex, err := resolveColumn(header, messageAliases, "message")
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		Header:       header,
		senderIndex:  senderIndex,
		messageIndex: messageIndex,
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewSourceError(errors.ErrCodeMessageSource,
				fmt.Sprintf("reading message source %q", name), err)
		}

		record := MessageRecord{Row: row}
		if senderIndex < len(row) {
			record.Sender = strings.TrimSpace(row[senderIndex])
		}
		if messageIndex < len(row) {
			record.Text = row[messageIndex]
		}
		batch.Records = append(batch.Records, record)
	}

	return batch, nil
}

// resolveColumn finds the index of the first header cell matching one of
// the role's aliases.
func resolveColumn(header []string, aliases []string, role string) (int, error) {
	for _, alias := range aliases {
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), alias) {
				return i, nil
			}
		}
	}

	return 0, errors.NewSourceError(errors.ErrCodeMissingColumn,
		fmt.Sprintf("no %s column found (accepted: %s)", role, strings.Join(aliases, ", ")), nil)
}
