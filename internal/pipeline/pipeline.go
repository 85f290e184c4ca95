// Package pipeline moves record batches from an arrio.Reader to an
// arrio.Writer on two goroutines.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/arrowarc/pqbridge/internal/arrio"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
)

// Metrics summarizes one run.
type Metrics struct {
	Records   int64
	Rows      int64
	StartTime time.Time
	EndTime   time.Time
}

func (m Metrics) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// DataPipeline copies every record of reader to writer. It does not close
// either end.
type DataPipeline struct {
	reader arrio.Reader
	writer arrio.Writer
	logger log.Logger
	depth  int
}

// NewDataPipeline creates a pipeline buffering up to depth records between
// the two ends. A depth below 1 is treated as 1.
func NewDataPipeline(reader arrio.Reader, writer arrio.Writer, logger log.Logger, depth int) *DataPipeline {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if depth < 1 {
		depth = 1
	}
	return &DataPipeline{reader: reader, writer: writer, logger: logger, depth: depth}
}

// Start runs the pipeline until the reader is drained, either end fails or
// ctx is cancelled. Records still in flight when it stops are released.
func (dp *DataPipeline) Start(ctx context.Context) (Metrics, error) {
	metrics := Metrics{StartTime: time.Now()}
	records := make(chan arrow.Record, dp.depth)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(records)
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := dp.reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read record: %w", err)
			}
			select {
			case records <- record:
			case <-ctx.Done():
				record.Release()
				return ctx.Err()
			}
		}
	})

	g.Go(func() error {
		for record := range records {
			err := dp.writer.Write(record)
			if err == nil {
				metrics.Records++
				metrics.Rows += record.NumRows()
			}
			record.Release()
			if err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}
		return nil
	})

	err := g.Wait()
	for record := range records {
		record.Release()
	}
	metrics.EndTime = time.Now()

	if err != nil {
		level.Error(dp.logger).Log("msg", "pipeline stopped", "records", metrics.Records, "rows", metrics.Rows, "err", err)
		return metrics, err
	}
	level.Debug(dp.logger).Log("msg", "pipeline finished", "records", metrics.Records, "rows", metrics.Rows, "duration", metrics.Duration())
	return metrics, nil
}
