package scenario

import (
	"context"

	"github.com/roach88/pubtest/internal/publisher"
)

// ReadJob runs a read job against a configured publisher.
//
// It is an immutable triple of publisher, configuration snapshot and read
// snapshot. Every Run hands the publisher fresh copies of both requests, so
// nothing a publisher or a retained callback pointer does can change what a
// later Run sees.
type ReadJob struct {
	publisher publisher.Publisher
	configure *publisher.ConfigureRequest
	read      *publisher.ReadRequest
}

// NewReadJob snapshots cfg and rd and binds them to p.
// A nil cfg or rd is treated as an empty request.
func NewReadJob(p publisher.Publisher, cfg *publisher.ConfigureRequest, rd *publisher.ReadRequest) *ReadJob {
	if cfg == nil {
		cfg = publisher.NewConfigureRequest()
	}
	if rd == nil {
		rd = publisher.NewReadRequest()
	}
	return &ReadJob{
		publisher: p,
		configure: cfg.Clone(),
		read:      rd.Clone(),
	}
}

// Run applies the configuration, then performs the read.
// A Configure failure short-circuits; Read is not called. Errors and the
// result pass through unmodified.
func (j *ReadJob) Run(ctx context.Context) (*publisher.ReadResult, error) {
	if err := j.publisher.Configure(ctx, j.configure.Clone()); err != nil {
		return nil, err
	}
	return j.publisher.Read(ctx, j.read.Clone())
}

// Publisher returns the bound publisher instance.
func (j *ReadJob) Publisher() publisher.Publisher {
	return j.publisher
}

// Configuration returns a copy of the configuration snapshot.
func (j *ReadJob) Configuration() *publisher.ConfigureRequest {
	return j.configure.Clone()
}

// Parameters returns a copy of the read snapshot.
func (j *ReadJob) Parameters() *publisher.ReadRequest {
	return j.read.Clone()
}
