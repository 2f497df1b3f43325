package recorder

import (
	"context"

	"github.com/user/wealth-sprint/internal/types"
)

// NoopRecorder is used when no history database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTick(_ context.Context, _ types.TickReport) error            { return nil }
func (n *NoopRecorder) RecordTransactions(_ context.Context, _ []types.Transaction) error { return nil }
func (n *NoopRecorder) Reset(_ context.Context) error                                     { return nil }
func (n *NoopRecorder) Close() error                                                      { return nil }
