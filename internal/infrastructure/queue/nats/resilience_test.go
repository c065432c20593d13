package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/docdigest/internal/core/domain"
)

func TestClassifyPublishError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
		record    bool
	}{
		{name: "cancelled", err: context.Canceled, retryable: false, record: false},
		{name: "no servers", err: fmt.Errorf("nats publish: %w", nats.ErrNoServers), retryable: true, record: true},
		{name: "closed", err: nats.ErrConnectionClosed, retryable: true, record: true},
		{name: "reconnecting", err: nats.ErrConnectionReconnecting, retryable: true, record: true},
		{name: "bad subject", err: nats.ErrBadSubject, retryable: false, record: false},
		{name: "max payload", err: fmt.Errorf("nats publish: %w", nats.ErrMaxPayload), retryable: false, record: false},
		{name: "unknown", err: errors.New("permission denied"), retryable: false, record: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyPublishError(tc.err)
			if got.Retryable != tc.retryable || got.RecordFailure != tc.record {
				t.Fatalf("classifyPublishError(%v) = %+v", tc.err, got)
			}
		})
	}
}

func TestPublishErrorKinds(t *testing.T) {
	if err := publishError(fmt.Errorf("nats publish: %w", nats.ErrTimeout)); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if err := publishError(fmt.Errorf("nats publish: %w", nats.ErrMaxPayload)); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	plain := errors.New("permission denied")
	if got := publishError(plain); got != plain {
		t.Fatalf("expected unclassified error unchanged, got %v", got)
	}
	if publishError(nil) != nil {
		t.Fatalf("expected nil for nil")
	}
}

func TestHandlerContextAppliesTimeout(t *testing.T) {
	q := &Queue{handlerTimeout: 0}
	ctx, cancel := q.handlerContext(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatalf("expected no deadline without handler timeout")
	}

	q.handlerTimeout = 5 * time.Minute
	ctx2, cancel2 := q.handlerContext(context.Background())
	defer cancel2()
	if _, ok := ctx2.Deadline(); !ok {
		t.Fatalf("expected deadline with handler timeout")
	}
}
