package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

type timeoutNetErr struct{ timeout bool }

func (e timeoutNetErr) Error() string   { return "net failure" }
func (e timeoutNetErr) Timeout() bool   { return e.timeout }
func (e timeoutNetErr) Temporary() bool { return false }

var _ net.Error = timeoutNetErr{}

func TestClassify(t *testing.T) {
	domainErr := errors.New("slot conflict")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: ErrSerializationConflict},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, want: ErrSerializationConflict},
		{name: "wrapped serialization failure", err: fmt.Errorf("insert booking: %w", &pq.Error{Code: "40001"}), want: ErrSerializationConflict},
		{name: "statement cancelled", err: &pq.Error{Code: "57014"}, want: ErrTimeout},
		{name: "lock not available", err: &pq.Error{Code: "55P03"}, want: ErrTimeout},
		{name: "connection exception", err: &pq.Error{Code: "08006"}, want: ErrStoreUnavailable},
		{name: "too many connections", err: &pq.Error{Code: "53300"}, want: ErrStoreUnavailable},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01"}, want: ErrStoreUnavailable},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: ErrTimeout},
		{name: "bad conn", err: driver.ErrBadConn, want: ErrStoreUnavailable},
		{name: "net timeout", err: timeoutNetErr{timeout: true}, want: ErrTimeout},
		{name: "net refused", err: timeoutNetErr{timeout: false}, want: ErrStoreUnavailable},
		{name: "domain error untouched", err: domainErr, want: domainErr},
		{name: "unique violation untouched", err: &pq.Error{Code: "23505"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(context.Background(), tt.err)
			if tt.want == nil {
				assert.Same(t, tt.err, got)
				assert.Equal(t, "other", ErrorType(got))
				return
			}
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_ExpiredContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()

	err := Classify(ctx, errors.New("pq: canceling statement due to user request"))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, Classify(context.Background(), nil))
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "none", ErrorType(nil))
	assert.Equal(t, "serialization_conflict", ErrorType(fmt.Errorf("x: %w", ErrSerializationConflict)))
	assert.Equal(t, "timeout", ErrorType(ErrTimeout))
	assert.Equal(t, "store_unavailable", ErrorType(ErrStoreUnavailable))
	assert.Equal(t, "context_canceled", ErrorType(context.Canceled))
	assert.Equal(t, "other", ErrorType(errors.New("x")))
}
