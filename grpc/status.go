package cellgrpc

import (
	"context"
	"errors"

	"github.com/blockberries/cellcodec"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Trailer keys carrying the classification of a rejected input. gRPC
// statuses hold only a code and a message, so the error kind and the
// failing operation travel as trailer metadata.
const (
	kindTrailer = "cellcodec-error-kind"
	opTrailer   = "cellcodec-error-op"
)

// RemoteError is the client-side form of a validation failure reported
// by a remote server. It unwraps to the sentinel of its kind, so
// errors.Is works the same as for an in-process Codec.
type RemoteError struct {
	Kind    error
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.Kind }

// toStatus converts a codec error into a gRPC status error and the
// trailer to send with it.
func toStatus(err error) (error, metadata.MD) {
	if v, ok := cellcodec.IsValidation(err); ok {
		md := metadata.Pairs(opTrailer, v.Op)
		if kind := cellcodec.KindOf(err); kind != "" {
			md.Append(kindTrailer, kind)
		}
		return status.Error(codes.InvalidArgument, v.Err.Error()), md
	}
	switch {
	case errors.Is(err, cellcodec.ErrClosed):
		return status.Error(codes.Unavailable, err.Error()), nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err(), nil
	default:
		return status.Error(codes.Internal, err.Error()), nil
	}
}

// fromStatus rebuilds the codec error behind a status returned by
// method. Statuses that are not validation failures pass through,
// except that cancellation maps back to the context error.
func fromStatus(method string, err error, md metadata.MD) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		op := method
		if ops := md.Get(opTrailer); len(ops) > 0 {
			op = ops[0]
		}
		remote := &RemoteError{Message: st.Message()}
		if kinds := md.Get(kindTrailer); len(kinds) > 0 {
			remote.Kind = cellcodec.KindError(kinds[0])
		}
		return cellcodec.NewValidationError(op, remote)
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	default:
		return err
	}
}
