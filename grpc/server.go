package cellgrpc

import (
	"context"
	"net"

	"github.com/blockberries/cellcodec/server"
	"github.com/blockberries/cellcodec/types"

	"google.golang.org/grpc"
)

// Compile-time interface check.
var _ CodecServiceServer = (*GRPCServer)(nil)

// GRPCServer exposes a server.Server over gRPC. Values from the types
// package are serialized directly via cramberry.
type GRPCServer struct {
	srv *server.Server
}

// NewGRPCServer creates the in-process server with opts and wraps it.
func NewGRPCServer(opts ...server.Option) (*GRPCServer, error) {
	srv, err := server.New(opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCServer{srv: srv}, nil
}

// Register adds the codec service to a gRPC server.
func (s *GRPCServer) Register(gs *grpc.Server) {
	RegisterCodecServiceServer(gs, s)
}

// Serve starts a gRPC server on the given listener and blocks until it
// stops.
func (s *GRPCServer) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs.Serve(lis)
}

// Server returns the underlying server for advanced use.
func (s *GRPCServer) Server() *server.Server {
	return s.srv
}

// Close closes the underlying server. Later RPCs fail with
// codes.Unavailable.
func (s *GRPCServer) Close() error {
	return s.srv.Close()
}

// --- Transaction RPCs ---

func (s *GRPCServer) DecodeTransaction(ctx context.Context, req *DecodeRequest) (*types.TransactionView, error) {
	tx, err := s.srv.DecodeTransaction(ctx, req.Record)
	if err != nil {
		return nil, s.unaryError(ctx, err)
	}
	return &tx, nil
}

func (s *GRPCServer) DecodeTransactions(req *DecodeBatchRequest, stream grpc.ServerStream) error {
	txs, err := s.srv.DecodeTransactions(stream.Context(), req.Records)
	if err != nil {
		serr, md := toStatus(err)
		if md != nil {
			stream.SetTrailer(md)
		}
		return serr
	}
	for i := range txs {
		if err := stream.SendMsg(&txs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *GRPCServer) EncodeTransaction(ctx context.Context, tx *types.TransactionView) (*EncodeResponse, error) {
	data, err := s.srv.EncodeTransaction(ctx, *tx)
	if err != nil {
		return nil, s.unaryError(ctx, err)
	}
	return &EncodeResponse{Record: data}, nil
}

// --- Cell RPCs ---

func (s *GRPCServer) DecodeCellOutput(ctx context.Context, req *DecodeRequest) (*types.CellOutput, error) {
	out, err := s.srv.DecodeCellOutput(ctx, req.Record)
	if err != nil {
		return nil, s.unaryError(ctx, err)
	}
	return &out, nil
}

func (s *GRPCServer) EncodeCellOutput(ctx context.Context, out *types.CellOutput) (*EncodeResponse, error) {
	data, err := s.srv.EncodeCellOutput(ctx, *out)
	if err != nil {
		return nil, s.unaryError(ctx, err)
	}
	return &EncodeResponse{Record: data}, nil
}

func (s *GRPCServer) DecodeScript(ctx context.Context, req *DecodeRequest) (*types.Script, error) {
	script, err := s.srv.DecodeScript(ctx, req.Record)
	if err != nil {
		return nil, s.unaryError(ctx, err)
	}
	return &script, nil
}

func (s *GRPCServer) EncodeScript(ctx context.Context, script *types.Script) (*EncodeResponse, error) {
	data, err := s.srv.EncodeScript(ctx, *script)
	if err != nil {
		return nil, s.unaryError(ctx, err)
	}
	return &EncodeResponse{Record: data}, nil
}

// --- Scalar RPCs ---

func (s *GRPCServer) NormalizeScalar(ctx context.Context, req *NormalizeScalarRequest) (*NormalizeScalarResponse, error) {
	text, err := s.srv.NormalizeScalar(ctx, req.Kind, req.Text)
	if err != nil {
		return nil, s.unaryError(ctx, err)
	}
	return &NormalizeScalarResponse{Text: text}, nil
}

// unaryError converts err to a status and attaches its trailer to the
// call in ctx. Without the trailer the client sees the status but not
// the error kind, so a failure to set it is logged.
func (s *GRPCServer) unaryError(ctx context.Context, err error) error {
	serr, md := toStatus(err)
	if md != nil {
		if terr := grpc.SetTrailer(ctx, md); terr != nil {
			log := s.srv.Logger()
			log.Error().
				Err(terr).
				Strs("kind", md.Get(kindTrailer)).
				Msg("set error trailer")
		}
	}
	return serr
}
