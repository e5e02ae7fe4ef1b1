package cellgrpc

import (
	"context"
	"fmt"

	"github.com/blockberries/cellcodec/types"

	"google.golang.org/grpc"
)

const serviceName = "cellcodec.v1.CodecService"

// CodecServiceServer is the server-side interface for the codec gRPC
// service.
type CodecServiceServer interface {
	DecodeTransaction(context.Context, *DecodeRequest) (*types.TransactionView, error)
	DecodeTransactions(*DecodeBatchRequest, grpc.ServerStream) error
	EncodeTransaction(context.Context, *types.TransactionView) (*EncodeResponse, error)
	DecodeCellOutput(context.Context, *DecodeRequest) (*types.CellOutput, error)
	EncodeCellOutput(context.Context, *types.CellOutput) (*EncodeResponse, error)
	DecodeScript(context.Context, *DecodeRequest) (*types.Script, error)
	EncodeScript(context.Context, *types.Script) (*EncodeResponse, error)
	NormalizeScalar(context.Context, *NormalizeScalarRequest) (*NormalizeScalarResponse, error)
}

// RegisterCodecServiceServer registers the CodecServiceServer on a gRPC
// server.
func RegisterCodecServiceServer(s *grpc.Server, srv CodecServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// --- Handler functions ---

func handlerDecodeTransaction(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(DecodeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(CodecServiceServer).DecodeTransaction(ctx, req)
}

func handlerDecodeTransactions(srv any, stream grpc.ServerStream) error {
	req := new(DecodeBatchRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(CodecServiceServer).DecodeTransactions(req, stream)
}

func handlerEncodeTransaction(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.TransactionView)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(CodecServiceServer).EncodeTransaction(ctx, req)
}

func handlerDecodeCellOutput(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(DecodeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(CodecServiceServer).DecodeCellOutput(ctx, req)
}

func handlerEncodeCellOutput(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.CellOutput)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(CodecServiceServer).EncodeCellOutput(ctx, req)
}

func handlerDecodeScript(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(DecodeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(CodecServiceServer).DecodeScript(ctx, req)
}

func handlerEncodeScript(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.Script)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(CodecServiceServer).EncodeScript(ctx, req)
}

func handlerNormalizeScalar(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(NormalizeScalarRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(CodecServiceServer).NormalizeScalar(ctx, req)
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor for the codec.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CodecServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "DecodeTransaction", Handler: handlerDecodeTransaction},
		{MethodName: "EncodeTransaction", Handler: handlerEncodeTransaction},
		{MethodName: "DecodeCellOutput", Handler: handlerDecodeCellOutput},
		{MethodName: "EncodeCellOutput", Handler: handlerEncodeCellOutput},
		{MethodName: "DecodeScript", Handler: handlerDecodeScript},
		{MethodName: "EncodeScript", Handler: handlerEncodeScript},
		{MethodName: "NormalizeScalar", Handler: handlerNormalizeScalar},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "DecodeTransactions",
			Handler:       handlerDecodeTransactions,
			ServerStreams: true,
			ClientStreams: false,
		},
	},
	Metadata: "cellcodec/v1/service.cram",
}
