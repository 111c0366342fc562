// Package grpcserver exposes the user directory as the userdir.Users gRPC
// service. Messages are the JSON documents of the HTTP API, carried by Codec.
package grpcserver

import (
	"net"

	"google.golang.org/grpc"

	"github.com/patric-chuzhbe/userdir/internal/grpcserver/interceptor"
)

// NewGRPCServer listens on addr and registers handler. The caller serves lis.
func NewGRPCServer(addr string, handler UsersServer) (*grpc.Server, net.Listener, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	server := grpc.NewServer(
		grpc.ForceServerCodec(Codec{}),
		grpc.ChainUnaryInterceptor(
			interceptor.UnaryLoggingInterceptor(),
			interceptor.UnaryRecoveryInterceptor(),
		),
	)
	server.RegisterService(&ServiceDesc, handler)

	return server, lis, nil
}
