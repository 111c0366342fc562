package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/patric-chuzhbe/userdir/internal/models"
)

const serviceName = "userdir.Users"

const (
	MethodCreateUser = "/" + serviceName + "/CreateUser"
	MethodListUsers  = "/" + serviceName + "/ListUsers"
	MethodUpdateUser = "/" + serviceName + "/UpdateUser"
	MethodDeleteUser = "/" + serviceName + "/DeleteUser"
	MethodPing       = "/" + serviceName + "/Ping"
)

// Empty is the message of calls that carry nothing.
type Empty struct{}

type UpdateUserRequest struct {
	ID     string            `json:"id"`
	Fields models.UserFields `json:"fields"`
}

type DeleteUserRequest struct {
	ID string `json:"id"`
}

// UsersServer is the server side of the userdir.Users service.
type UsersServer interface {
	CreateUser(ctx context.Context, in *models.UserFields) (*models.User, error)
	ListUsers(ctx context.Context, in *Empty) (*models.ListUsersResponse, error)
	UpdateUser(ctx context.Context, in *UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, in *DeleteUserRequest) (*models.MessageResponse, error)
	Ping(ctx context.Context, in *Empty) (*models.MessageResponse, error)
}

// ServiceDesc describes userdir.Users for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*UsersServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateUser",
			Handler: unaryHandler(MethodCreateUser, func(ctx context.Context, srv UsersServer, in *models.UserFields) (interface{}, error) {
				return srv.CreateUser(ctx, in)
			}),
		},
		{
			MethodName: "ListUsers",
			Handler: unaryHandler(MethodListUsers, func(ctx context.Context, srv UsersServer, in *Empty) (interface{}, error) {
				return srv.ListUsers(ctx, in)
			}),
		},
		{
			MethodName: "UpdateUser",
			Handler: unaryHandler(MethodUpdateUser, func(ctx context.Context, srv UsersServer, in *UpdateUserRequest) (interface{}, error) {
				return srv.UpdateUser(ctx, in)
			}),
		},
		{
			MethodName: "DeleteUser",
			Handler: unaryHandler(MethodDeleteUser, func(ctx context.Context, srv UsersServer, in *DeleteUserRequest) (interface{}, error) {
				return srv.DeleteUser(ctx, in)
			}),
		},
		{
			MethodName: "Ping",
			Handler: unaryHandler(MethodPing, func(ctx context.Context, srv UsersServer, in *Empty) (interface{}, error) {
				return srv.Ping(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "userdir.Users",
}

// unaryHandler decodes the request into a fresh Req and runs call through
// the interceptor chain.
func unaryHandler[Req any](
	fullMethod string,
	call func(ctx context.Context, srv UsersServer, in *Req) (interface{}, error),
) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(
		srv interface{},
		ctx context.Context,
		dec func(interface{}) error,
		interceptor grpc.UnaryServerInterceptor,
	) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
		}

		if interceptor == nil {
			return call(ctx, srv.(UsersServer), in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(ctx, srv.(UsersServer), req.(*Req))
		}

		return interceptor(ctx, in, info, handler)
	}
}

// UsersClient calls userdir.Users over conn.
type UsersClient struct {
	conn grpc.ClientConnInterface
}

func NewUsersClient(conn grpc.ClientConnInterface) *UsersClient {
	return &UsersClient{conn: conn}
}

func (c *UsersClient) CreateUser(ctx context.Context, in *models.UserFields, opts ...grpc.CallOption) (*models.User, error) {
	out := new(models.User)
	if err := c.invoke(ctx, MethodCreateUser, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) ListUsers(ctx context.Context, opts ...grpc.CallOption) (*models.ListUsersResponse, error) {
	out := new(models.ListUsersResponse)
	if err := c.invoke(ctx, MethodListUsers, &Empty{}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*models.User, error) {
	out := new(models.User)
	if err := c.invoke(ctx, MethodUpdateUser, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*models.MessageResponse, error) {
	out := new(models.MessageResponse)
	if err := c.invoke(ctx, MethodDeleteUser, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) Ping(ctx context.Context, opts ...grpc.CallOption) (*models.MessageResponse, error) {
	out := new(models.MessageResponse)
	if err := c.invoke(ctx, MethodPing, &Empty{}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	return c.conn.Invoke(ctx, method, in, out, opts...)
}
