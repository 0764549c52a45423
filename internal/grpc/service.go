package grpc

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/domain/window"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the gRPC service every session host exposes.
const ServiceName = "windowscene.SessionService"

// Method names of the session service.
const (
	MethodConnect                = "Connect"
	MethodForeground             = "Foreground"
	MethodBackground             = "Background"
	MethodDisconnect             = "Disconnect"
	MethodUpdateActiveStatus     = "UpdateActiveStatus"
	MethodUpdateSessionRect      = "UpdateSessionRect"
	MethodOnSessionEvent         = "OnSessionEvent"
	MethodSetAspectRatio         = "SetAspectRatio"
	MethodGetAvoidAreaByType     = "GetAvoidAreaByType"
	MethodUpdateProperty         = "UpdateProperty"
	MethodOnNeedAvoid            = "OnNeedAvoid"
	MethodRaiseToAppTop          = "RaiseToAppTop"
	MethodRequestSessionBack     = "RequestSessionBack"
	MethodSetGlobalMaximizeMode  = "SetGlobalMaximizeMode"
	MethodGetGlobalMaximizeMode  = "GetGlobalMaximizeMode"
	MethodCreateSpecificSession  = "CreateAndConnectSpecificSession"
	MethodDestroySpecificSession = "DestroyAndDisconnectSpecificSession"
)

// FullMethod returns the gRPC path of a session service method.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// SessionServer is the host side of the session service. Each call names
// the session it targets by persistent id; id 0 addresses the session
// manager. Errors that are types.WSError or types.WMError travel back as
// result codes; anything else fails the RPC.
type SessionServer interface {
	Connect(ctx context.Context, persistentID int64, req window.ConnectRequest) (window.ConnectReply, error)
	Foreground(ctx context.Context, persistentID int64) error
	Background(ctx context.Context, persistentID int64) error
	Disconnect(ctx context.Context, persistentID int64) error
	UpdateActiveStatus(ctx context.Context, persistentID int64, active bool) error
	UpdateSessionRect(ctx context.Context, persistentID int64, rect types.Rect, reason types.SizeChangeReason) error
	OnSessionEvent(ctx context.Context, persistentID int64, event types.SessionEvent) error
	SetAspectRatio(ctx context.Context, persistentID int64, ratio float32) error
	GetAvoidAreaByType(ctx context.Context, persistentID int64, typ types.AvoidAreaType) (types.AvoidArea, error)
	UpdateProperty(ctx context.Context, persistentID int64, action property.Action, data property.Data) error
	OnNeedAvoid(ctx context.Context, persistentID int64, status bool) error
	RaiseToAppTop(ctx context.Context, persistentID int64) error
	RequestSessionBack(ctx context.Context, persistentID int64) error
	SetGlobalMaximizeMode(ctx context.Context, persistentID int64, mode types.MaximizeMode) error
	GetGlobalMaximizeMode(ctx context.Context, persistentID int64) (types.MaximizeMode, error)
	CreateAndConnectSpecificSession(ctx context.Context, parentID int64, req window.ConnectRequest) (window.ConnectReply, error)
	DestroyAndDisconnectSpecificSession(ctx context.Context, parentID, persistentID int64) error
}

// serveFunc runs one method against the server and fills the reply.
type serveFunc func(ctx context.Context, srv SessionServer, id int64, in fields, out *message) error

var serveTable = map[string]serveFunc{
	MethodConnect: func(ctx context.Context, srv SessionServer, id int64, in fields, out *message) error {
		req, err := connectRequest(in)
		if err != nil {
			return types.WSErrInvalidParam
		}
		reply, err := srv.Connect(ctx, id, req)
		out.num(fieldTarget, float64(reply.PersistentID)).rect(fieldRect, reply.Rect)
		return err
	},
	MethodForeground: func(ctx context.Context, srv SessionServer, id int64, _ fields, _ *message) error {
		return srv.Foreground(ctx, id)
	},
	MethodBackground: func(ctx context.Context, srv SessionServer, id int64, _ fields, _ *message) error {
		return srv.Background(ctx, id)
	},
	MethodDisconnect: func(ctx context.Context, srv SessionServer, id int64, _ fields, _ *message) error {
		return srv.Disconnect(ctx, id)
	},
	MethodUpdateActiveStatus: func(ctx context.Context, srv SessionServer, id int64, in fields, _ *message) error {
		return srv.UpdateActiveStatus(ctx, id, in.getBool(fieldEnable))
	},
	MethodUpdateSessionRect: func(ctx context.Context, srv SessionServer, id int64, in fields, _ *message) error {
		return srv.UpdateSessionRect(ctx, id, in.getRect(fieldRect), types.SizeChangeReason(in.getUint32(fieldReason)))
	},
	MethodOnSessionEvent: func(ctx context.Context, srv SessionServer, id int64, in fields, _ *message) error {
		return srv.OnSessionEvent(ctx, id, types.SessionEvent(in.getUint32(fieldEvent)))
	},
	MethodSetAspectRatio: func(ctx context.Context, srv SessionServer, id int64, in fields, _ *message) error {
		return srv.SetAspectRatio(ctx, id, in.getFloat32(fieldRatio))
	},
	MethodGetAvoidAreaByType: func(ctx context.Context, srv SessionServer, id int64, in fields, out *message) error {
		area, err := srv.GetAvoidAreaByType(ctx, id, types.AvoidAreaType(in.getUint32(fieldType)))
		out.fields[fieldArea] = structpb.NewStructValue(encodeAvoidArea(area))
		return err
	},
	MethodUpdateProperty: func(ctx context.Context, srv SessionServer, id int64, in fields, _ *message) error {
		data, err := in.getProperty()
		if err != nil {
			return types.WSErrInvalidParam
		}
		return srv.UpdateProperty(ctx, id, property.Action(in.getUint32(fieldAction)), data)
	},
	MethodOnNeedAvoid: func(ctx context.Context, srv SessionServer, id int64, in fields, _ *message) error {
		return srv.OnNeedAvoid(ctx, id, in.getBool(fieldEnable))
	},
	MethodRaiseToAppTop: func(ctx context.Context, srv SessionServer, id int64, _ fields, _ *message) error {
		return srv.RaiseToAppTop(ctx, id)
	},
	MethodRequestSessionBack: func(ctx context.Context, srv SessionServer, id int64, _ fields, _ *message) error {
		return srv.RequestSessionBack(ctx, id)
	},
	MethodSetGlobalMaximizeMode: func(ctx context.Context, srv SessionServer, id int64, in fields, _ *message) error {
		return srv.SetGlobalMaximizeMode(ctx, id, types.MaximizeMode(in.getUint32(fieldMode)))
	},
	MethodGetGlobalMaximizeMode: func(ctx context.Context, srv SessionServer, id int64, _ fields, out *message) error {
		mode, err := srv.GetGlobalMaximizeMode(ctx, id)
		out.num(fieldMode, float64(mode))
		return err
	},
	MethodCreateSpecificSession: func(ctx context.Context, srv SessionServer, id int64, in fields, out *message) error {
		req, err := connectRequest(in)
		if err != nil {
			return types.WSErrInvalidParam
		}
		reply, err := srv.CreateAndConnectSpecificSession(ctx, id, req)
		out.num(fieldTarget, float64(reply.PersistentID)).rect(fieldRect, reply.Rect)
		return err
	},
	MethodDestroySpecificSession: func(ctx context.Context, srv SessionServer, id int64, in fields, _ *message) error {
		return srv.DestroyAndDisconnectSpecificSession(ctx, id, in.getInt64(fieldTarget))
	},
}

func connectRequest(in fields) (window.ConnectRequest, error) {
	data, err := in.getProperty()
	if err != nil {
		return window.ConnectRequest{}, err
	}
	return window.ConnectRequest{Property: data, Channel: in.getEndpoint()}, nil
}

// serve decodes the target id, runs the method and encodes its result code.
func serve(ctx context.Context, srv SessionServer, name string, req *structpb.Struct) (*structpb.Struct, error) {
	in := fields(req.GetFields())
	out := &message{fields: make(map[string]*structpb.Value)}

	err := serveTable[name](ctx, srv, in.getInt64(fieldSession), in, out)
	code := types.WSOk
	if err != nil {
		var ws types.WSError
		var wm types.WMError
		if !errors.As(err, &ws) && !errors.As(err, &wm) {
			return nil, err
		}
		code = types.ToWSError(err)
	}
	out.num(fieldCode, float64(code))
	return out.build()
}

func methodHandler(name string) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		run := func(ctx context.Context, req interface{}) (interface{}, error) {
			return serve(ctx, srv.(SessionServer), name, req.(*structpb.Struct))
		}
		if interceptor == nil {
			return run(ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(name),
		}
		return interceptor(ctx, in, info, run)
	}
}

func serviceDesc() *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*SessionServer)(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    "windowscene/session",
	}
	for name := range serveTable {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    methodHandler(name),
		})
	}
	return desc
}

// RegisterSessionServer registers srv on a gRPC server
func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(serviceDesc(), srv)
}
