package grpc

import (
	"fmt"

	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/ipc"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"google.golang.org/protobuf/types/known/structpb"
)

// Message field names. Every request carries the persistent id of the
// session it targets; every reply carries a result code.
const (
	fieldSession  = "persistent_id"
	fieldCode     = "code"
	fieldRect     = "rect"
	fieldReason   = "reason"
	fieldEvent    = "event"
	fieldRatio    = "ratio"
	fieldType     = "type"
	fieldArea     = "area"
	fieldAction   = "action"
	fieldProperty = "property"
	fieldEnable   = "enable"
	fieldMode     = "mode"
	fieldToken    = "channel_token"
	fieldURL      = "channel_url"
	fieldTarget   = "target_id"
)

// message builds a structpb message field by field. The first failed
// conversion is kept and reported by build.
type message struct {
	fields map[string]*structpb.Value
	err    error
}

func newMessage(persistentID int64) *message {
	m := &message{fields: make(map[string]*structpb.Value)}
	return m.num(fieldSession, float64(persistentID))
}

func (m *message) num(key string, v float64) *message {
	m.fields[key] = structpb.NewNumberValue(v)
	return m
}

func (m *message) str(key, v string) *message {
	m.fields[key] = structpb.NewStringValue(v)
	return m
}

func (m *message) boolean(key string, v bool) *message {
	m.fields[key] = structpb.NewBoolValue(v)
	return m
}

func (m *message) rect(key string, r types.Rect) *message {
	m.fields[key] = structpb.NewStructValue(encodeRect(r))
	return m
}

func (m *message) property(d property.Data) *message {
	b, err := property.FromData(d).Marshal()
	if err != nil && m.err == nil {
		m.err = err
	}
	return m.str(fieldProperty, string(b))
}

func (m *message) build() (*structpb.Struct, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &structpb.Struct{Fields: m.fields}, nil
}

func encodeRect(r types.Rect) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"x":      structpb.NewNumberValue(float64(r.X)),
		"y":      structpb.NewNumberValue(float64(r.Y)),
		"width":  structpb.NewNumberValue(float64(r.Width)),
		"height": structpb.NewNumberValue(float64(r.Height)),
	}}
}

func decodeRect(s *structpb.Struct) types.Rect {
	f := s.GetFields()
	return types.Rect{
		X:      int32(f["x"].GetNumberValue()),
		Y:      int32(f["y"].GetNumberValue()),
		Width:  uint32(f["width"].GetNumberValue()),
		Height: uint32(f["height"].GetNumberValue()),
	}
}

func encodeAvoidArea(a types.AvoidArea) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"top":    structpb.NewStructValue(encodeRect(a.Top)),
		"left":   structpb.NewStructValue(encodeRect(a.Left)),
		"right":  structpb.NewStructValue(encodeRect(a.Right)),
		"bottom": structpb.NewStructValue(encodeRect(a.Bottom)),
	}}
}

func decodeAvoidArea(s *structpb.Struct) types.AvoidArea {
	f := s.GetFields()
	return types.AvoidArea{
		Top:    decodeRect(f["top"].GetStructValue()),
		Left:   decodeRect(f["left"].GetStructValue()),
		Right:  decodeRect(f["right"].GetStructValue()),
		Bottom: decodeRect(f["bottom"].GetStructValue()),
	}
}

// fields is a read view over a decoded message.
type fields map[string]*structpb.Value

func (f fields) getInt64(key string) int64 { return int64(f[key].GetNumberValue()) }
func (f fields) getUint32(key string) uint32 { return uint32(f[key].GetNumberValue()) }
func (f fields) getFloat32(key string) float32 { return float32(f[key].GetNumberValue()) }
func (f fields) getBool(key string) bool { return f[key].GetBoolValue() }
func (f fields) getString(key string) string { return f[key].GetStringValue() }

func (f fields) getRect(key string) types.Rect {
	return decodeRect(f[key].GetStructValue())
}

func (f fields) getProperty() (property.Data, error) {
	raw := f.getString(fieldProperty)
	if raw == "" {
		return property.Data{}, fmt.Errorf("missing %s", fieldProperty)
	}
	p, err := property.Unmarshal([]byte(raw))
	if err != nil {
		return property.Data{}, err
	}
	return p.Snapshot(), nil
}

func (f fields) getEndpoint() ipc.Endpoint {
	return ipc.Endpoint{Token: f.getString(fieldToken), URL: f.getString(fieldURL)}
}

// resultCode returns the host result carried in a reply.
func resultCode(reply *structpb.Struct) error {
	code := types.WSError(fields(reply.GetFields()).getInt64(fieldCode))
	if code == types.WSOk {
		return nil
	}
	return code
}
