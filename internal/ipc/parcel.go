package ipc

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	ErrShortRead  = errors.New("parcel: short read")
	ErrBadValue   = errors.New("parcel: malformed value")
	ErrTooLarge   = errors.New("parcel: vector too large")
	maxVectorSize = int32(1 << 16)
)

// Parcel is a flat sequence of typed values. Writes append, reads consume
// from the front; any read past the end fails with ErrShortRead.
type Parcel struct {
	buf []byte
	off int
}

// NewParcel creates an empty parcel for writing
func NewParcel() *Parcel {
	return &Parcel{}
}

// ParcelFrom wraps received bytes for reading
func ParcelFrom(b []byte) *Parcel {
	return &Parcel{buf: b}
}

// Bytes returns the encoded parcel
func (p *Parcel) Bytes() []byte {
	return p.buf
}

// Remaining returns the number of unread bytes
func (p *Parcel) Remaining() int {
	return len(p.buf) - p.off
}

func (p *Parcel) WriteInt32(v int32) {
	p.buf = protowire.AppendFixed32(p.buf, uint32(v))
}

func (p *Parcel) WriteUint32(v uint32) {
	p.buf = protowire.AppendFixed32(p.buf, v)
}

func (p *Parcel) WriteInt64(v int64) {
	p.buf = protowire.AppendFixed64(p.buf, uint64(v))
}

func (p *Parcel) WriteUint64(v uint64) {
	p.buf = protowire.AppendFixed64(p.buf, v)
}

func (p *Parcel) WriteFloat32(v float32) {
	p.buf = protowire.AppendFixed32(p.buf, math.Float32bits(v))
}

func (p *Parcel) WriteBool(v bool) {
	p.buf = protowire.AppendVarint(p.buf, protowire.EncodeBool(v))
}

func (p *Parcel) WriteString(v string) {
	p.buf = protowire.AppendString(p.buf, v)
}

// WriteStringVector writes a length prefix followed by each string.
func (p *Parcel) WriteStringVector(v []string) {
	p.WriteInt32(int32(len(v)))
	for _, s := range v {
		p.WriteString(s)
	}
}

// WriteInterfaceToken writes the descriptor checked by the receiving stub.
func (p *Parcel) WriteInterfaceToken(token string) {
	p.WriteString(token)
}

func (p *Parcel) ReadUint32() (uint32, error) {
	v, n := protowire.ConsumeFixed32(p.buf[p.off:])
	if n < 0 {
		return 0, ErrShortRead
	}
	p.off += n
	return v, nil
}

func (p *Parcel) ReadInt32() (int32, error) {
	v, err := p.ReadUint32()
	return int32(v), err
}

func (p *Parcel) ReadUint64() (uint64, error) {
	v, n := protowire.ConsumeFixed64(p.buf[p.off:])
	if n < 0 {
		return 0, ErrShortRead
	}
	p.off += n
	return v, nil
}

func (p *Parcel) ReadInt64() (int64, error) {
	v, err := p.ReadUint64()
	return int64(v), err
}

func (p *Parcel) ReadFloat32() (float32, error) {
	v, err := p.ReadUint32()
	return math.Float32frombits(v), err
}

func (p *Parcel) ReadBool() (bool, error) {
	v, n := protowire.ConsumeVarint(p.buf[p.off:])
	if n < 0 {
		return false, ErrShortRead
	}
	if v > 1 {
		return false, ErrBadValue
	}
	p.off += n
	return protowire.DecodeBool(v), nil
}

func (p *Parcel) ReadString() (string, error) {
	v, n := protowire.ConsumeString(p.buf[p.off:])
	if n < 0 {
		return "", ErrShortRead
	}
	p.off += n
	return v, nil
}

func (p *Parcel) ReadStringVector() ([]string, error) {
	size, err := p.ReadInt32()
	if err != nil {
		return nil, err
	}
	if size < 0 || size > maxVectorSize {
		return nil, fmt.Errorf("%w: %d", ErrTooLarge, size)
	}
	out := make([]string, 0, size)
	for i := int32(0); i < size; i++ {
		s, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *Parcel) ReadInterfaceToken() (string, error) {
	return p.ReadString()
}
