package ipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParcelSequence(t *testing.T) {
	p := NewParcel()
	p.WriteInterfaceToken(InterfaceToken)
	p.WriteInt32(-7)
	p.WriteUint32(42)
	p.WriteInt64(-1 << 40)
	p.WriteFloat32(1.5)
	p.WriteBool(true)
	p.WriteString("héllo")
	p.WriteStringVector([]string{"a", "", "c"})

	r := ParcelFrom(p.Bytes())

	tok, err := r.ReadInterfaceToken()
	require.NoError(t, err)
	assert.Equal(t, InterfaceToken, tok)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i32)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), u32)

	i64, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1<<40), i64)

	f, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f)

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	vec, err := r.ReadStringVector()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "c"}, vec)

	assert.Zero(t, r.Remaining())
}

func TestParcelShortReads(t *testing.T) {
	empty := ParcelFrom(nil)

	_, err := empty.ReadInt32()
	assert.ErrorIs(t, err, ErrShortRead)
	_, err = empty.ReadInt64()
	assert.ErrorIs(t, err, ErrShortRead)
	_, err = empty.ReadBool()
	assert.ErrorIs(t, err, ErrShortRead)
	_, err = empty.ReadString()
	assert.ErrorIs(t, err, ErrShortRead)

	p := NewParcel()
	p.WriteUint32(1)
	r := ParcelFrom(p.Bytes())
	_, err = r.ReadInt64()
	assert.ErrorIs(t, err, ErrShortRead, "4 bytes cannot hold an int64")
	_, err = r.ReadUint32()
	assert.NoError(t, err, "failed read consumes nothing")
}

func TestParcelVectorBounds(t *testing.T) {
	p := NewParcel()
	p.WriteInt32(-1)
	_, err := ParcelFrom(p.Bytes()).ReadStringVector()
	assert.ErrorIs(t, err, ErrTooLarge)

	p = NewParcel()
	p.WriteInt32(3)
	p.WriteString("only one")
	_, err = ParcelFrom(p.Bytes()).ReadStringVector()
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestParcelBadBool(t *testing.T) {
	r := ParcelFrom([]byte{0x02})
	_, err := r.ReadBool()
	assert.ErrorIs(t, err, ErrBadValue)
}
