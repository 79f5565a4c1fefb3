package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInt(t *testing.T) {
	cases := []struct {
		nBits int
		v     int
	}{
		{8, 0xAB},
		{16, 0x1234},
		{32, 0x7FEEDD11},
	}
	for _, c := range cases {
		w := NewWriter()
		w.EncodeInt(c.v, c.nBits)
		r := NewReader(w.Bytes())
		assert.Equal(t, c.v, r.DecodeInt(c.nBits))
	}
}

func TestEncodeDecodeStr(t *testing.T) {
	w := NewWriter()
	w.EncodeStr("hello")
	r := NewReader(w.Bytes())
	assert.Equal(t, "hello", r.DecodeStr())
}

func TestEncodeDecodeStrLst(t *testing.T) {
	in := []string{"run", "runs", "running"}
	w := NewWriter()
	w.EncodeStrLst(in)
	r := NewReader(w.Bytes())
	assert.Equal(t, in, r.DecodeStrLst())
}

func TestEncodeDecodeStrLstEmpty(t *testing.T) {
	w := NewWriter()
	w.EncodeStrLst(nil)
	r := NewReader(w.Bytes())
	assert.Equal(t, []string{}, r.DecodeStrLst())
}

func TestEncodeDecodeIntLst(t *testing.T) {
	in := []int{1, 2, 3, 255}
	w := NewWriter()
	w.EncodeIntLst(in, 16)
	r := NewReader(w.Bytes())
	assert.Equal(t, in, r.DecodeIntLst(16))
}

func TestEncodeDecodeLstLstNil(t *testing.T) {
	w := NewWriter()
	w.EncodeLstLst(nil, 8)
	r := NewReader(w.Bytes())
	assert.Nil(t, r.DecodeLstLst(8))
}

func TestEncodeDecodeLstLstNilInner(t *testing.T) {
	in := [][]int{{1, 2}, nil, {3}}
	w := NewWriter()
	w.EncodeLstLst(in, 8)
	r := NewReader(w.Bytes())
	out := r.DecodeLstLst(8)
	require.Len(t, out, 3)
	assert.Equal(t, []int{1, 2}, out[0])
	assert.Nil(t, out[1])
	assert.Equal(t, []int{3}, out[2])
}

func TestWriterSequence(t *testing.T) {
	w := NewWriter()
	w.EncodeInt(7, 8)
	w.EncodeStr("node")
	w.EncodeIntLst([]int{9, 10}, 16)

	r := NewReader(w.Bytes())
	assert.Equal(t, 7, r.DecodeInt(8))
	assert.Equal(t, "node", r.DecodeStr())
	assert.Equal(t, []int{9, 10}, r.DecodeIntLst(16))
}

func TestMarshalUnmarshalEnvelope(t *testing.T) {
	w := NewWriter()
	w.EncodeStr("payload")
	env := Envelope{FormatVersion: "1", Payload: w.Bytes()}

	data, err := Marshal(env)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, env.FormatVersion, got.FormatVersion)

	r := NewReader(got.Payload)
	assert.Equal(t, "payload", r.DecodeStr())
}

func TestUnmarshalInvalid(t *testing.T) {
	_, err := Unmarshal([]byte{0xFF, 0xFF, 0xFF})
	assert.Error(t, err)
}
