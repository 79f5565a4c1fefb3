// Package serial implements the rule-table binary codec: a big-endian,
// length-prefixed encoding of ints, strings, and list-of-lists, matching the
// wire layout the lexicon and the transform value tables are serialized in.
//
// Per-field bit-width control (8/16/32-bit ints chosen per call site, and
// the "0-length list-of-lists entry decodes as nil" convention) is hand
// rolled here rather than delegated to rezi: rezi's Enc/Dec pair picks a
// single self-describing encoding per Go type and does not expose a way to
// pin a given []int to an 8-bit wire width, which several tables in this
// format require. rezi is used instead at the higher level, for the
// envelope that wraps this format (see Envelope below).
package serial

import (
	"bytes"
	"fmt"

	"github.com/dekarrin/rezi"
)

// Writer accumulates bytes in the wire format described above.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated byte slice.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// EncodeInt writes v using nBits (8, 16, or 32), big-endian.
func (w *Writer) EncodeInt(v int, nBits int) {
	switch nBits {
	case 8:
		w.buf.WriteByte(byte(v))
	case 16:
		w.buf.WriteByte(byte(v >> 8))
		w.buf.WriteByte(byte(v))
	default:
		w.buf.WriteByte(byte(v >> 24))
		w.buf.WriteByte(byte(v >> 16))
		w.buf.WriteByte(byte(v >> 8))
		w.buf.WriteByte(byte(v))
	}
}

// EncodeStr writes s as a 1-byte length prefix followed by its bytes. s must
// be shorter than 256 bytes.
func (w *Writer) EncodeStr(s string) {
	w.buf.WriteByte(byte(len(s)))
	w.buf.WriteString(s)
}

// EncodeStrLst writes a 32-bit count followed by each string via EncodeStr.
func (w *Writer) EncodeStrLst(lst []string) {
	w.EncodeInt(len(lst), 32)
	for _, s := range lst {
		w.EncodeStr(s)
	}
}

// EncodeIntLst writes a 16-bit count followed by each int at nBits width.
func (w *Writer) EncodeIntLst(lst []int, nBits int) {
	w.EncodeInt(len(lst), 16)
	for _, e := range lst {
		w.EncodeInt(e, nBits)
	}
}

// EncodeLstLst writes a list of int-lists. A nil lst encodes as a 0-length
// outer count; a nil inner list encodes as a 0-length inner count.
func (w *Writer) EncodeLstLst(lst [][]int, nBits int) {
	if lst == nil {
		w.EncodeInt(0, 16)
		return
	}
	w.EncodeInt(len(lst), 16)
	for _, v := range lst {
		w.EncodeInt(len(v), 16)
		for _, e := range v {
			w.EncodeInt(e, nBits)
		}
	}
}

// Reader consumes bytes written in the Writer's format.
type Reader struct {
	buf []byte
	ix  int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// DecodeInt reads an nBits-wide (8/16/32) big-endian int.
func (r *Reader) DecodeInt(nBits int) int {
	switch nBits {
	case 8:
		v := int(r.buf[r.ix])
		r.ix++
		return v
	case 16:
		v := int(r.buf[r.ix])<<8 | int(r.buf[r.ix+1])
		r.ix += 2
		return v
	default:
		v := int(r.buf[r.ix])<<24 | int(r.buf[r.ix+1])<<16 |
			int(r.buf[r.ix+2])<<8 | int(r.buf[r.ix+3])
		r.ix += 4
		return v
	}
}

// DecodeStr reads a 1-byte-length-prefixed string.
func (r *Reader) DecodeStr() string {
	n := int(r.buf[r.ix])
	r.ix++
	s := string(r.buf[r.ix : r.ix+n])
	r.ix += n
	return s
}

// DecodeStrLst reads a 32-bit count followed by that many DecodeStr calls.
func (r *Reader) DecodeStrLst() []string {
	n := r.DecodeInt(32)
	lst := make([]string, n)
	for i := range lst {
		lst[i] = r.DecodeStr()
	}
	return lst
}

// DecodeIntLst reads a 16-bit count followed by that many nBits-wide ints.
func (r *Reader) DecodeIntLst(nBits int) []int {
	n := r.DecodeInt(16)
	lst := make([]int, n)
	for i := range lst {
		lst[i] = r.DecodeInt(nBits)
	}
	return lst
}

// DecodeLstLst reads a list of int-lists. A 0-length outer count decodes to
// nil; each 0-length inner count decodes to a nil inner list.
func (r *Reader) DecodeLstLst(nBits int) [][]int {
	n := r.DecodeInt(16)
	if n == 0 {
		return nil
	}
	out := make([][]int, n)
	for i := range out {
		lenV := r.DecodeInt(16)
		if lenV == 0 {
			out[i] = nil
			continue
		}
		v := make([]int, lenV)
		for j := range v {
			v[j] = r.DecodeInt(nBits)
		}
		out[i] = v
	}
	return out
}

// Envelope is the top-level container persisted to the rule-table blob: a
// format version tag plus the lexicon/parser payload produced by Writer.
// The envelope itself is encoded with rezi, since its shape (one versioned
// string field plus one opaque byte-blob field) is exactly the generic
// struct codec rezi is built for; the blob's own internal layout remains
// the hand-rolled format above.
type Envelope struct {
	FormatVersion string
	Payload       []byte
}

// Marshal encodes env with rezi.
func Marshal(env Envelope) ([]byte, error) {
	return rezi.Enc(env)
}

// Unmarshal decodes an Envelope previously produced by Marshal.
func Unmarshal(data []byte) (Envelope, error) {
	var env Envelope
	if _, err := rezi.Dec(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode rule-table envelope: %w", err)
	}
	return env, nil
}
