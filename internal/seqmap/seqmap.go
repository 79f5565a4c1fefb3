// Package seqmap implements sequence-of-term -> value-index recognition: a
// matrix of cells with per-cell transition tables and checksum/value-index
// tables, used by the transform framework's rule sets to recognize fixed
// sequences of syntax-class ids.
package seqmap

import (
	"fmt"
	"io"

	"github.com/AlCramer/msparse/internal/lex"
	"github.com/AlCramer/msparse/internal/pgraph"
	"github.com/AlCramer/msparse/internal/serial"
)

// ComputeCks computes the Fletcher-style checksum of a term sequence, used
// to disambiguate multiple sequences ending at the same cell.
func ComputeCks(seq []int) uint32 {
	var sum1, sum2 uint32
	for i := 0; i < len(seq); i += 2 {
		x := uint32(seq[i]) << 8
		if i+1 < len(seq) {
			x |= uint32(seq[i+1])
		}
		sum1 = (sum1 + x) % 0xffff
		sum2 = (sum2 + sum1) % 0xffff
	}
	return (sum2 << 16) | sum1
}

// SeqMap is a set of sequence->value mappings over an alphabet of
// 0..maxTerm.
type SeqMap struct {
	nRows, nCols int

	trsTbl    [][]int
	cksLstTbl [][]uint32
	vixLstTbl [][]int
}

// New returns an empty, unconfigured SeqMap.
func New() *SeqMap { return &SeqMap{} }

// SetDimensions sizes the matrix: maxSeqLen is the longest recognizable
// sequence, maxTerm the largest term value.
func (m *SeqMap) SetDimensions(maxSeqLen, maxTerm int) {
	m.nCols = maxTerm + 1
	m.nRows = maxSeqLen
	order := m.nCols * m.nRows
	m.trsTbl = make([][]int, order)
	m.cksLstTbl = make([][]uint32, order)
	m.vixLstTbl = make([][]int, order)
}

// Serialize writes m's matrix to w.
func (m *SeqMap) Serialize(w *serial.Writer) {
	w.EncodeInt(m.nRows, 32)
	if m.nRows == 0 {
		return
	}
	w.EncodeInt(m.nCols, 32)
	w.EncodeLstLst(intLstLst(m.trsTbl), 8)
	w.EncodeLstLst(u32LstLstAsInt(m.cksLstTbl), 32)
	w.EncodeLstLst(intLstLst(m.vixLstTbl), 16)
}

// Deserialize reads m's matrix from r.
func (m *SeqMap) Deserialize(r *serial.Reader) {
	m.nRows = r.DecodeInt(32)
	if m.nRows == 0 {
		return
	}
	m.nCols = r.DecodeInt(32)
	m.trsTbl = fromIntLstLst(r.DecodeLstLst(8))
	m.cksLstTbl = fromU32LstLst(r.DecodeLstLst(32))
	m.vixLstTbl = fromIntLstLst(r.DecodeLstLst(16))
}

func intLstLst(in [][]int) [][]int { return in }
func fromIntLstLst(in [][]int) [][]int { return in }

func u32LstLstAsInt(in [][]uint32) [][]int {
	out := make([][]int, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		row := make([]int, len(v))
		for j, e := range v {
			row[j] = int(e)
		}
		out[i] = row
	}
	return out
}

func fromU32LstLst(in [][]int) [][]uint32 {
	out := make([][]uint32, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		row := make([]uint32, len(v))
		for j, e := range v {
			row[j] = uint32(e)
		}
		out[i] = row
	}
	return out
}

// ValidatePath walks the path described by seq. If createTransitions, it
// creates transitions as needed; otherwise it fails on the first undefined
// transition. Returns the index of the last cell reached, or -1 on failure.
func (m *SeqMap) ValidatePath(seq []int, createTransitions bool) int {
	rowIx := 0
	colIx := seq[0]
	if len(seq) == 1 {
		return colIx
	}
	for {
		curCellIx := rowIx*m.nCols + colIx
		trs := m.trsTbl[curCellIx]
		if trs == nil {
			if !createTransitions {
				return -1
			}
			trs = []int{}
		}
		dstColIx := seq[rowIx+1]
		found := false
		for _, c := range trs {
			if c == dstColIx {
				found = true
				break
			}
		}
		if !found {
			if !createTransitions {
				return -1
			}
			trs = append(trs, dstColIx)
		}
		m.trsTbl[curCellIx] = trs
		rowIx++
		colIx = dstColIx
		if rowIx == len(seq)-1 {
			return rowIx*m.nCols + colIx
		}
	}
}

// GetSeqValAtCell returns the value associated with seq at the cell reached
// by a prior ValidatePath walk, or (0, false) if none matches.
func (m *SeqMap) GetSeqValAtCell(seq []int, cellIx int) (int, bool) {
	if cellIx == -1 {
		return 0, false
	}
	cks := ComputeCks(seq)
	cksLst := m.cksLstTbl[cellIx]
	for i, c := range cksLst {
		if c == cks {
			return m.vixLstTbl[cellIx][i], true
		}
	}
	return 0, false
}

// Get returns the value associated with seq, if any.
func (m *SeqMap) Get(seq []int) (int, bool) {
	if len(seq) == 0 {
		return 0, false
	}
	return m.GetSeqValAtCell(seq, m.ValidatePath(seq, false))
}

// DefineEntry associates valueIx with seq. Returns false if the (cell,
// checksum) pair is already assigned (a hash collision during table
// construction).
func (m *SeqMap) DefineEntry(seq []int, valueIx int) bool {
	if len(seq) == 0 {
		return false
	}
	cellIx := m.ValidatePath(seq, true)
	cks := ComputeCks(seq)
	cksLst := m.cksLstTbl[cellIx]
	for _, c := range cksLst {
		if c == cks {
			return false
		}
	}
	m.cksLstTbl[cellIx] = append(cksLst, cks)
	m.vixLstTbl[cellIx] = append(m.vixLstTbl[cellIx], valueIx)
	return true
}

// Match pairs a matched node sequence with its recognized value index.
type Match struct {
	Nodes []*pgraph.Pn
	Value int
}

// GetMatches finds all node sequences starting at e (walking Nxt if
// leftToRight, else Prv) whose syntax-class sequence is known to m.
func (m *SeqMap) GetMatches(e *pgraph.Pn, leftToRight bool) []Match {
	if m.nRows == 0 || e == nil {
		return nil
	}
	var matches []Match
	var seq []int
	var ndSeq []*pgraph.Pn
	colIx := int(e.Sc)
	rowIx := 0
	for {
		seq = append(seq, int(e.Sc))
		ndSeq = append(ndSeq, e)
		cellIx := rowIx*m.nCols + colIx
		if v, ok := m.GetSeqValAtCell(seq, cellIx); ok {
			cp := append([]*pgraph.Pn(nil), ndSeq...)
			matches = append(matches, Match{Nodes: cp, Value: v})
		}
		if leftToRight {
			e = e.Nxt
		} else {
			e = e.Prv
		}
		if e != nil {
			trs := m.trsTbl[cellIx]
			if containsInt(trs, int(e.Sc)) {
				rowIx++
				colIx = int(e.Sc)
				continue
			}
		}
		break
	}
	return matches
}

func containsInt(s []int, v int) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

// Printme writes a trace dump of the matrix to w, using termToStr (or the
// column index itself, if termToStr is nil) to render column labels.
func (m *SeqMap) Printme(w io.Writer, termToStr func(int) string) {
	fmt.Fprintf(w, "seqMap. nRows: %d nCols: %d\n", m.nRows, m.nCols)
	for rowIx := 0; rowIx < m.nRows; rowIx++ {
		for colIx := 0; colIx < m.nCols; colIx++ {
			cellIx := rowIx*m.nCols + colIx
			trsLst := m.trsTbl[cellIx]
			cksLst := m.cksLstTbl[cellIx]
			vixLst := m.vixLstTbl[cellIx]
			if len(trsLst) == 0 && len(cksLst) == 0 {
				continue
			}
			label := fmt.Sprintf("%d", colIx)
			if termToStr != nil {
				label = termToStr(colIx)
			}
			fmt.Fprintf(w, "[%d,%d] sc:%s trs:%v\n", rowIx, colIx, label, trsLst)
			for i, cks := range cksLst {
				fmt.Fprintf(w, "  cks: %d. %d\n", cks, vixLst[i])
			}
		}
	}
}

// ScToStr renders a single syntax-class term for trace output.
func ScToStr(lx *lex.Lexicon, v int) string { return lx.ScSpelling(lex.Key(v)) }

// SrSeqToStr renders a packed srSeq (4-bit scope offset, 4-bit relation)
// sequence for trace output.
func SrSeqToStr(srNames func(int) string, seq []int) string {
	s := ""
	for i, t := range seq {
		if i > 0 {
			s += " "
		}
		scopeOffset := 0xf & (t >> 4)
		sr := 0xf & t
		s += fmt.Sprintf("%s:%d", srNames(sr), scopeOffset)
	}
	return s
}
