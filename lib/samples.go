package sieveline

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/mailru/easyjson/jlexer"
	jwriter "github.com/mailru/easyjson/jwriter"
)

// A Sample is a single observation of an irregularly sampled series.
// V may be NaN to denote a missing value at T.
type Sample struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
}

// Samples is a slice of Sample type elements.
type Samples []Sample

// Add appends the given Sample to the slice.
func (ss *Samples) Add(s *Sample) { *ss = append(*ss, *s) }

// Close sorts the Samples by timestamp.
func (ss *Samples) Close() { sort.Sort(ss) }

// The following methods implement sort.Interface
func (ss Samples) Len() int           { return len(ss) }
func (ss Samples) Less(i, j int) bool { return ss[i].T < ss[j].T }
func (ss Samples) Swap(i, j int)      { ss[i], ss[j] = ss[j], ss[i] }

// Split returns the timestamps and values of the Samples as separate slices.
func (ss Samples) Split() (t, v []float64) {
	t = make([]float64, len(ss))
	v = make([]float64, len(ss))
	for i := range ss {
		t[i], v[i] = ss[i].T, ss[i].V
	}
	return t, v
}

// Zip combines parallel timestamp and value slices into Samples.
func Zip(t, v []float64) Samples {
	ss := make(Samples, len(t))
	for i := range t {
		ss[i] = Sample{T: t[i], V: v[i]}
	}
	return ss
}

// A Decoder decodes a Sample and returns an error in case of failure.
type Decoder func(*Sample) error

// Decode is an alias for invoking the Decoder itself.
func (dec Decoder) Decode(s *Sample) error { return dec(s) }

// An Encoder encodes a Sample and returns an error in case of failure.
type Encoder func(*Sample) error

// Encode is an alias for invoking the Encoder itself.
func (enc Encoder) Encode(s *Sample) error { return enc(s) }

// NewJSONDecoder returns a Decoder that decodes one JSON encoded
// Sample per line from the given io.Reader.
func NewJSONDecoder(r io.Reader) Decoder {
	rd := bufio.NewReader(r)
	return func(s *Sample) (err error) {
		var jl jlexer.Lexer
		if jl.Data, err = rd.ReadBytes('\n'); err != nil && len(jl.Data) == 0 {
			return err
		}
		(*jsonSample)(s).decode(&jl)
		return jl.Error()
	}
}

// NewJSONEncoder returns an Encoder that encodes one Sample
// as JSON per line to the given io.Writer.
func NewJSONEncoder(w io.Writer) Encoder {
	var jw jwriter.Writer
	return func(s *Sample) error {
		(*jsonSample)(s).encode(&jw)
		jw.RawByte('\n')
		if jw.Error != nil {
			return jw.Error
		}
		_, err := jw.DumpTo(w)
		return err
	}
}

// NewCSVDecoder returns a Decoder that decodes CSV encoded Samples
// from the given io.Reader. Each record has the shape
//
//	timestamp_seconds,value
//
// where value may be the literal NaN, or empty, for a missing sample.
func NewCSVDecoder(r io.Reader) Decoder {
	dec := csv.NewReader(r)
	dec.FieldsPerRecord = 2
	dec.TrimLeadingSpace = true
	return func(s *Sample) error {
		rec, err := dec.Read()
		if err != nil {
			return err
		}

		if s.T, err = strconv.ParseFloat(rec[0], 64); err != nil {
			return err
		}

		if rec[1] == "" {
			s.V = math.NaN()
			return nil
		}

		s.V, err = strconv.ParseFloat(rec[1], 64)
		return err
	}
}

// NewCSVEncoder returns an Encoder that encodes Samples as CSV records
// to the given io.Writer.
func NewCSVEncoder(w io.Writer) Encoder {
	enc := csv.NewWriter(w)
	return func(s *Sample) error {
		rec := [2]string{
			strconv.FormatFloat(s.T, 'f', -1, 64),
			strconv.FormatFloat(s.V, 'f', -1, 64),
		}
		if err := enc.Write(rec[:]); err != nil {
			return err
		}
		enc.Flush()
		return enc.Error()
	}
}

// ReadAll drains the given Decoder until io.EOF, returning the
// decoded Samples sorted by timestamp.
func ReadAll(dec Decoder) (Samples, error) {
	var ss Samples
	for {
		var s Sample
		if err := dec.Decode(&s); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		ss.Add(&s)
	}
	ss.Close()
	return ss, nil
}
