// This file has been modified from the original generated code to make it work
// with type alias jsonSample so that the methods aren't exposed in Sample, and
// to map JSON null to NaN for missing values.
package sieveline

import (
	"math"

	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

type jsonSample Sample

func (out *jsonSample) decode(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeString()
		in.WantColon()
		if in.IsNull() {
			if key == "v" {
				out.V = math.NaN()
			}
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "t":
			out.T = float64(in.Float64())
		case "v":
			out.V = float64(in.Float64())
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func (in jsonSample) encode(out *jwriter.Writer) {
	out.RawByte('{')
	first := true
	_ = first
	{
		const prefix string = ",\"t\":"
		if first {
			first = false
			out.RawString(prefix[1:])
		} else {
			out.RawString(prefix)
		}
		out.Float64(float64(in.T))
	}
	{
		const prefix string = ",\"v\":"
		if first {
			first = false
			out.RawString(prefix[1:])
		} else {
			out.RawString(prefix)
		}
		if math.IsNaN(in.V) {
			out.RawString("null")
		} else {
			out.Float64(float64(in.V))
		}
	}
	out.RawByte('}')
}
