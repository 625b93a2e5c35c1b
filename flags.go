package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/c2h5oh/datasize"

	sieveline "github.com/sieveline/sieveline/lib"
)

// csl implements the flag.Value interface for comma separated lists
type csl []string

func (l *csl) Set(v string) error {
	*l = strings.Split(v, ",")
	return nil
}

func (l csl) String() string { return strings.Join(l, ",") }

// kinds parses the list as feature kind names.
func (l csl) kinds() (sieveline.FeatureKinds, error) {
	var keep sieveline.FeatureKinds
	for _, name := range l {
		switch name {
		case "":
		case "peaks":
			keep |= sieveline.KindPeaks
		case "valleys":
			keep |= sieveline.KindValleys
		case "edges":
			keep |= sieveline.KindEdges
		case "all":
			keep |= sieveline.KindAll
		default:
			return 0, fmt.Errorf("unknown feature kind %q in [peaks, valleys, edges, all]", name)
		}
	}
	return keep, nil
}

// maxSizeFlag caps the number of input bytes read per file. -1 means no limit.
type maxSizeFlag struct{ n *int64 }

func (f *maxSizeFlag) Set(v string) (err error) {
	if v == "-1" {
		*(f.n) = -1
		return nil
	}

	var ds datasize.ByteSize
	if err = ds.UnmarshalText([]byte(v)); err != nil {
		return err
	}

	if ds > math.MaxInt64 {
		return fmt.Errorf("-max-size=%d overflows int64", ds)
	}

	*(f.n) = int64(ds)
	return nil
}

func (f *maxSizeFlag) String() string {
	if f.n == nil {
		return ""
	} else if *(f.n) == -1 {
		return "-1"
	}
	return datasize.ByteSize(*(f.n)).String()
}
