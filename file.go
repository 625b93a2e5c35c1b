package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	sieveline "github.com/sieveline/sieveline/lib"
)

func file(name string, create bool) (*os.File, error) {
	switch name {
	case "stdin":
		return os.Stdin, nil
	case "stdout":
		return os.Stdout, nil
	default:
		if create {
			return os.Create(name)
		}
		return os.Open(name)
	}
}

// decoder opens the named input file and returns a Decoder for the given
// format. maxSize caps the bytes read; -1 means no limit.
func decoder(name, format string, maxSize int64) (sieveline.Decoder, io.Closer, error) {
	rc, err := file(name, false)
	if err != nil {
		return nil, nil, err
	}

	var r io.Reader = rc
	if maxSize >= 0 {
		r = io.LimitReader(rc, maxSize)
	}

	dec, err := decoderFor(r, format)
	if err != nil {
		rc.Close()
		return nil, nil, err
	}

	return dec, rc, nil
}

func decoderFor(r io.Reader, format string) (sieveline.Decoder, error) {
	switch format {
	case "csv":
		return sieveline.NewCSVDecoder(r), nil
	case "json":
		return sieveline.NewJSONDecoder(r), nil
	default:
		return nil, fmt.Errorf("unsupported format %q in [csv, json]", format)
	}
}

func encoderFor(w io.Writer, format string) (sieveline.Encoder, error) {
	switch format {
	case "csv":
		return sieveline.NewCSVEncoder(w), nil
	case "json":
		return sieveline.NewJSONEncoder(w), nil
	default:
		return nil, fmt.Errorf("unsupported format %q in [csv, json]", format)
	}
}

type multiCloser []io.Closer

func (mc multiCloser) Close() error {
	var errs []string
	for _, c := range mc {
		if err := c.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}
