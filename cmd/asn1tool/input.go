package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// openInput opens the named file, or stdin for "-" or no argument. With
// asHex the input is hex text, whitespace and colons ignored.
func openInput(stdin io.Reader, args []string, asHex bool) (io.Reader, func() error, error) {
	var r io.Reader = stdin
	closer := func() error { return nil }
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, nil, err
		}
		r, closer = f, f.Close
	}
	if !asHex {
		return r, closer, nil
	}
	text, err := io.ReadAll(r)
	if err != nil {
		closer()
		return nil, nil, err
	}
	b, err := parseHex(string(text))
	if err != nil {
		closer()
		return nil, nil, err
	}
	return bytes.NewReader(b), closer, nil
}

func readInput(stdin io.Reader, args []string, asHex bool) ([]byte, error) {
	r, closer, err := openInput(stdin, args, asHex)
	if err != nil {
		return nil, err
	}
	defer closer()
	return io.ReadAll(r)
}

func parseHex(text string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' {
			return -1
		}
		return r
	}, text)
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("parsing hex input: %w", err)
	}
	return b, nil
}
