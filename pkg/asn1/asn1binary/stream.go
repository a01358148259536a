package asn1binary

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

// StreamReader reads consecutive TLVs from an io.Reader. Each call to Next
// buffers exactly one complete TLV, including indefinite length ones, and
// hands it to the Decoder.
type StreamReader struct {
	br      *bufio.Reader
	decoder *Decoder
	offset  int64
}

// NewStreamReader returns a StreamReader. A nil decoder decodes plain BER.
func NewStreamReader(r io.Reader, decoder *Decoder) *StreamReader {
	if decoder == nil {
		decoder = &Decoder{}
	}
	return &StreamReader{br: bufio.NewReader(r), decoder: decoder}
}

// InputOffset is the number of octets consumed so far.
func (s *StreamReader) InputOffset() int64 {
	return s.offset
}

// Next returns the next TLV. It returns io.EOF only when the input ends on a
// TLV boundary.
func (s *StreamReader) Next() (*Node, error) {
	if _, err := s.br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := s.readTLV(buf, 0); err != nil {
		return nil, err
	}
	data := buf.Bytes()
	node, _, err := s.decoder.Decode(data, 0)
	if err != nil {
		return nil, err
	}
	s.offset += int64(len(data))
	return node, nil
}

func (s *StreamReader) readByte(buf *bytes.Buffer) (byte, error) {
	b, err := s.br.ReadByte()
	if err != nil {
		return 0, s.truncated(buf, err)
	}
	buf.WriteByte(b)
	return b, nil
}

func (s *StreamReader) truncated(buf *bytes.Buffer, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return asn1error.NewSyntaxError(asn1error.ErrTruncatedContent, int(s.offset)+buf.Len(), "stream ended inside a TLV")
	}
	return err
}

// readTLV copies the octets of one TLV into buf without interpreting them
// beyond what is needed to find its end.
func (s *StreamReader) readTLV(buf *bytes.Buffer, depth int) error {
	if depth > s.decoder.maxDepth() {
		return asn1error.NewSyntaxError(asn1error.ErrDepthExceeded, int(s.offset)+buf.Len(), "more than %d nested constructions", s.decoder.maxDepth())
	}
	start := buf.Len()
	first, err := s.readByte(buf)
	if err != nil {
		return err
	}
	if first&tagNumberMask == tagNumberMask {
		for i := 0; ; i++ {
			b, err := s.readByte(buf)
			if err != nil {
				return err
			}
			if b&continuationBit == 0 {
				break
			}
			if i > 5 {
				return asn1error.NewSyntaxError(asn1error.ErrMalformedIdentifier, int(s.offset)+start, "tag number too long")
			}
		}
	}

	lengthStart := buf.Len()
	first, err = s.readByte(buf)
	if err != nil {
		return err
	}
	if first == indefiniteOctet {
		for {
			peek, err := s.br.Peek(2)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return asn1error.NewSyntaxError(asn1error.ErrUnterminatedIndefiniteLength, int(s.offset)+start, "stream ended before end-of-contents")
				}
				return err
			}
			if peek[0] == 0x00 && peek[1] == 0x00 {
				buf.Write(peek)
				_, err = s.br.Discard(2)
				return err
			}
			if err := s.readTLV(buf, depth+1); err != nil {
				return err
			}
		}
	}
	if first&0x80 != 0 {
		count := int(first &^ 0x80)
		for i := 0; i < count; i++ {
			if _, err := s.readByte(buf); err != nil {
				return err
			}
		}
	}
	length, _, err := DecodeLength(buf.Bytes(), lengthStart)
	if err != nil {
		return err
	}
	if _, err := io.CopyN(buf, s.br, int64(length.Length)); err != nil {
		return s.truncated(buf, err)
	}
	return nil
}
