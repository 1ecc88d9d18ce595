package transport

import (
	"go.bug.st/serial"
)

// readChunk bounds a single read from any endpoint
const readChunk = 4096

// serialPort adapts a serial.Port to ByteTransport. The port runs with a zero read
// timeout so a read returns whatever is queued without waiting
type serialPort struct {
	port  serial.Port
	stage []byte
	buf   []byte
}

func openSerial(name string, opts Options) (*serialPort, error) {
	baud := opts.Baud
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(0); err != nil {
		port.Close()
		return nil, err
	}
	return newSerialPort(port), nil
}

func newSerialPort(port serial.Port) *serialPort {
	return &serialPort{
		port: port,
		buf:  make([]byte, readChunk),
	}
}

func (s *serialPort) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Buffered moves any queued input into the stage and reports its size. The serial
// API has no bytes-available query, so a zero-timeout read stands in for one
func (s *serialPort) Buffered() (int, error) {
	if len(s.stage) < readChunk {
		n, err := s.port.Read(s.buf)
		if n > 0 {
			s.stage = append(s.stage, s.buf[:n]...)
		}
		if err != nil {
			return len(s.stage), err
		}
	}
	return len(s.stage), nil
}

func (s *serialPort) ReadAvailable() ([]byte, error) {
	if _, err := s.Buffered(); err != nil && len(s.stage) == 0 {
		return nil, err
	}
	out := s.stage
	s.stage = nil
	return out, nil
}

func (s *serialPort) Close() error {
	return s.port.Close()
}
