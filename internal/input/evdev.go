package input

import (
	"encoding/binary"
	"io"
	"os"

	"git.lost.host/meutraa/lanes/internal/logx"
)

// Linux input event types and key codes, from input-event-codes.h
const (
	evKey = 0x01

	keyEsc   = 1
	keyEnter = 28
	keyD     = 32
	keyF     = 33
	keySpace = 57
)

// Key codes by position on a US layout
var evdevRows = []struct {
	first uint16
	keys  string
}{
	{2, "1234567890-="},
	{16, "qwertyuiop[]"},
	{30, "asdfghjkl;'`"},
	{43, "\\zxcvbnm,./"},
}

var evdevCodes = func() map[uint16]string {
	codes := map[uint16]string{
		keyEsc:   CodeEscape,
		keyEnter: CodeEnter,
		keySpace: CodeSpace,
	}
	for _, row := range evdevRows {
		for i, r := range row.keys {
			codes[row.first+uint16(i)] = string(r)
		}
	}
	return codes
}()

// EvdevReadable reports whether code can be read from an event device.
func EvdevReadable(code string) bool {
	for _, c := range evdevCodes {
		if c == code {
			return true
		}
	}
	return false
}

// struct input_event on 64 bit Linux
type keyEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// ReadEvdev forwards key presses from a Linux event device, such as
// /dev/input/event3, until the reader fails.
func ReadEvdev(r io.Reader, events chan<- Event) error {
	var ev keyEvent
	for {
		if err := binary.Read(r, binary.LittleEndian, &ev); nil != err {
			if err == io.EOF {
				return nil
			}
			return err
		}
		// 1 is a press, 0 a release and 2 a repeat
		if ev.Type != evKey || ev.Value != 1 {
			continue
		}
		code, ok := evdevCodes[ev.Code]
		if !ok {
			continue
		}
		events <- Event{Code: code}
	}
}

// EvdevSource reads presses directly from a keyboard device.
type EvdevSource struct {
	file   *os.File
	events chan Event
}

func OpenEvdev(device string, buffer int, log *logx.Logger) (*EvdevSource, error) {
	f, err := os.Open(device)
	if nil != err {
		return nil, err
	}
	s := &EvdevSource{file: f, events: make(chan Event, buffer)}
	go func() {
		if err := ReadEvdev(f, s.events); nil != err {
			log.Errorf("unable to read keyboard input: %v", err)
		}
	}()
	return s, nil
}

func (s *EvdevSource) Events() <-chan Event {
	return s.events
}

func (s *EvdevSource) Close() error {
	return s.file.Close()
}
