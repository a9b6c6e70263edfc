package event

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/hupe1980/recotarget/codec"
)

// maxLineSize bounds a single encoded event.
const maxLineSize = 16 << 20

// Decode reads JSON-lines event records from r. Blank lines are skipped.
func Decode(r io.Reader, c codec.Codec) ([]Event, error) {
	c = codec.OrDefault(c)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var events []Event
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}

		var ev Event
		if err := c.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// DecodeFile decompresses and decodes a whole event file held in memory.
func DecodeFile(data []byte, comp Compression, c codec.Codec) ([]Event, error) {
	rc, err := NewReader(bytes.NewReader(data), comp)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Decode(rc, c)
}

// Encode writes events to w as JSON lines.
func Encode(w io.Writer, events []Event, c codec.Codec) error {
	c = codec.OrDefault(c)

	bw := bufio.NewWriter(w)
	for i, ev := range events {
		if err := ev.Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		b, err := c.Marshal(ev)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeFile encodes events into a complete, optionally compressed, event
// file.
func EncodeFile(events []Event, comp Compression, c codec.Codec) ([]byte, error) {
	var buf bytes.Buffer

	wc, err := NewWriter(&buf, comp)
	if err != nil {
		return nil, err
	}
	if err := Encode(wc, events, c); err != nil {
		_ = wc.Close()
		return nil, err
	}
	if err := wc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
