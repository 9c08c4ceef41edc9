// Package snapshot stores save files: a JSON header line followed by the
// JSON save summary. Paths ending in .zst are zstd-compressed; readers
// detect compression from the frame magic rather than the name.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"neondrift.city/internal/sim/world"
	"neondrift.city/schemas"
)

const Version = 1

type Header struct {
	Version   int    `json:"version"`
	SessionID string `json:"session_id"`
	Seed      uint64 `json:"seed"`
	Tick      uint64 `json:"tick"`
	Ending    string `json:"ending,omitempty"`
	SavedAt   string `json:"saved_at"`
}

type SaveV1 struct {
	Header  Header        `json:"header"`
	Summary world.Summary `json:"summary"`
}

var saveSchema = schemas.MustCompile(schemas.Save)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func WriteSave(path string, s SaveV1) error {
	if s.Header.Version == 0 {
		s.Header.Version = Version
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if err := encode(f, s, strings.HasSuffix(path, ".zst")); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func encode(w io.Writer, s SaveV1, compress bool) error {
	var enc *zstd.Encoder
	if compress {
		var err error
		enc, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		w = enc
	}
	bw := bufio.NewWriter(w)

	hb, err := json.Marshal(s.Header)
	if err != nil {
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(s.Summary); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if enc != nil {
		return enc.Close()
	}
	return nil
}

// ReadSave decodes a save file and validates the summary against the save
// schema before returning it.
func ReadSave(path string) (SaveV1, error) {
	var s SaveV1
	f, err := os.Open(path)
	if err != nil {
		return s, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if magic, _ := br.Peek(len(zstdMagic)); bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return s, err
		}
		defer dec.Close()
		br = bufio.NewReader(dec)
	}

	hb, err := br.ReadBytes('\n')
	if err != nil {
		return s, fmt.Errorf("header: %w", err)
	}
	if err := json.Unmarshal(hb, &s.Header); err != nil {
		return s, fmt.Errorf("header: %w", err)
	}
	if s.Header.Version != Version {
		return s, fmt.Errorf("unsupported save version %d", s.Header.Version)
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return s, err
	}
	if err := ValidateSummary(body); err != nil {
		return s, err
	}
	if err := json.Unmarshal(body, &s.Summary); err != nil {
		return s, fmt.Errorf("json decode: %w", err)
	}
	return s, nil
}

// ValidateSummary checks a raw summary document against the save schema.
func ValidateSummary(raw []byte) error {
	var doc any
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	if err := d.Decode(&doc); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	if err := saveSchema.Validate(doc); err != nil {
		return fmt.Errorf("invalid save: %w", err)
	}
	return nil
}
