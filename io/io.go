// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package io offers serialization test helpers for plonkish objects.
package io

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// RoundTripCheck serializes from, deserializes the bytes into a fresh object
// obtained from to, serializes that object again and checks that both byte
// streams are identical and that the read consumed exactly what the write
// produced. It exercises the WriteTo/ReadFrom pair of a type without looking
// at the object itself; callers wanting a structural comparison diff the two
// objects separately.
func RoundTripCheck(from io.WriterTo, to func() io.ReaderFrom) error {
	var buf bytes.Buffer
	written, err := from.WriteTo(&buf)
	if err != nil {
		return fmt.Errorf("write to buffer: %w", err)
	}
	if written != int64(buf.Len()) {
		return fmt.Errorf("WriteTo reported %d bytes, wrote %d", written, buf.Len())
	}

	reconstructed := to()
	read, err := reconstructed.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("read from buffer: %w", err)
	}
	if read != written {
		return fmt.Errorf("read %d bytes, expected %d", read, written)
	}

	w, ok := reconstructed.(io.WriterTo)
	if !ok {
		return errors.New("reconstructed object is not an io.WriterTo")
	}
	var again bytes.Buffer
	if _, err := w.WriteTo(&again); err != nil {
		return fmt.Errorf("write reconstructed object: %w", err)
	}
	if !bytes.Equal(buf.Bytes(), again.Bytes()) {
		return errors.New("reconstructed object serializes to different bytes")
	}
	return nil
}
