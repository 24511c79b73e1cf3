package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sheetEngine/spreadsheet"
)

var SerializerError = errors.New("invalid serialized data")

const cellRecordVersion = byte(1)

// headerSize is the version byte plus the uint16 name length.
const headerSize = 3

// CellBinarySerializer encodes a cell record as
// version | little-endian uint16 name length | name | contents.
type CellBinarySerializer struct {
}

func NewCellBinarySerializer() *CellBinarySerializer {
	return &CellBinarySerializer{}
}

func (s *CellBinarySerializer) Marshal(record spreadsheet.Record) []byte {
	nameBytes := []byte(record.Name)

	serializedData := make([]byte, 0, headerSize+len(nameBytes)+len(record.Contents))

	serializedData = append(serializedData, cellRecordVersion)
	serializedData = binary.LittleEndian.AppendUint16(serializedData, uint16(len(nameBytes)))
	serializedData = append(serializedData, nameBytes...)
	serializedData = append(serializedData, record.Contents...)
	return serializedData
}

func (s *CellBinarySerializer) Unmarshal(data []byte) (record spreadsheet.Record, err error) {
	if len(data) < headerSize {
		return record, fmt.Errorf("%w: should be at least %d bytes (data: %v)", SerializerError, headerSize, string(data))
	}

	if data[0] != cellRecordVersion {
		return record, fmt.Errorf("%w: unknown record version %d", SerializerError, data[0])
	}

	nameLength := int(binary.LittleEndian.Uint16(data[1:]))
	if len(data) < headerSize+nameLength {
		return record, fmt.Errorf("%w: name size is less than bytes amount (nameSize: %d; data: %v)", SerializerError, nameLength, string(data))
	}

	record.Name = string(data[headerSize : headerSize+nameLength])
	record.Contents = string(data[headerSize+nameLength:])
	return
}
