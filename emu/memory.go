package emu

import (
	"errors"
	"fmt"
)

// MemoryCells is the number of double-precision cells in memory.
const MemoryCells = 8

// CellSize is the size of one memory cell in bytes.
const CellSize = 8

// MemResetValue is the reset value of every memory cell.
const MemResetValue = 1.0

// ErrAddressOutOfRange is returned for accesses outside memory.
var ErrAddressOutOfRange = errors.New("address out of range")

// Memory is a flat array of double-precision cells addressed in bytes.
// A byte address selects cell address/CellSize.
type Memory struct {
	cells [MemoryCells]float64
}

// NewMemory returns memory with every cell set to 1.0.
func NewMemory() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset restores every cell to MemResetValue.
func (m *Memory) Reset() {
	for i := range m.cells {
		m.cells[i] = MemResetValue
	}
}

// CellIndex converts a byte address into a cell index. The division
// truncates toward zero, so addresses in (-CellSize, 0) select cell 0.
func CellIndex(addr int64) (int, error) {
	idx := addr / CellSize
	if idx < 0 || idx >= MemoryCells {
		return 0, fmt.Errorf("%w: byte address %d (cell %d)", ErrAddressOutOfRange, addr, idx)
	}
	return int(idx), nil
}

// Read returns the cell holding the byte address.
func (m *Memory) Read(addr int64) (float64, error) {
	idx, err := CellIndex(addr)
	if err != nil {
		return 0, err
	}
	return m.cells[idx], nil
}

// Write stores value into the cell holding the byte address.
func (m *Memory) Write(addr int64, value float64) error {
	idx, err := CellIndex(addr)
	if err != nil {
		return err
	}
	m.cells[idx] = value
	return nil
}

// Cell returns cell i directly. i must be in [0, MemoryCells).
func (m *Memory) Cell(i int) float64 {
	return m.cells[i]
}

// SetCell sets cell i directly. i must be in [0, MemoryCells).
func (m *Memory) SetCell(i int, value float64) {
	m.cells[i] = value
}

// Cells returns a copy of all cells.
func (m *Memory) Cells() [MemoryCells]float64 {
	return m.cells
}

// Clone returns a copy of the memory.
func (m *Memory) Clone() *Memory {
	c := *m
	return &c
}
