//go:build rp2040

package main

import "machine"

// flashMedium persists the settings record at the start of the RP2040's
// spare flash data area. The record must stay within the first erase
// block: WriteRecord erases that block before rewriting it.
type flashMedium struct{}

func (flashMedium) ReadRecord(offset int, buf []byte) error {
	_, err := machine.Flash.ReadAt(buf, int64(offset))
	return err
}

func (flashMedium) WriteRecord(offset int, data []byte) error {
	if err := machine.Flash.EraseBlocks(0, 1); err != nil {
		return err
	}
	// Pad up to the flash write granularity.
	block := int(machine.Flash.WriteBlockSize())
	padded := make([]byte, (offset+len(data)+block-1)/block*block)
	copy(padded[offset:], data)
	_, err := machine.Flash.WriteAt(padded, 0)
	return err
}

// Commit is a no-op: RP2040 flash writes complete synchronously.
func (flashMedium) Commit() error { return nil }
