// Settings store over a byte-addressable persistence medium.
package settings

import "fmt"

// Medium is the abstract persistent blob the store writes records into.
// Platform code supplies the real implementation (flash, EEPROM); the
// store owns the record's byte layout and versioning, the medium only
// guarantees durability after Commit.
type Medium interface {
	// ReadRecord fills buf from the blob starting at offset.
	ReadRecord(offset int, buf []byte) error

	// WriteRecord writes data to the blob starting at offset.
	WriteRecord(offset int, data []byte) error

	// Commit flushes pending writes to durable storage.
	Commit() error
}

// Store persists the settings record at a fixed offset of its medium.
// Saves are whole-record writes: a load never observes a partial record
// because a torn write fails the checksum and falls back to defaults.
type Store struct {
	medium Medium
	offset int
}

// NewStore creates a store over m, keeping the record at offset 0.
func NewStore(m Medium) *Store {
	return &Store{medium: m}
}

// Load reads and validates the stored record. On any failure (read
// error, bad version, bad checksum) it returns the compiled-in defaults
// together with the validation error; corrupt or uninitialized storage is
// expected on first boot and is never fatal.
func (s *Store) Load() (Record, error) {
	buf := make([]byte, RecordSize)
	if err := s.medium.ReadRecord(s.offset, buf); err != nil {
		return DefaultRecord(), fmt.Errorf("settings: read: %w", err)
	}
	rec, err := Unmarshal(buf)
	if err != nil {
		return DefaultRecord(), err
	}
	return rec, nil
}

// Save writes the record transactionally: one whole-record write followed
// by a commit. The caller must not assume the save completed until Save
// returns, and must not issue a second save while one is in flight; the
// single main loop serializes all call sites.
func (s *Store) Save(rec *Record) error {
	if err := s.medium.WriteRecord(s.offset, rec.Marshal()); err != nil {
		return fmt.Errorf("settings: write: %w", err)
	}
	if err := s.medium.Commit(); err != nil {
		return fmt.Errorf("settings: commit: %w", err)
	}
	return nil
}

// Reset zeroes the stored record including credentials, for factory-reset
// flows. The zeroed record fails validation on the next load, so defaults
// take effect.
func (s *Store) Reset() error {
	if err := s.medium.WriteRecord(s.offset, make([]byte, RecordSize)); err != nil {
		return fmt.Errorf("settings: reset: %w", err)
	}
	if err := s.medium.Commit(); err != nil {
		return fmt.Errorf("settings: commit: %w", err)
	}
	return nil
}

// MemMedium is an in-memory Medium used by the host simulator and tests.
type MemMedium struct {
	blob [RecordSize]byte
}

// ReadRecord copies from the in-memory blob.
func (m *MemMedium) ReadRecord(offset int, buf []byte) error {
	if offset+len(buf) > len(m.blob) {
		return fmt.Errorf("settings: read past end of medium")
	}
	copy(buf, m.blob[offset:])
	return nil
}

// WriteRecord copies into the in-memory blob.
func (m *MemMedium) WriteRecord(offset int, data []byte) error {
	if offset+len(data) > len(m.blob) {
		return fmt.Errorf("settings: write past end of medium")
	}
	copy(m.blob[offset:], data)
	return nil
}

// Commit is a no-op for the in-memory medium.
func (m *MemMedium) Commit() error { return nil }
