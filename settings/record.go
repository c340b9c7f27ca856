// Persisted settings record: byte layout, checksum and validation.
package settings

import (
	"encoding/binary"
	"errors"

	"afterfire/engine"
)

// Record byte layout, little-endian:
//
//	offset  0      version (1 byte)
//	offset  1      crc32 over bytes [5:] (4 bytes)
//	offset  5      ssid (32 bytes, NUL padded)
//	offset 37      password (32 bytes, NUL padded)
//	offset 69      calibration: neutralLow, neutralHigh, minPulse,
//	               maxPulse, neutralPulse (5 x uint16)
//	offset 79      effect toggles: backfire, brake, idle, rpm (4 bytes)
//	offset 83      thresholds: backfireMin, backfireMax, brakeMin,
//	               brakeMax, rpmThreshold (5 x int16)
const (
	FormatVersion = 1
	RecordSize    = 93

	headerSize = 5 // Version byte plus checksum, excluded from the CRC
	credSize   = 32
)

// Validation failures. Any of these means the stored record is not
// trusted and compiled-in defaults stay in effect.
var (
	ErrShortRecord = errors.New("settings: record too short")
	ErrVersion     = errors.New("settings: unknown format version")
	ErrChecksum    = errors.New("settings: checksum mismatch")
)

// Record is the full persisted settings set. Credentials are carried
// opaquely for the network collaborator; the effect engine never reads
// them.
type Record struct {
	SSID     [credSize]byte
	Password [credSize]byte
	Profile  engine.CalibrationProfile
	Effects  engine.EffectConfig
}

// DefaultRecord returns the compiled-in settings used when storage is
// uninitialized or fails validation.
func DefaultRecord() Record {
	return Record{
		Profile: engine.DefaultProfile(),
		Effects: engine.DefaultEffects(),
	}
}

// Marshal serializes the record, recomputing the checksum over every
// byte after the header.
func (r *Record) Marshal() []byte {
	buf := make([]byte, RecordSize)
	buf[0] = FormatVersion
	copy(buf[headerSize:], r.SSID[:])
	copy(buf[headerSize+credSize:], r.Password[:])

	off := headerSize + 2*credSize
	putU16 := func(v uint16) {
		binary.LittleEndian.PutUint16(buf[off:], v)
		off += 2
	}
	putBool := func(v bool) {
		if v {
			buf[off] = 1
		}
		off++
	}

	putU16(r.Profile.NeutralLow)
	putU16(r.Profile.NeutralHigh)
	putU16(r.Profile.MinPulse)
	putU16(r.Profile.MaxPulse)
	putU16(r.Profile.NeutralPulse)

	putBool(r.Effects.Backfire)
	putBool(r.Effects.BrakeCrackle)
	putBool(r.Effects.IdleBurble)
	putBool(r.Effects.RPMFlicker)

	putU16(uint16(int16(r.Effects.BackfireEngageMin)))
	putU16(uint16(int16(r.Effects.BackfireReleaseMax)))
	putU16(uint16(int16(r.Effects.BrakeEngageMin)))
	putU16(uint16(int16(r.Effects.BrakeTriggerMax)))
	putU16(uint16(int16(r.Effects.RPMFlickerStartPct)))

	binary.LittleEndian.PutUint32(buf[1:], CRC32(buf[headerSize:]))
	return buf
}

// Unmarshal validates and decodes a stored record. The format version
// must match and the stored checksum must equal the checksum recomputed
// over the payload; otherwise the record is rejected unchanged.
func Unmarshal(data []byte) (Record, error) {
	var r Record
	if len(data) < RecordSize {
		return r, ErrShortRecord
	}
	if data[0] != FormatVersion {
		return r, ErrVersion
	}
	if binary.LittleEndian.Uint32(data[1:]) != CRC32(data[headerSize:RecordSize]) {
		return r, ErrChecksum
	}

	copy(r.SSID[:], data[headerSize:])
	copy(r.Password[:], data[headerSize+credSize:])

	off := headerSize + 2*credSize
	getU16 := func() uint16 {
		v := binary.LittleEndian.Uint16(data[off:])
		off += 2
		return v
	}
	getBool := func() bool {
		v := data[off] != 0
		off++
		return v
	}

	r.Profile.NeutralLow = getU16()
	r.Profile.NeutralHigh = getU16()
	r.Profile.MinPulse = getU16()
	r.Profile.MaxPulse = getU16()
	r.Profile.NeutralPulse = getU16()

	r.Effects.Backfire = getBool()
	r.Effects.BrakeCrackle = getBool()
	r.Effects.IdleBurble = getBool()
	r.Effects.RPMFlicker = getBool()

	r.Effects.BackfireEngageMin = int(int16(getU16()))
	r.Effects.BackfireReleaseMax = int(int16(getU16()))
	r.Effects.BrakeEngageMin = int(int16(getU16()))
	r.Effects.BrakeTriggerMax = int(int16(getU16()))
	r.Effects.RPMFlickerStartPct = int(int16(getU16()))

	return r, nil
}
